package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL    string
	Port           string
	JWTSecret      string
	FrontendOrigin string
	RedisURL       string
	MasterKey      string
	AgentName      string
	AICallTimeout  time.Duration
	OrganizePacing time.Duration
}

func Load() Config {
	cfg := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           os.Getenv("PORT"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		MasterKey:      os.Getenv("MASTER_KEY"),
		AgentName:      os.Getenv("AGENT_NAME"),
		AICallTimeout:  secondsEnv("AI_CALL_TIMEOUT_SECONDS", 20*time.Second),
		OrganizePacing: millisEnv("ORGANIZE_PACING_MS", 800*time.Millisecond),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = "http://localhost:5173"
	}
	if cfg.AgentName == "" {
		cfg.AgentName = "Asistente Comercial"
	}
	return cfg
}

func secondsEnv(key string, fallback time.Duration) time.Duration {
	if parsed, ok := intEnv(key); ok {
		return time.Duration(parsed) * time.Second
	}
	return fallback
}

func millisEnv(key string, fallback time.Duration) time.Duration {
	if parsed, ok := intEnv(key); ok {
		return time.Duration(parsed) * time.Millisecond
	}
	return fallback
}

func intEnv(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
