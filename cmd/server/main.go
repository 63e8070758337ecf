package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/auth"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/config"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/db"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/handlers"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/middleware"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/router"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/whatsapp"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	authService, err := auth.NewService(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}
	hub := realtime.NewHub()

	llmStore := llm.NewStore(store, cfg.MasterKey)
	llmRouter := llm.NewRouter(llmStore, llm.NewFactory())
	aiService := llm.NewService(llmRouter, llmStore, cfg.AICallTimeout)

	leads := pipeline.NewStore(store)
	organizer := pipeline.NewOrganizer(leads, aiService, hub, cfg.OrganizePacing)
	responder := intel.NewAutoResponder()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	var queue *llm.Queue
	if cfg.RedisURL != "" {
		queue, err = llm.NewQueue(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer queue.Close()
	} else {
		log.Printf("REDIS_URL not set; inbound queue disabled")
	}

	var manager *whatsapp.Manager
	manager, err = whatsapp.NewManager(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("whatsapp disabled: %v", err)
		manager = nil
	} else {
		manager.SetSyncer(whatsapp.NewSyncer(leads, queue, hub))
		defer manager.Disconnect()
	}

	if queue != nil {
		worker := &llm.Worker{
			Queue:     queue,
			Service:   aiService,
			Organizer: organizer,
			Leads:     leads,
			Responder: responder,
			Hub:       hub,
			AgentName: cfg.AgentName,
		}
		if manager != nil {
			worker.Sender = manager
		}
		go worker.Start(rootCtx)
	}

	monitor := llm.NewHealthMonitor(llmRouter, llmStore, 5*time.Minute)
	go monitor.Run(rootCtx)

	api := &handlers.API{
		Leads:     leads,
		Auth:      authService,
		Hub:       hub,
		AI:        aiService,
		Organizer: organizer,
		WhatsApp:  manager,
		Responder: responder,
		AgentName: cfg.AgentName,
	}
	limiter := middleware.NewRateLimiter(60, time.Minute)
	rt := router.New(api, authService, limiter, cfg.FrontendOrigin, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rt,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
