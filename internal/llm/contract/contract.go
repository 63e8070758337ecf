package contract

import (
	"context"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
)

// Provider is one configured generative-AI backend. Implementations must
// honor the context deadline and return plain errors; fallback handling
// is the caller's job.
type Provider interface {
	Name() string
	ScoreLead(ctx context.Context, conversation []string) (*LeadScore, error)
	GenerateReply(ctx context.Context, history []string, message string) (string, error)
	ClassifyTicket(ctx context.Context, ticket intel.Ticket) (*intel.TicketClassification, error)
	HealthCheck(ctx context.Context) (*HealthCheckResult, error)
	GetConfig() *ProviderConfig
	GetUsage(ctx context.Context) (*UsageStats, error)
}

type ProviderConfig struct {
	ID                   int64
	ProviderName         string
	APIKey               string
	ModelName            string
	BaseURL              string
	Temperature          float64
	MaxTokens            int
	CostPer1KInput       float64
	CostPer1KOutput      float64
	MaxRequestsPerMinute int
}

// LeadScore is the structured verdict over a lead's conversation.
// ConversionProbability (0-100) is the provider's estimate and is kept
// distinct from the heuristic commercial-potential metric in
// intel.Analysis; the fallback path derives one from the other.
type LeadScore struct {
	Score                 int    `json:"score"`
	Category              string `json:"category"`
	ConversionProbability int    `json:"conversion_probability"`
	Priority              string `json:"priority"`
	Sentiment             string `json:"sentiment"`
	NextAction            string `json:"next_action"`
	Timeline              string `json:"timeline"`
	Reasoning             string `json:"reasoning"`
}

// NoAction is the sentinel NextAction value meaning no follow-up task
// should be scheduled.
const NoAction = "ninguna"

type HealthCheckResult struct {
	Status        string        `json:"status"`
	Latency       time.Duration `json:"latency"`
	EstimatedCost float64       `json:"estimated_cost"`
	ErrorMessage  string        `json:"error_message"`
	Timestamp     time.Time     `json:"timestamp"`
}

type UsageStats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	TotalCost          float64       `json:"total_cost"`
	AverageLatency     time.Duration `json:"average_latency"`
}

type UsageRecord struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	Latency      time.Duration
	Success      bool
	ErrorMessage string
	Feature      string
}

func (u UsageRecord) InputCost(costPer1K float64) float64 {
	return (float64(u.InputTokens) / 1000.0) * costPer1K
}

func (u UsageRecord) OutputCost(costPer1K float64) float64 {
	return (float64(u.OutputTokens) / 1000.0) * costPer1K
}

func (u UsageRecord) TotalCost(costIn, costOut float64) float64 {
	return u.InputCost(costIn) + u.OutputCost(costOut)
}
