package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

type GeminiProvider struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	config     *contract.ProviderConfig
	retrier    Retrier
	lastUsage  contract.UsageStats
	lastRecord contract.UsageRecord
}

func NewGeminiProvider(config *contract.ProviderConfig) *GeminiProvider {
	provider := &GeminiProvider{
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 500 * time.Millisecond},
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return provider
	}
	model := client.GenerativeModel(config.ModelName)
	model.SetTemperature(float32(config.Temperature))
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}
	provider.client = client
	provider.model = model
	return provider
}

func (g *GeminiProvider) Name() string { return "gemini" }

func (g *GeminiProvider) GetConfig() *contract.ProviderConfig { return g.config }

func (g *GeminiProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	return &g.lastUsage, nil
}

func (g *GeminiProvider) ScoreLead(ctx context.Context, conversation []string) (*contract.LeadScore, error) {
	content, err := g.generate(ctx, "score_lead", scoringPrompt(conversation))
	if err != nil {
		return nil, err
	}
	return parseLeadScore(content)
}

func (g *GeminiProvider) GenerateReply(ctx context.Context, history []string, message string) (string, error) {
	content, err := g.generate(ctx, "generate_reply", replyPrompt(history, message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (g *GeminiProvider) ClassifyTicket(ctx context.Context, ticket intel.Ticket) (*intel.TicketClassification, error) {
	content, err := g.generate(ctx, "classify_ticket", ticketPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseTicketClassification(content)
}

func (g *GeminiProvider) generate(ctx context.Context, feature, prompt string) (string, error) {
	if g.model == nil {
		return "", errors.New("gemini client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var resp *genai.GenerateContentResponse
	err := g.retrier.Do(ctx, func() error {
		start := time.Now()
		result, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		resp = result
		g.captureUsage(feature, start, result.UsageMetadata)
		return nil
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (g *GeminiProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	if g.model == nil {
		return &contract.HealthCheckResult{
			Status:       "error",
			ErrorMessage: "gemini client not initialized",
			Timestamp:    time.Now().UTC(),
		}, errors.New("gemini client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	_, err := g.model.GenerateContent(ctx, genai.Text("Responde con: OK"))
	latency := time.Since(start)
	status := "ok"
	msg := ""
	if err != nil {
		status = "error"
		msg = err.Error()
	}
	return &contract.HealthCheckResult{
		Status:       status,
		Latency:      latency,
		ErrorMessage: msg,
		Timestamp:    time.Now().UTC(),
	}, err
}

func (g *GeminiProvider) captureUsage(feature string, start time.Time, usage *genai.UsageMetadata) {
	latency := time.Since(start)
	record := contract.UsageRecord{
		Latency: latency,
		Success: true,
		Feature: feature,
	}
	if usage != nil {
		record.InputTokens = int(usage.PromptTokenCount)
		record.OutputTokens = int(usage.CandidatesTokenCount)
		record.TotalTokens = int(usage.TotalTokenCount)
	}
	g.lastRecord = record
	g.lastUsage.TotalRequests++
	g.lastUsage.SuccessfulRequests++
	g.lastUsage.TotalCost += record.TotalCost(g.config.CostPer1KInput, g.config.CostPer1KOutput)
	g.lastUsage.AverageLatency = averageLatency(g.lastUsage.AverageLatency, latency, g.lastUsage.SuccessfulRequests)
}

func (g *GeminiProvider) LastUsageRecord() contract.UsageRecord {
	return g.lastRecord
}
