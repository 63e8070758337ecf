package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

type ClaudeProvider struct {
	client     anthropic.Client
	config     *contract.ProviderConfig
	retrier    Retrier
	lastUsage  contract.UsageStats
	lastRecord contract.UsageRecord
}

func NewClaudeProvider(config *contract.ProviderConfig) *ClaudeProvider {
	client := anthropic.NewClient(option.WithAPIKey(config.APIKey))
	return &ClaudeProvider{
		client:  client,
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 500 * time.Millisecond},
	}
}

func (c *ClaudeProvider) Name() string { return "claude" }

func (c *ClaudeProvider) GetConfig() *contract.ProviderConfig { return c.config }

func (c *ClaudeProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	return &c.lastUsage, nil
}

func (c *ClaudeProvider) ScoreLead(ctx context.Context, conversation []string) (*contract.LeadScore, error) {
	content, err := c.complete(ctx, "score_lead", scoringPrompt(conversation))
	if err != nil {
		return nil, err
	}
	return parseLeadScore(content)
}

func (c *ClaudeProvider) GenerateReply(ctx context.Context, history []string, message string) (string, error) {
	content, err := c.complete(ctx, "generate_reply", replyPrompt(history, message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *ClaudeProvider) ClassifyTicket(ctx context.Context, ticket intel.Ticket) (*intel.TicketClassification, error) {
	content, err := c.complete(ctx, "classify_ticket", ticketPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseTicketClassification(content)
}

func (c *ClaudeProvider) complete(ctx context.Context, feature, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var response *anthropic.Message
	err := c.retrier.Do(ctx, func() error {
		start := time.Now()
		result, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.config.ModelName),
			MaxTokens:   int64(c.config.MaxTokens),
			Temperature: anthropic.Float(c.config.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return err
		}
		response = result
		c.captureUsage(feature, start, result.Usage)
		return nil
	})
	if err != nil {
		return "", err
	}
	if response == nil || len(response.Content) == 0 {
		return "", errors.New("empty response")
	}
	return response.Content[0].Text, nil
}

func (c *ClaudeProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.ModelName),
		MaxTokens:   int64(32),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Responde con: OK")),
		},
	})
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

func (c *ClaudeProvider) captureUsage(feature string, start time.Time, usage anthropic.Usage) {
	latency := time.Since(start)
	record := contract.UsageRecord{
		InputTokens:  int(usage.InputTokens),
		OutputTokens: int(usage.OutputTokens),
		TotalTokens:  int(usage.InputTokens + usage.OutputTokens),
		Latency:      latency,
		Success:      true,
		Feature:      feature,
	}
	c.lastRecord = record
	c.lastUsage.TotalRequests++
	c.lastUsage.SuccessfulRequests++
	c.lastUsage.TotalCost += record.TotalCost(c.config.CostPer1KInput, c.config.CostPer1KOutput)
	c.lastUsage.AverageLatency = averageLatency(c.lastUsage.AverageLatency, latency, c.lastUsage.SuccessfulRequests)
}

func (c *ClaudeProvider) LastUsageRecord() contract.UsageRecord {
	return c.lastRecord
}
