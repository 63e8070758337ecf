package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

type CohereProvider struct {
	client     *cohere.Client
	config     *contract.ProviderConfig
	retrier    Retrier
	lastUsage  contract.UsageStats
	lastRecord contract.UsageRecord
}

func NewCohereProvider(config *contract.ProviderConfig) *CohereProvider {
	client, _ := cohere.CreateClient(config.APIKey)
	return &CohereProvider{
		client:  client,
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 400 * time.Millisecond},
	}
}

func (c *CohereProvider) Name() string { return "cohere" }

func (c *CohereProvider) GetConfig() *contract.ProviderConfig { return c.config }

func (c *CohereProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	return &c.lastUsage, nil
}

func (c *CohereProvider) ScoreLead(ctx context.Context, conversation []string) (*contract.LeadScore, error) {
	content, err := c.generate(ctx, "score_lead", scoringPrompt(conversation))
	if err != nil {
		return nil, err
	}
	return parseLeadScore(content)
}

func (c *CohereProvider) GenerateReply(ctx context.Context, history []string, message string) (string, error) {
	content, err := c.generate(ctx, "generate_reply", replyPrompt(history, message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *CohereProvider) ClassifyTicket(ctx context.Context, ticket intel.Ticket) (*intel.TicketClassification, error) {
	content, err := c.generate(ctx, "classify_ticket", ticketPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseTicketClassification(content)
}

func (c *CohereProvider) generate(ctx context.Context, feature, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("cohere client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	var response *cohere.GenerateResponse
	err := c.retrier.Do(ctx, func() error {
		start := time.Now()
		maxTokens := uint(c.config.MaxTokens)
		temperature := c.config.Temperature
		result, err := c.client.Generate(cohere.GenerateOptions{
			Model:       c.config.ModelName,
			Prompt:      prompt,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return err
		}
		response = result
		c.captureUsage(feature, start)
		return nil
	})
	if err != nil {
		return "", err
	}
	if response == nil || len(response.Generations) == 0 {
		return "", errors.New("empty response")
	}
	return response.Generations[0].Text, nil
}

func (c *CohereProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	if c.client == nil {
		return &contract.HealthCheckResult{
			Status:       "error",
			ErrorMessage: "cohere client not initialized",
			Timestamp:    time.Now().UTC(),
		}, errors.New("cohere client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	_ = ctx // the cohere client predates context support

	start := time.Now()
	maxTokens := uint(10)
	temperature := 0.0
	_, err := c.client.Generate(cohere.GenerateOptions{
		Model:       c.config.ModelName,
		Prompt:      "Responde con: OK",
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
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

func (c *CohereProvider) captureUsage(feature string, start time.Time) {
	latency := time.Since(start)
	record := contract.UsageRecord{
		Latency: latency,
		Success: true,
		Feature: feature,
	}
	c.lastRecord = record
	c.lastUsage.TotalRequests++
	c.lastUsage.SuccessfulRequests++
	c.lastUsage.TotalCost += record.TotalCost(c.config.CostPer1KInput, c.config.CostPer1KOutput)
	c.lastUsage.AverageLatency = averageLatency(c.lastUsage.AverageLatency, latency, c.lastUsage.SuccessfulRequests)
}

func (c *CohereProvider) LastUsageRecord() contract.UsageRecord {
	return c.lastRecord
}
