package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

type OpenAIProvider struct {
	client     openai.Client
	config     *contract.ProviderConfig
	retrier    Retrier
	lastUsage  contract.UsageStats
	lastRecord contract.UsageRecord
}

func NewOpenAIProvider(config *contract.ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 400 * time.Millisecond},
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) GetConfig() *contract.ProviderConfig { return o.config }

func (o *OpenAIProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	return &o.lastUsage, nil
}

func (o *OpenAIProvider) ScoreLead(ctx context.Context, conversation []string) (*contract.LeadScore, error) {
	content, err := o.completeJSON(ctx, "score_lead", scoringPrompt(conversation))
	if err != nil {
		return nil, err
	}
	return parseLeadScore(content)
}

func (o *OpenAIProvider) GenerateReply(ctx context.Context, history []string, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		systemMessage(salesPersona),
	}
	for _, line := range history {
		messages = append(messages, userMessage(line))
	}
	messages = append(messages, userMessage(message))

	start := time.Now()
	var resp *openai.ChatCompletion
	err := o.retrier.Do(ctx, func() error {
		result, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(o.config.ModelName),
			Temperature: openai.Float(o.config.Temperature),
			MaxTokens:   openai.Int(int64(o.config.MaxTokens)),
			Messages:    messages,
		})
		if err != nil {
			return err
		}
		resp = result
		return nil
	})
	if err != nil {
		return "", err
	}
	o.captureUsage("generate_reply", start, resp.Usage)
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIProvider) ClassifyTicket(ctx context.Context, ticket intel.Ticket) (*intel.TicketClassification, error) {
	content, err := o.completeJSON(ctx, "classify_ticket", ticketPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseTicketClassification(content)
}

func (o *OpenAIProvider) completeJSON(ctx context.Context, feature, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	var resp *openai.ChatCompletion
	err := o.retrier.Do(ctx, func() error {
		format := shared.NewResponseFormatJSONObjectParam()
		result, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(o.config.ModelName),
			Temperature: openai.Float(o.config.Temperature),
			MaxTokens:   openai.Int(int64(o.config.MaxTokens)),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &format,
			},
			Messages: []openai.ChatCompletionMessageParamUnion{
				userMessage(prompt),
			},
		})
		if err != nil {
			return err
		}
		resp = result
		return nil
	})
	if err != nil {
		return "", err
	}
	o.captureUsage(feature, start, resp.Usage)
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	_, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.config.ModelName),
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			userMessage("Responde con: OK"),
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

func (o *OpenAIProvider) captureUsage(feature string, start time.Time, usage openai.CompletionUsage) {
	latency := time.Since(start)
	record := contract.UsageRecord{
		InputTokens:  int(usage.PromptTokens),
		OutputTokens: int(usage.CompletionTokens),
		TotalTokens:  int(usage.TotalTokens),
		Latency:      latency,
		Success:      true,
		Feature:      feature,
	}
	o.lastRecord = record
	o.lastUsage.TotalRequests++
	o.lastUsage.SuccessfulRequests++
	o.lastUsage.TotalCost += record.TotalCost(o.config.CostPer1KInput, o.config.CostPer1KOutput)
	o.lastUsage.AverageLatency = averageLatency(o.lastUsage.AverageLatency, latency, o.lastUsage.SuccessfulRequests)
}

func (o *OpenAIProvider) LastUsageRecord() contract.UsageRecord {
	return o.lastRecord
}

func userMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}

func systemMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfSystem: &openai.ChatCompletionSystemMessageParam{
			Content: openai.ChatCompletionSystemMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}
