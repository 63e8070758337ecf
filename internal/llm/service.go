package llm

import (
	"context"
	"log"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

// Service is the front door for AI work. Scoring and reply generation
// fail open: every provider error degrades to the keyword heuristics
// instead of surfacing to the caller.
type Service struct {
	Router  *Router
	Store   *Store
	Timeout time.Duration
}

func NewService(router *Router, store *Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{Router: router, Store: store, Timeout: timeout}
}

// ScoreLead walks the active providers in preference order and returns
// the first valid score, logging usage per attempt. When every provider
// fails, or none is configured, the keyword fallback scores the lead.
// The result is never nil.
func (s *Service) ScoreLead(ctx context.Context, leadID *int64, conversation []string) *contract.LeadScore {
	providers, err := s.Router.Providers(ctx)
	if err != nil {
		log.Printf("llm: listing providers failed: %v", err)
	}

	for _, provider := range providers {
		callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		score, err := provider.ScoreLead(callCtx, conversation)
		cancel()
		s.logUsage(ctx, provider, leadID, "score_lead", err)
		if err != nil {
			log.Printf("llm: %s scoring failed: %v", provider.Name(), err)
			continue
		}
		return score
	}
	return FallbackLeadScore(conversation)
}

// GenerateReply asks the default provider for a fluent reply and falls
// back to the supplied template response on any failure.
func (s *Service) GenerateReply(ctx context.Context, leadID *int64, history []string, message, fallback string) string {
	provider, err := s.Router.DefaultProvider(ctx)
	if err != nil {
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	reply, err := provider.GenerateReply(callCtx, history, message)
	s.logUsage(ctx, provider, leadID, "generate_reply", err)
	if err != nil || reply == "" {
		if err != nil {
			log.Printf("llm: %s reply failed: %v", provider.Name(), err)
		}
		return fallback
	}
	return reply
}

// ClassifyTicket delegates to the default provider. With no provider
// configured the keyword classifier answers; a provider error yields
// the safe default classification.
func (s *Service) ClassifyTicket(ctx context.Context, ticket intel.Ticket) intel.TicketClassification {
	provider, err := s.Router.DefaultProvider(ctx)
	if err != nil {
		return intel.ClassifyTicket(ticket)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	classification, err := provider.ClassifyTicket(callCtx, ticket)
	s.logUsage(ctx, provider, nil, "classify_ticket", err)
	if err != nil {
		log.Printf("llm: %s ticket classification failed: %v", provider.Name(), err)
		return intel.DefaultTicketClassification()
	}
	return *classification
}

func (s *Service) logUsage(ctx context.Context, provider contract.Provider, leadID *int64, feature string, callErr error) {
	if s.Store == nil {
		return
	}
	config := provider.GetConfig()

	var record contract.UsageRecord
	if reporter, ok := provider.(usageReporter); ok && callErr == nil {
		record = reporter.LastUsageRecord()
	}
	record.Feature = feature
	record.Success = callErr == nil
	if callErr != nil {
		record.ErrorMessage = callErr.Error()
	}
	if err := s.Store.InsertUsage(ctx, config.ID, leadID, record, config.CostPer1KInput, config.CostPer1KOutput); err != nil {
		log.Printf("llm: usage log failed: %v", err)
	}
}
