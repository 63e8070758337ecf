// Package llm routes AI work to configured providers and falls back to
// the keyword heuristics when none responds. Callers never see a hard
// failure from scoring or reply generation.
package llm

import (
	"context"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

type Provider = contract.Provider
type ProviderConfig = contract.ProviderConfig
type LeadScore = contract.LeadScore
type HealthCheckResult = contract.HealthCheckResult
type UsageStats = contract.UsageStats
type UsageRecord = contract.UsageRecord

// ReplySender delivers an outbound reply over a messaging channel. The
// WhatsApp manager implements it; the worker depends on this interface
// so the two packages stay decoupled.
type ReplySender interface {
	SendMessage(ctx context.Context, phone, text string) error
}

// usageReporter is implemented by providers that track the token usage
// of their most recent call.
type usageReporter interface {
	LastUsageRecord() contract.UsageRecord
}
