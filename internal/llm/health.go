package llm

import (
	"context"
	"log"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

const unhealthyThreshold = 3

// HealthMonitor probes every active provider on an interval and records
// the results. A provider is marked unhealthy after three consecutive
// failed checks; one flaky probe does not flip its status.
type HealthMonitor struct {
	Router   *Router
	Store    *Store
	Interval time.Duration
}

func NewHealthMonitor(router *Router, store *Store, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &HealthMonitor{Router: router, Store: store, Interval: interval}
}

func (m *HealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	m.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *HealthMonitor) runOnce(ctx context.Context) {
	configs, err := m.Store.ListProviderConfigs(ctx)
	if err != nil {
		log.Printf("health: listing providers failed: %v", err)
		return
	}

	for _, config := range configs {
		provider, err := m.Router.Factory.Get(config)
		if err != nil {
			log.Printf("health: provider %d build failed: %v", config.ID, err)
			continue
		}
		m.check(ctx, config.ID, provider)
	}
}

func (m *HealthMonitor) check(ctx context.Context, providerID int64, provider contract.Provider) {
	checkCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	result, err := provider.HealthCheck(checkCtx)
	if result == nil {
		result = &contract.HealthCheckResult{
			Status:    "error",
			Timestamp: time.Now().UTC(),
		}
		if err != nil {
			result.ErrorMessage = err.Error()
		}
	}
	if err := m.Store.InsertHealth(ctx, providerID, *result); err != nil {
		log.Printf("health: recording check for provider %d failed: %v", providerID, err)
		return
	}

	status := "healthy"
	if result.Status != "ok" {
		failures, err := m.Store.RecentFailures(ctx, providerID, unhealthyThreshold)
		if err != nil {
			log.Printf("health: failure count for provider %d failed: %v", providerID, err)
			return
		}
		if failures >= unhealthyThreshold {
			status = "unhealthy"
		} else {
			status = "degraded"
		}
	}
	if err := m.Store.SetProviderHealth(ctx, providerID, status, result.Timestamp); err != nil {
		log.Printf("health: updating provider %d failed: %v", providerID, err)
	}
}
