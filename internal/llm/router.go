package llm

import (
	"context"
	"sync"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

const configCacheTTL = 5 * time.Minute

// Router resolves which provider handles a request. Configs are cached
// briefly so every scoring call does not hit the database.
type Router struct {
	Store   *Store
	Factory *Factory

	mu       sync.Mutex
	cached   []*contract.ProviderConfig
	cachedAt time.Time
}

func NewRouter(store *Store, factory *Factory) *Router {
	return &Router{Store: store, Factory: factory}
}

func (r *Router) configs(ctx context.Context) ([]*contract.ProviderConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.cachedAt) < configCacheTTL {
		return r.cached, nil
	}
	configs, err := r.Store.ListProviderConfigs(ctx)
	if err != nil {
		return nil, err
	}
	r.cached = configs
	r.cachedAt = time.Now()
	return configs, nil
}

// Invalidate clears the config cache after provider rows change.
func (r *Router) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// Providers returns the active provider clients in preference order.
func (r *Router) Providers(ctx context.Context) ([]contract.Provider, error) {
	configs, err := r.configs(ctx)
	if err != nil {
		return nil, err
	}
	providers := make([]contract.Provider, 0, len(configs))
	for _, config := range configs {
		provider, err := r.Factory.Get(config)
		if err != nil {
			continue
		}
		providers = append(providers, provider)
	}
	return providers, nil
}

// DefaultProvider returns the preferred provider or ErrNoProvider.
func (r *Router) DefaultProvider(ctx context.Context) (contract.Provider, error) {
	providers, err := r.Providers(ctx)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, ErrNoProvider
	}
	return providers[0], nil
}

func (r *Router) Provider(ctx context.Context, providerID int64) (contract.Provider, error) {
	config, err := r.Store.GetProviderConfig(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return r.Factory.Get(config)
}
