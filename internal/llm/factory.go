package llm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/providers"
)

// Factory builds provider clients from stored configs. Instances are
// cached per provider row so HTTP clients and connections are reused
// across requests.
type Factory struct {
	mu        sync.Mutex
	instances map[int64]contract.Provider
}

func NewFactory() *Factory {
	return &Factory{instances: make(map[int64]contract.Provider)}
}

func (f *Factory) Get(config *contract.ProviderConfig) (contract.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if provider, ok := f.instances[config.ID]; ok {
		return provider, nil
	}
	provider, err := newProvider(config)
	if err != nil {
		return nil, err
	}
	f.instances[config.ID] = provider
	return provider, nil
}

// Invalidate drops a cached instance, forcing a rebuild on next use.
// Called when a provider row is updated.
func (f *Factory) Invalidate(providerID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.instances, providerID)
}

func newProvider(config *contract.ProviderConfig) (contract.Provider, error) {
	switch strings.ToLower(config.ProviderName) {
	case "openai":
		return providers.NewOpenAIProvider(config), nil
	case "claude", "anthropic":
		return providers.NewClaudeProvider(config), nil
	case "cohere":
		return providers.NewCohereProvider(config), nil
	case "gemini", "google":
		return providers.NewGeminiProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", config.ProviderName)
	}
}
