package provider

import (
	"fmt"
	"sync"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
)

// Factory creates analyzer provider instances.
type Factory struct {
	mu           sync.RWMutex
	constructors map[types.ProviderID]func(*types.Config) (Provider, error)
}

// NewFactory creates a new provider factory with the built-in providers
// registered.
func NewFactory() *Factory {
	f := &Factory{
		constructors: make(map[types.ProviderID]func(*types.Config) (Provider, error)),
	}

	f.Register(types.ProviderGemini, NewGeminiProvider)
	f.Register(types.ProviderOpenAI, NewOpenAIProvider)

	return f
}

// Register registers a provider constructor.
func (f *Factory) Register(id types.ProviderID, constructor func(*types.Config) (Provider, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[id] = constructor
}

// Create creates a provider instance from configuration.
func (f *Factory) Create(config *types.Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f.mu.RLock()
	constructor, exists := f.constructors[config.ID]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown analyzer provider: %s", config.ID)
	}

	return constructor(config)
}

// ListProviders returns all registered provider IDs.
func (f *Factory) ListProviders() []types.ProviderID {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]types.ProviderID, 0, len(f.constructors))
	for id := range f.constructors {
		ids = append(ids, id)
	}
	return ids
}
