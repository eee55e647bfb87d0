package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
)

// Provider defines the interface for image search providers.
type Provider interface {
	// Search executes an image search query
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// GetName returns the provider name
	GetName() string

	// Validate validates the provider configuration
	Validate() error
}

// BaseProvider provides common functionality for all providers.
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(config *types.ProviderConfig) *BaseProvider {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpClient,
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// GetHTTPClient returns the HTTP client
func (b *BaseProvider) GetHTTPClient() *http.Client {
	return b.httpClient
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}
