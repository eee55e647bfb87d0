package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
)

// Provider defines the interface for image analyzer providers.
type Provider interface {
	// Analyze sends image bytes plus the analysis prompt to the provider
	// and returns its raw textual answer.
	Analyze(ctx context.Context, req *types.Request) (*types.Response, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// Validate validates the provider configuration
	Validate() error
}

// BaseProvider provides common functionality for all analyzer providers.
type BaseProvider struct {
	config     *types.Config
	httpClient *http.Client
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(config *types.Config) *BaseProvider {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &BaseProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.Config {
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

// Models returns the configured model fallback list, or the package
// default when none is configured.
func (b *BaseProvider) Models(fallback []string) []string {
	if len(b.config.Models) > 0 {
		return b.config.Models
	}
	return fallback
}

// Prompt resolves the prompt for a request.
func (b *BaseProvider) Prompt(req *types.Request) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	return types.DefaultPrompt
}
