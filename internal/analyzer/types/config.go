package types

import "time"

type ProviderID string

const (
	ProviderGemini ProviderID = "gemini"
	ProviderOpenAI ProviderID = "openai"
)

// DefaultGeminiModels is the ordered candidate list tried on model-not-found
// errors, newest first. Overridable via Config.Models.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-flash-latest",
	"gemini-pro-latest",
	"gemini-1.5-flash",
	"gemini-pro",
}

// Config represents analyzer provider configuration.
type Config struct {
	ID      ProviderID `json:"id" yaml:"id"`
	APIKey  string     `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string     `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Models is the ordered fallback list. The first model is tried first;
	// the next is attempted only when the provider reports the model as
	// not found.
	Models []string `json:"models,omitempty" yaml:"models,omitempty"`

	Timeout         time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxOutputTokens int           `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"`
}

// Validate validates the provider configuration.
func (c *Config) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Configured reports whether the provider has credentials. Used to
// distinguish a broken deployment from a provider failure before any
// external call is made.
func (c *Config) Configured() bool {
	return c != nil && c.APIKey != ""
}
