package types

type ProviderID string

const (
	ProviderGoogleImages ProviderID = "google-images"
	ProviderPinterest    ProviderID = "pinterest"
)

// ProviderConfig represents image search provider configuration.
type ProviderConfig struct {
	ID   ProviderID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EngineID is the Custom Search engine identifier (Google only).
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// Optional settings
	Timeout    int  `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
	SafeSearch bool `json:"safe_search,omitempty" yaml:"safe_search,omitempty"`
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}

	switch c.ID {
	case ProviderPinterest:
		// The scraper needs no credentials.
	case ProviderGoogleImages:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
		if c.EngineID == "" {
			return ErrMissingEngineID
		}
	default:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	}

	return nil
}

// Configured reports whether the provider could make an external call at
// all, so handlers can fail with a distinct "not configured" error first.
func (c *ProviderConfig) Configured() bool {
	if c == nil {
		return false
	}
	if c.ID == ProviderPinterest {
		return true
	}
	return c.APIKey != "" && (c.ID != ProviderGoogleImages || c.EngineID != "")
}
