package provider

import (
	"testing"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_ListProviders(t *testing.T) {
	f := NewFactory()
	assert.ElementsMatch(t, []types.ProviderID{types.ProviderGemini, types.ProviderOpenAI}, f.ListProviders())
}

func TestFactory_Create(t *testing.T) {
	tests := []struct {
		name    string
		config  *types.Config
		want    interface{}
		wantErr bool
	}{
		{
			name:   "gemini",
			config: &types.Config{ID: types.ProviderGemini, APIKey: "key"},
			want:   &GeminiProvider{},
		},
		{
			name:   "openai",
			config: &types.Config{ID: types.ProviderOpenAI, APIKey: "key"},
			want:   &OpenAIProvider{},
		},
		{
			name:    "unknown provider",
			config:  &types.Config{ID: "claude", APIKey: "key"},
			wantErr: true,
		},
		{
			name:    "missing API key",
			config:  &types.Config{ID: types.ProviderGemini},
			wantErr: true,
		},
		{
			name:    "missing ID",
			config:  &types.Config{APIKey: "key"},
			wantErr: true,
		},
	}

	f := NewFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.Create(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.Equal(t, tt.config.ID, p.GetID())
		})
	}
}

func TestFactory_Register(t *testing.T) {
	f := NewFactory()
	f.Register("custom", func(config *types.Config) (Provider, error) {
		return NewGeminiProvider(config)
	})

	p, err := f.Create(&types.Config{ID: "custom", APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
