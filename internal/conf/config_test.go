package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.Debug)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, "gemini", cfg.Analyzer.Provider)
	assert.Equal(t, 15*time.Second, cfg.Analyzer.Timeout)

	assert.Equal(t, "https://www.googleapis.com", cfg.Search.GoogleAPIHost)
	assert.Equal(t, "https://www.pinterest.jp", cfg.Search.PinterestHost)
	assert.True(t, cfg.Search.PreferPinterest)
	assert.Equal(t, 5, cfg.Search.Limit)

	assert.Equal(t, 86400, cfg.Proxy.CacheMaxAge)
}

func TestLoadConfig_MissingFileTolerated(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_MalformedFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: [not a port\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  debug: true
search:
  prefer_pinterest: false
  limit: 8
proxy:
  allowed_hosts:
    - pinimg.com
    - gstatic.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.False(t, cfg.Search.PreferPinterest)
	assert.Equal(t, 8, cfg.Search.Limit)
	assert.Equal(t, []string{"pinimg.com", "gstatic.com"}, cfg.Proxy.AllowedHosts)

	// Untouched sections keep their defaults.
	assert.Equal(t, "gemini", cfg.Analyzer.Provider)
}

func TestLoadConfig_EnvCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GOOGLE_CUSTOM_SEARCH_API_KEY", "cse-key")
	t.Setenv("GOOGLE_CUSTOM_SEARCH_ENGINE_ID", "cse-cx")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "gm-key", cfg.Analyzer.GeminiAPIKey)
	assert.Equal(t, "cse-key", cfg.Search.GoogleAPIKey)
	assert.Equal(t, "cse-cx", cfg.Search.GoogleEngineID)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
