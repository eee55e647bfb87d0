package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Search   SearchConfig   `mapstructure:"search"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServerConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"` // include error details in responses
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

type AnalyzerConfig struct {
	// Provider selects the analyzer backend: "gemini" (default) or "openai".
	Provider string `mapstructure:"provider"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	BaseURL      string `mapstructure:"base_url"`

	// Models overrides the per-provider default fallback list.
	Models []string `mapstructure:"models"`

	Timeout         time.Duration `mapstructure:"timeout"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
}

type SearchConfig struct {
	GoogleAPIKey   string `mapstructure:"google_api_key"`
	GoogleEngineID string `mapstructure:"google_engine_id"`
	GoogleAPIHost  string `mapstructure:"google_api_host"`

	PinterestHost string `mapstructure:"pinterest_host"`

	// PreferPinterest prepends site:pinterest.com to every query.
	PreferPinterest bool `mapstructure:"prefer_pinterest"`

	Timeout int `mapstructure:"timeout"` // seconds
	Limit   int `mapstructure:"limit"`
}

type ProxyConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodySize  int64         `mapstructure:"max_body_size"`
	AllowedHosts []string      `mapstructure:"allowed_hosts"`
	CacheMaxAge  int           `mapstructure:"cache_max_age"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig reads the optional config file and binds the provider
// credentials to their environment variables. A missing file is fine;
// missing credentials are detected at call time, not here, so the
// handlers can surface a distinct "not configured" error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvs(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// With an explicit path a missing file surfaces as a plain
			// not-exist error rather than ConfigFileNotFoundError.
			_, notFound := err.(viper.ConfigFileNotFoundError)
			if !notFound && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.enablecaller", true)

	v.SetDefault("analyzer.provider", "gemini")
	v.SetDefault("analyzer.timeout", 15*time.Second)

	v.SetDefault("search.google_api_host", "https://www.googleapis.com")
	v.SetDefault("search.pinterest_host", "https://www.pinterest.jp")
	v.SetDefault("search.prefer_pinterest", true)
	v.SetDefault("search.timeout", 10)
	v.SetDefault("search.limit", 5)

	v.SetDefault("proxy.timeout", 15*time.Second)
	v.SetDefault("proxy.cache_max_age", 86400)
}

func bindEnvs(v *viper.Viper) {
	v.BindEnv("analyzer.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("analyzer.openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("search.google_api_key", "GOOGLE_CUSTOM_SEARCH_API_KEY")
	v.BindEnv("search.google_engine_id", "GOOGLE_CUSTOM_SEARCH_ENGINE_ID")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
}
