// Package proxy fetches external image bytes server-side so the browser
// sees a same-origin response, sidestepping cross-origin and hot-linking
// restrictions on the image hosts.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
)

var (
	ErrMissingURL     = errors.New("missing image URL")
	ErrInvalidURL     = errors.New("invalid image URL")
	ErrHostNotAllowed = errors.New("image host not allowed")
	ErrUpstreamFailed = errors.New("failed to fetch image")
	ErrBodyTooLarge   = errors.New("image body too large")
)

// Config controls the forwarder.
type Config struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
	// AllowedHosts restricts upstream hosts by suffix match. Empty list
	// allows any host.
	AllowedHosts []string `mapstructure:"allowed_hosts"`
	// CacheMaxAge is the Cache-Control max-age (seconds) advertised to
	// the browser and the TTL of the optional byte cache.
	CacheMaxAge int `mapstructure:"cache_max_age"`
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Timeout == 0 {
		out.Timeout = 15 * time.Second
	}
	if out.MaxBodySize == 0 {
		out.MaxBodySize = 20 << 20
	}
	if out.CacheMaxAge == 0 {
		out.CacheMaxAge = 86400
	}
	return &out
}

// Cache is the optional byte cache in front of upstream fetches.
type Cache interface {
	Get(ctx context.Context, key string) (*Fetched, bool)
	Set(ctx context.Context, key string, f *Fetched, ttl time.Duration)
}

// Fetched is a fully-buffered upstream image. The body is read to the end
// before anything is returned, so a failure can never surface as a
// partial 200.
type Fetched struct {
	ContentType string
	Body        []byte
}

// Forwarder fetches external images.
type Forwarder struct {
	config *Config
	client *http.Client
	cache  Cache
	logger *logger.Logger
}

// New creates a forwarder. cache may be nil to disable caching.
func New(cfg *Config, cache Cache, log *logger.Logger) *Forwarder {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.L()
	}

	return &Forwarder{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
		logger: log,
	}
}

// CacheMaxAge returns the configured browser cache lifetime in seconds.
func (f *Forwarder) CacheMaxAge() int {
	return f.config.CacheMaxAge
}

// Fetch retrieves the image at rawURL.
func (f *Forwarder) Fetch(ctx context.Context, rawURL string) (*Fetched, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if !f.hostAllowed(u.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	if f.cache != nil {
		if cached, ok := f.cache.Get(ctx, rawURL); ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}

	// Image CDNs reject anonymous hot-link fetches; look like a browser.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstreamFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, ErrBodyTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	fetched := &Fetched{ContentType: contentType, Body: body}

	if f.cache != nil {
		f.cache.Set(ctx, rawURL, fetched, time.Duration(f.config.CacheMaxAge)*time.Second)
	}

	f.logger.Debug("image fetched",
		zap.String("host", u.Hostname()),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(body)),
	)

	return fetched, nil
}

func (f *Forwarder) hostAllowed(host string) bool {
	if len(f.config.AllowedHosts) == 0 {
		return true
	}
	for _, allowed := range f.config.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
