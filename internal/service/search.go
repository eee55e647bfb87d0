package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analysis"
	isprovider "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/provider"
	istypes "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
)

// SearchOptions carries the query shaping configured for the deployment.
type SearchOptions struct {
	// SitePrefix biases every query toward one image host ("pinterest.com").
	SitePrefix string
	// Limit is the per-search result count before clamping.
	Limit int
}

// SearchService handles similar-image search requests.
type SearchService struct {
	providers map[istypes.ProviderID]isprovider.Provider
	configs   map[istypes.ProviderID]*istypes.ProviderConfig
	opts      SearchOptions
	logger    *logger.Logger
	debug     bool
}

// NewSearchService creates the search service. configs must contain an
// entry per known provider so an unconfigured one can still be reported
// distinctly; providers contains only the usable ones.
func NewSearchService(
	providers map[istypes.ProviderID]isprovider.Provider,
	configs map[istypes.ProviderID]*istypes.ProviderConfig,
	opts SearchOptions,
	log *logger.Logger,
	debug bool,
) *SearchService {
	return &SearchService{
		providers: providers,
		configs:   configs,
		opts:      opts,
		logger:    log,
		debug:     debug,
	}
}

// RegisterRoutes registers the search endpoint.
func (s *SearchService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/search/:provider", s.Search)
}

type searchRequest struct {
	AnalysisResult *analysis.Result `json:"analysisResult"`
	Axis           string           `json:"axis"`
}

// Search builds a query from the analysis result along the chosen axis
// and runs it against the named provider.
func (s *SearchService) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.AnalysisResult == nil || req.Axis == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysis result and search axis are required"})
		return
	}

	axis, err := analysis.ParseAxis(req.Axis)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search axis"})
		return
	}

	providerID := istypes.ProviderID(c.Param("provider"))
	cfg, known := s.configs[providerID]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown search provider"})
		return
	}

	if !cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image search API credentials are not configured"})
		return
	}

	provider, ok := s.providers[providerID]
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image search API credentials are not configured"})
		return
	}

	query := analysis.BuildQuery(req.AnalysisResult, axis, analysis.QueryOptions{
		SitePrefix: s.opts.SitePrefix,
	})

	resp, err := provider.Search(c.Request.Context(), &istypes.SearchRequest{
		Query: query,
		Limit: s.opts.Limit,
	})
	if err != nil {
		s.logger.Error("image search failed",
			zap.String("provider", string(providerID)),
			zap.String("query", query),
			zap.Error(err),
		)
		s.providerFailure(c, err)
		return
	}

	// Records without a thumbnail are kept; the grid renders a placeholder.
	missingThumbs := 0
	for _, img := range resp.Images {
		if img.ThumbnailURL == "" {
			missingThumbs++
		}
	}
	if missingThumbs > 0 {
		s.logger.Warn("search results missing thumbnails",
			zap.String("provider", string(providerID)),
			zap.Int("count", missingThumbs),
		)
	}

	s.logger.Info("image search completed",
		zap.String("provider", string(providerID)),
		zap.String("axis", string(axis)),
		zap.Int("images", len(resp.Images)),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   query,
		"images":  resp.Images,
	})
}

// providerFailure maps a search provider error to a status code and one
// fixed user-readable message.
func (s *SearchService) providerFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "search failed, try another search axis"

	var provErr *istypes.ProviderError
	switch {
	case errors.As(err, &provErr):
		switch {
		case provErr.StatusCode == 401 || provErr.StatusCode == 403:
			status = http.StatusUnauthorized
			message = "image search authentication failed, check the API key"
		case provErr.StatusCode == 429:
			status = http.StatusTooManyRequests
			message = "image search rate limit reached, try again later"
		case provErr.StatusCode == 504 || errors.Is(provErr.Err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
			message = "image search timed out, try again later"
		case isNetworkError(provErr.Err):
			status = http.StatusServiceUnavailable
			message = "image search service is unreachable"
		}
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		message = "image search timed out, try again later"
	}

	body := gin.H{"error": message}
	if s.debug {
		body["details"] = err.Error()
	}
	c.JSON(status, body)
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
