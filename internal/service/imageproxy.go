package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/proxy"
)

// ProxyService relays external image bytes through the backend so the
// browser sees a same-origin response.
type ProxyService struct {
	forwarder *proxy.Forwarder
	logger    *logger.Logger
}

// NewProxyService creates the image proxy service.
func NewProxyService(forwarder *proxy.Forwarder, log *logger.Logger) *ProxyService {
	return &ProxyService{
		forwarder: forwarder,
		logger:    log,
	}
}

// RegisterRoutes registers the proxy endpoint.
func (s *ProxyService) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/image-proxy", s.Proxy)
}

// Proxy fetches the image named by the url query parameter and streams it
// back with permissive CORS headers and a long-lived cache directive.
func (s *ProxyService) Proxy(c *gin.Context) {
	rawURL := c.Query("url")

	fetched, err := s.forwarder.Fetch(c.Request.Context(), rawURL)
	if err != nil {
		switch {
		case errors.Is(err, proxy.ErrMissingURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "image URL is required"})
		case errors.Is(err, proxy.ErrInvalidURL), errors.Is(err, proxy.ErrHostNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "image URL is not allowed"})
		default:
			s.logger.Error("image proxy fetch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch image"})
		}
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", s.forwarder.CacheMaxAge()))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Data(http.StatusOK, fetched.ContentType, fetched.Body)
}
