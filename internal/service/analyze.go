package service

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analysis"
	anprovider "github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/provider"
	antypes "github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
)

// MaxImageSize caps uploads at 10MB.
const MaxImageSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// analyzeErrorMessages maps provider failure classes to the one fixed
// user-readable message each; raw upstream errors never reach the caller
// outside debug mode.
var analyzeErrorMessages = map[antypes.ErrorClass]string{
	antypes.ClassAuth:        "analyzer API key was rejected",
	antypes.ClassQuota:       "analyzer quota exceeded, try again later",
	antypes.ClassNotFound:    "no usable analyzer model is available",
	antypes.ClassTimeout:     "analysis timed out, try again",
	antypes.ClassUnreachable: "analyzer service is unreachable",
	antypes.ClassUnknown:     "analysis failed, try again",
}

// AnalyzeService handles image analysis requests.
type AnalyzeService struct {
	provider anprovider.Provider // nil when no analyzer credentials exist
	logger   *logger.Logger
	debug    bool
}

// NewAnalyzeService creates the analyze service. provider may be nil; the
// handler then reports a configuration error without calling anything.
func NewAnalyzeService(provider anprovider.Provider, log *logger.Logger, debug bool) *AnalyzeService {
	return &AnalyzeService{
		provider: provider,
		logger:   log,
		debug:    debug,
	}
}

// RegisterRoutes registers the analyze endpoint.
func (s *AnalyzeService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyze", s.Analyze)
}

// Analyze accepts a multipart form with field "image", forwards the bytes
// to the analyzer, and returns the parsed aesthetic description.
func (s *AnalyzeService) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required (form field 'image')"})
		return
	}

	if file.Size > MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file too large (max 10MB)"})
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type (jpeg, png, gif, webp only)"})
		return
	}

	// Fail on a missing deployment before reading anything.
	if s.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analyzer API key is not configured"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	if len(data) > MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file too large (max 10MB)"})
		return
	}

	// The declared type can lie; sniff the actual bytes too.
	if sniffed := http.DetectContentType(data); !allowedImageTypes[sniffed] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type (jpeg, png, gif, webp only)"})
		return
	}

	resp, err := s.provider.Analyze(c.Request.Context(), &antypes.Request{
		ImageData: data,
		MIMEType:  mimeType,
	})
	if err != nil {
		s.logger.Error("image analysis failed", zap.Error(err))
		s.providerFailure(c, err)
		return
	}

	result, outcome := analysis.Parse(resp.Text)
	if outcome != analysis.OutcomeStructured {
		s.logger.Warn("analyzer output degraded to heuristic parse",
			zap.String("model", resp.Model),
			zap.String("outcome", string(outcome)),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (s *AnalyzeService) providerFailure(c *gin.Context, err error) {
	class := antypes.ClassUnknown
	var provErr *antypes.ProviderError
	if errors.As(err, &provErr) {
		class = provErr.Class()
	}

	body := gin.H{"error": analyzeErrorMessages[class]}
	if s.debug {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
