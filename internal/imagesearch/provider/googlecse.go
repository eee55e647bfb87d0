package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
)

// GoogleImagesProvider implements the Google Custom Search JSON API in
// image mode.
type GoogleImagesProvider struct {
	*BaseProvider
}

// NewGoogleImagesProvider creates a new Google Custom Search provider.
func NewGoogleImagesProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &GoogleImagesProvider{BaseProvider: base}, nil
}

// googleImageResponse represents the Custom Search API image response.
type googleImageResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"` // source page (pin page etc.)
		Snippet string `json:"snippet"`
		Image   struct {
			ContextLink   string `json:"contextLink"`
			ThumbnailLink string `json:"thumbnailLink"`
			Height        int    `json:"height"`
			Width         int    `json:"width"`
		} `json:"image"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Search executes an image search against the Custom Search API.
func (p *GoogleImagesProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	limit := req.ClampedLimit()

	params := url.Values{}
	params.Set("key", p.GetConfig().APIKey)
	params.Set("cx", p.GetConfig().EngineID)
	params.Set("q", req.Query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(limit))
	if p.GetConfig().SafeSearch {
		params.Set("safe", "active")
	}

	apiURL := fmt.Sprintf("%s/customsearch/v1?%s", p.GetConfig().APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var googleResp googleImageResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, p.statusError(resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The API reports errors both via HTTP status and an embedded error
	// object; the embedded one carries the better message.
	if googleResp.Error != nil {
		return nil, p.statusError(googleResp.Error.Code, googleResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp.StatusCode, string(body))
	}

	images := make([]types.Image, 0, len(googleResp.Items))
	for _, item := range googleResp.Items {
		pageURL := item.Image.ContextLink
		if pageURL == "" {
			pageURL = item.Link
		}

		alt := item.Title
		if alt == "" {
			alt = item.Snippet
		}

		images = append(images, types.Image{
			URL:          pageURL,
			ThumbnailURL: item.Image.ThumbnailLink,
			Alt:          alt,
			PinterestURL: item.Link,
		})
	}

	return &types.SearchResponse{
		Query:    req.Query,
		Images:   Normalize(images, req.Query, limit),
		Took:     time.Since(startTime).Milliseconds(),
		Provider: p.GetID(),
	}, nil
}

func (p *GoogleImagesProvider) statusError(code int, message string) error {
	provErr := &types.ProviderError{
		Provider:   p.GetID(),
		StatusCode: code,
		Code:       fmt.Sprintf("HTTP_%d", code),
		Message:    message,
	}

	switch code {
	case 401, 403:
		provErr.Err = types.ErrProviderUnauthorized
	case 429:
		provErr.Err = types.ErrProviderRateLimited
	case 504:
		provErr.Err = types.ErrProviderTimeout
	}
	return provErr
}
