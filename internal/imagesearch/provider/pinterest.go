package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
)

const pinterestUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// thumbnailUpscaler rewrites Pinterest CDN thumbnail sizes to the 564px
// rendition for the full-image link.
var thumbnailUpscaler = strings.NewReplacer("236x", "564x", "474x", "564x")

// PinterestProvider scrapes the Pinterest search results page. No API
// credentials needed; the markup may change without notice, so an empty
// result is a normal outcome here, not a failure.
type PinterestProvider struct {
	*BaseProvider
}

// NewPinterestProvider creates a new Pinterest scraping provider.
func NewPinterestProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &PinterestProvider{BaseProvider: base}, nil
}

// Search fetches the pin search page and extracts pinimg.com images.
func (p *PinterestProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	limit := req.ClampedLimit()

	searchURL := fmt.Sprintf("%s/search/pins/?q=%s",
		strings.TrimSuffix(p.GetConfig().APIHost, "/"), url.QueryEscape(req.Query))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", pinterestUserAgent)

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to fetch search page",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider:   p.GetID(),
			StatusCode: resp.StatusCode,
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    "search page returned non-OK status",
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	var images []types.Image
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || !strings.Contains(src, "pinimg.com") {
			return true
		}

		images = append(images, types.Image{
			URL:          thumbnailUpscaler.Replace(src),
			ThumbnailURL: src,
			Alt:          sel.AttrOr("alt", ""),
			// The pin page URL is not recoverable from the image tag.
			PinterestURL: "",
		})
		return len(images) < limit*2 // headroom for dedupe
	})

	return &types.SearchResponse{
		Query:    req.Query,
		Images:   Normalize(images, req.Query, limit),
		Took:     time.Since(startTime).Milliseconds(),
		Provider: p.GetID(),
	}, nil
}
