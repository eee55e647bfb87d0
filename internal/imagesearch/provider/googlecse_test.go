package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoogleProvider(t *testing.T, handler http.HandlerFunc) (Provider, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGoogleImagesProvider(&types.ProviderConfig{
		ID:         types.ProviderGoogleImages,
		Name:       "Google Images",
		APIHost:    server.URL,
		APIKey:     "test-key",
		EngineID:   "test-cx",
		SafeSearch: true,
	})
	require.NoError(t, err)
	return p, server
}

func TestGoogleImagesProvider_Search(t *testing.T) {
	p, _ := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, "image", q.Get("searchType"))
		assert.Equal(t, "active", q.Get("safe"))
		assert.Equal(t, "3", q.Get("num"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"title": "Pin one",
					"link": "https://www.pinterest.com/pin/1/",
					"image": {
						"contextLink": "https://www.pinterest.com/pin/1/",
						"thumbnailLink": "https://encrypted.example/thumb1.jpg"
					}
				},
				{
					"snippet": "Second snippet",
					"link": "https://www.pinterest.com/pin/2/",
					"image": {
						"thumbnailLink": "https://encrypted.example/thumb2.jpg"
					}
				}
			]
		}`))
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "モダン インテリア", Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, types.ProviderGoogleImages, resp.Provider)
	require.Len(t, resp.Images, 2)

	assert.Equal(t, "https://www.pinterest.com/pin/1/", resp.Images[0].URL)
	assert.Equal(t, "https://encrypted.example/thumb1.jpg", resp.Images[0].ThumbnailURL)
	assert.Equal(t, "Pin one", resp.Images[0].Alt)
	assert.Equal(t, "https://www.pinterest.com/pin/1/", resp.Images[0].PinterestURL)

	// contextLink missing: fall back to link; title missing: snippet.
	assert.Equal(t, "https://www.pinterest.com/pin/2/", resp.Images[1].URL)
	assert.Equal(t, "Second snippet", resp.Images[1].Alt)
}

func TestGoogleImagesProvider_EmptyResults(t *testing.T) {
	p, _ := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"searchInformation": {"totalResults": "0"}}`))
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Images)
	assert.Empty(t, resp.Images, "zero results is a success, not an error")
}

func TestGoogleImagesProvider_EmbeddedAPIError(t *testing.T) {
	// The API can return 200 OK with an embedded error object; the
	// embedded code still drives classification.
	p, _ := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 429, provErr.StatusCode)
	assert.Equal(t, "Quota exceeded", provErr.Message)
	assert.ErrorIs(t, err, types.ErrProviderRateLimited)
}

func TestGoogleImagesProvider_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantErr error
	}{
		{"unauthorized", 403, types.ErrProviderUnauthorized},
		{"rate limited", 429, types.ErrProviderRateLimited},
		{"gateway timeout", 504, types.ErrProviderTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.code)
				w.Write([]byte(`{"error": {"code": ` + strconv.Itoa(tt.code) + `, "message": "nope"}}`))
			})

			_, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
			require.Error(t, err)

			var provErr *types.ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, tt.code, provErr.StatusCode)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGoogleImagesProvider_EmptyQuery(t *testing.T) {
	p, _ := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an empty query")
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{})
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestGoogleImagesProvider_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	p, err := NewGoogleImagesProvider(&types.ProviderConfig{
		ID:       types.ProviderGoogleImages,
		Name:     "Google Images",
		APIHost:  server.URL,
		APIKey:   "test-key",
		EngineID: "test-cx",
	})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.Error(t, err)

	var provErr *types.ProviderError
	assert.True(t, errors.As(err, &provErr))
	assert.Equal(t, "REQUEST_FAILED", provErr.Code)
}
