package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analysis"
	isprovider "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/provider"
	istypes "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
)

type stubSearcher struct {
	id     istypes.ProviderID
	images []istypes.Image
	err    error

	gotReq *istypes.SearchRequest
}

func (s *stubSearcher) Search(_ context.Context, req *istypes.SearchRequest) (*istypes.SearchResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &istypes.SearchResponse{
		Query:    req.Query,
		Images:   s.images,
		Provider: s.id,
	}, nil
}

func (s *stubSearcher) GetID() istypes.ProviderID { return s.id }
func (s *stubSearcher) GetName() string           { return string(s.id) }
func (s *stubSearcher) Validate() error           { return nil }

func searchRouter(t *testing.T, stub *stubSearcher, opts SearchOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)

	configs := map[istypes.ProviderID]*istypes.ProviderConfig{
		istypes.ProviderGoogleImages: {
			ID:       istypes.ProviderGoogleImages,
			APIHost:  "https://www.googleapis.com",
			APIKey:   "key",
			EngineID: "cx",
		},
		istypes.ProviderPinterest: {
			ID:      istypes.ProviderPinterest,
			APIHost: "https://www.pinterest.com",
		},
	}

	providers := map[istypes.ProviderID]isprovider.Provider{}
	if stub != nil {
		providers[stub.id] = stub
	}

	router := gin.New()
	NewSearchService(providers, configs, opts, log, false).RegisterRoutes(router.Group("/api"))
	return router
}

func searchBody(t *testing.T, res *analysis.Result, axis string) *bytes.Buffer {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"analysisResult": res,
		"axis":           axis,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(payload)
}

func doSearch(t *testing.T, router *gin.Engine, provider string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/search/"+provider, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Colors:       []analysis.Color{{Name: "ベージュ", Hex: "#D8CAB8"}},
		Texture:      "木目",
		Style:        "北欧",
		Tone:         "明るい",
		MoodKeywords: []string{"穏やか", "温かみ"},
		Layout:       "余白を活かした配置",
	}
}

func TestSearch_Success(t *testing.T) {
	stub := &stubSearcher{
		id: istypes.ProviderGoogleImages,
		images: []istypes.Image{
			{URL: "https://pin.example/1", ThumbnailURL: "https://t.example/1", Alt: "a"},
		},
	}
	router := searchRouter(t, stub, SearchOptions{SitePrefix: "pinterest.com", Limit: 5})

	w := doSearch(t, router, "google-images", searchBody(t, sampleResult(), "color"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool            `json:"success"`
		Query   string          `json:"query"`
		Images  []istypes.Image `json:"images"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Query, "site:pinterest.com")
	assert.Contains(t, resp.Query, "ベージュ")
	require.Len(t, resp.Images, 1)

	require.NotNil(t, stub.gotReq)
	assert.Equal(t, 5, stub.gotReq.Limit)
	assert.Equal(t, resp.Query, stub.gotReq.Query)
}

func TestSearch_EmptyResultIsSuccess(t *testing.T) {
	stub := &stubSearcher{id: istypes.ProviderPinterest, images: []istypes.Image{}}
	router := searchRouter(t, stub, SearchOptions{})

	w := doSearch(t, router, "pinterest", searchBody(t, sampleResult(), "tone"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"images":[]`)
}

func TestSearch_BadRequests(t *testing.T) {
	stub := &stubSearcher{id: istypes.ProviderGoogleImages}
	router := searchRouter(t, stub, SearchOptions{})

	tests := []struct {
		name string
		body *bytes.Buffer
		want string
	}{
		{"malformed JSON", bytes.NewBufferString("{not json"), "invalid request body"},
		{"missing analysis result", bytes.NewBufferString(`{"axis": "color"}`), "analysis result and search axis are required"},
		{"missing axis", searchBody(t, sampleResult(), ""), "analysis result and search axis are required"},
		{"unknown axis", searchBody(t, sampleResult(), "smell"), "invalid search axis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doSearch(t, router, "google-images", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
	assert.Nil(t, stub.gotReq, "invalid requests must not reach the provider")
}

func TestSearch_UnknownProvider(t *testing.T) {
	router := searchRouter(t, &stubSearcher{id: istypes.ProviderGoogleImages}, SearchOptions{})

	w := doSearch(t, router, "bing", searchBody(t, sampleResult(), "color"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown search provider")
}

func TestSearch_NotConfigured(t *testing.T) {
	// Known provider, but no usable instance was built for it.
	router := searchRouter(t, nil, SearchOptions{})

	w := doSearch(t, router, "google-images", searchBody(t, sampleResult(), "color"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "credentials are not configured")
}

func TestSearch_ProviderFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unauthorized",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, StatusCode: 403},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "authentication failed",
		},
		{
			name:       "rate limited",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, StatusCode: 429},
			wantStatus: http.StatusTooManyRequests,
			wantBody:   "rate limit",
		},
		{
			name:       "gateway timeout",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, StatusCode: 504},
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   "timed out",
		},
		{
			name:       "deadline exceeded",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, Err: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   "timed out",
		},
		{
			name:       "dns failure",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, Err: &net.DNSError{Name: "example.com", IsNotFound: true}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unreachable",
		},
		{
			name:       "anything else",
			err:        &istypes.ProviderError{Provider: istypes.ProviderGoogleImages, Message: "scrape failed"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "try another search axis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSearcher{id: istypes.ProviderGoogleImages, err: tt.err}
			router := searchRouter(t, stub, SearchOptions{})

			w := doSearch(t, router, "google-images", searchBody(t, sampleResult(), "texture"))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSearch_AxisChangesQuery(t *testing.T) {
	queries := map[string]string{}
	for _, axis := range []string{"color", "texture", "tone", "layout"} {
		stub := &stubSearcher{id: istypes.ProviderGoogleImages}
		router := searchRouter(t, stub, SearchOptions{})

		w := doSearch(t, router, "google-images", searchBody(t, sampleResult(), axis))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, stub.gotReq)
		queries[axis] = stub.gotReq.Query
	}

	assert.Contains(t, queries["color"], "ベージュ")
	assert.Contains(t, queries["texture"], "木目")
	assert.Contains(t, queries["tone"], "穏やか")
	assert.Contains(t, queries["layout"], "レイアウト")

	seen := map[string]bool{}
	for _, q := range queries {
		seen[q] = true
	}
	assert.Len(t, seen, 4, "each axis must produce a distinct query")
}
