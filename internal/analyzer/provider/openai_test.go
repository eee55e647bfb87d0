package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAIProvider(t *testing.T, models []string, handler http.HandlerFunc) Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(&types.Config{
		ID:      types.ProviderOpenAI,
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Models:  models,
	})
	require.NoError(t, err)
	return p
}

func openAITextResponse(text string) string {
	content, _ := json.Marshal(text)
	return `{"choices": [{"message": {"role": "assistant", "content": ` + string(content) + `}}]}`
}

func TestOpenAIProvider_Analyze(t *testing.T) {
	p := newOpenAIProvider(t, []string{"gpt-4o-mini"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type     string `json:"type"`
					Text     string `json:"text"`
					ImageURL *struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 1)
		require.Len(t, body.Messages[0].Content, 2)
		assert.NotEmpty(t, body.Messages[0].Content[0].Text)
		require.NotNil(t, body.Messages[0].Content[1].ImageURL)
		assert.True(t, strings.HasPrefix(body.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openAITextResponse("analysis text")))
	})

	resp, err := p.Analyze(context.Background(), &types.Request{ImageData: testImage, MIMEType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "analysis text", resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, types.ProviderOpenAI, resp.Provider)
}

func TestOpenAIProvider_ModelFallbackOn404(t *testing.T) {
	var tried []string
	p := newOpenAIProvider(t, []string{"gpt-retired", "gpt-4o"}, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		tried = append(tried, body.Model)

		if body.Model != "gpt-4o" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": {"message": "The model does not exist", "type": "invalid_request_error", "code": "model_not_found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openAITextResponse("ok")))
	})

	resp, err := p.Analyze(context.Background(), &types.Request{ImageData: testImage, MIMEType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, []string{"gpt-retired", "gpt-4o"}, tried)
}

func TestOpenAIProvider_NoFallbackOnAuthError(t *testing.T) {
	var calls int
	p := newOpenAIProvider(t, []string{"gpt-4o-mini", "gpt-4o"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`))
	})

	_, err := p.Analyze(context.Background(), &types.Request{ImageData: testImage, MIMEType: "image/jpeg"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, types.ClassAuth, provErr.Class())
}

func TestOpenAIProvider_EmptyCompletion(t *testing.T) {
	p := newOpenAIProvider(t, []string{"gpt-4o-mini"}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	})

	_, err := p.Analyze(context.Background(), &types.Request{ImageData: testImage, MIMEType: "image/jpeg"})
	assert.ErrorIs(t, err, types.ErrEmptyResult)
}
