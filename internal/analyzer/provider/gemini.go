package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
)

const defaultGeminiHost = "https://generativelanguage.googleapis.com"

// GeminiProvider calls the Generative Language REST API directly.
type GeminiProvider struct {
	*BaseProvider
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(config *types.Config) (Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultGeminiHost
	}
	return &GeminiProvider{BaseProvider: NewBaseProvider(config)}, nil
}

type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig *geminiGenerationConf `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConf struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Analyze sends the image through the configured model candidates, newest
// first. Only model-not-found failures advance to the next candidate;
// anything else surfaces immediately.
func (p *GeminiProvider) Analyze(ctx context.Context, req *types.Request) (*types.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for _, model := range p.Models(types.DefaultGeminiModels) {
		resp, err := p.generateContent(ctx, model, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		var provErr *types.ProviderError
		if errors.As(err, &provErr) && provErr.NotFound() {
			continue
		}
		return nil, err
	}

	if lastErr == nil {
		lastErr = types.NewProviderError(p.GetID(), "no model candidates configured", nil)
	}
	return nil, lastErr
}

func (p *GeminiProvider) generateContent(ctx context.Context, model string, req *types.Request) (*types.Response, error) {
	startTime := time.Now()

	geminiReq := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: p.Prompt(req)},
				{InlineData: &geminiInlineData{
					MIMEType: req.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(req.ImageData),
				}},
			},
		}},
	}
	if max := p.GetConfig().MaxOutputTokens; max > 0 {
		geminiReq.GenerationConfig = &geminiGenerationConf{MaxOutputTokens: max}
	}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, types.NewProviderError(p.GetID(), "marshal request failed", err)
	}

	apiURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimSuffix(p.GetConfig().BaseURL, "/"), model)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, types.NewProviderError(p.GetID(), "create request failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.GetConfig().APIKey)

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Model:    model,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewProviderError(p.GetID(), "read response failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider:   p.GetID(),
			Model:      model,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, types.NewProviderError(p.GetID(), "unmarshal response failed", err)
	}

	if geminiResp.Error != nil {
		return nil, &types.ProviderError{
			Provider:   p.GetID(),
			Model:      model,
			StatusCode: geminiResp.Error.Code,
			Message:    geminiResp.Error.Message,
		}
	}

	var text strings.Builder
	for _, cand := range geminiResp.Candidates {
		for _, part := range cand.Content.Parts {
			text.WriteString(part.Text)
		}
		break // only the first candidate matters
	}

	if text.Len() == 0 {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Model:    model,
			Message:  "empty completion",
			Err:      types.ErrEmptyResult,
		}
	}

	return &types.Response{
		Text:     text.String(),
		Model:    model,
		Took:     time.Since(startTime).Milliseconds(),
		Provider: p.GetID(),
	}, nil
}
