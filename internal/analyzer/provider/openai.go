package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModels is the vision-capable candidate list for the OpenAI
// provider.
var DefaultOpenAIModels = []string{
	openai.GPT4oMini,
	openai.GPT4o,
}

// OpenAIProvider is the alternate analyzer backed by the OpenAI vision
// chat completion API.
type OpenAIProvider struct {
	*BaseProvider
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config *types.Config) (Provider, error) {
	clientCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		BaseProvider: NewBaseProvider(config),
		client:       openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Analyze sends the image as a base64 data URL through the configured
// model candidates. The fallback rule matches the Gemini provider: only
// model-not-found failures advance the list.
func (p *OpenAIProvider) Analyze(ctx context.Context, req *types.Request) (*types.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		req.MIMEType, base64.StdEncoding.EncodeToString(req.ImageData))

	var lastErr error
	for _, model := range p.Models(DefaultOpenAIModels) {
		resp, err := p.complete(ctx, model, dataURL, p.Prompt(req))
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

func (p *OpenAIProvider) complete(ctx context.Context, model, dataURL, prompt string) (*types.Response, error) {
	startTime := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL: dataURL,
				}},
			},
		}},
		MaxTokens: p.GetConfig().MaxOutputTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &types.ProviderError{
				Provider:   p.GetID(),
				Model:      model,
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
				Err:        err,
			}
		}
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Model:    model,
			Message:  "request failed",
			Err:      err,
		}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Model:    model,
			Message:  "empty completion",
			Err:      types.ErrEmptyResult,
		}
	}

	return &types.Response{
		Text:     resp.Choices[0].Message.Content,
		Model:    model,
		Took:     time.Since(startTime).Milliseconds(),
		Provider: p.GetID(),
	}, nil
}
