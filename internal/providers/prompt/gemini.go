package prompt

import (
	"context"
	"errors"

	"videostudio/internal/providers/genai"
)

type GeminiOptions struct {
	Client     *genai.Client
	Model      string
	Fallback   Enhancer
	OnFallback func(reason string, err error)
}

type GeminiEnhancer struct {
	client     *genai.Client
	model      string
	fallback   Enhancer
	onFallback func(reason string, err error)
}

const defaultGeminiModel = "gemini-2.0-flash"

func NewGeminiEnhancer(opts GeminiOptions) (*GeminiEnhancer, error) {
	if opts.Client == nil {
		return nil, errors.New("gemini client is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiEnhancer{client: opts.Client, model: model, fallback: opts.Fallback, onFallback: opts.OnFallback}, nil
}

func (g *GeminiEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if !g.client.Configured() {
		return fallbackChain(ctx, g.fallback, g.onFallback, req, "missing_api_key", nil)
	}
	text, err := g.client.GenerateText(ctx, g.model, buildInstruction(req), genai.TextOptions{Temperature: 0.7})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return fallbackChain(ctx, g.fallback, g.onFallback, req, "http_status", err)
		}
		return fallbackChain(ctx, g.fallback, g.onFallback, req, "http_request", err)
	}
	return responseFromText(text, req, geminiProviderName), nil
}

var _ Enhancer = (*GeminiEnhancer)(nil)
