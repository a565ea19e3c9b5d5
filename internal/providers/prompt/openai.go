package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o-mini"
	openAITimeout        = 15 * time.Second
	openAIMaxErrorBody   = 4 << 10
	openAISystemPrompt   = "You are a video prompt engineer that only responds with valid JSON."
)

type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Enhancer
	OnFallback func(reason string, err error)
}

// OpenAIEnhancer rewrites prompts through the chat completions endpoint in
// JSON mode. Any upstream failure degrades to the fallback enhancer.
type OpenAIEnhancer struct {
	endpoint   string
	apiKey     string
	model      string
	http       *http.Client
	fallback   Enhancer
	onFallback func(reason string, err error)
}

// openAIStatusError carries a non-2xx chat completions response.
type openAIStatusError struct {
	Status  int
	Type    string
	Message string
}

func (e *openAIStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: status %d", e.Status)
	}
	return fmt.Sprintf("openai: status %d (%s): %s", e.Status, e.Type, e.Message)
}

func NewOpenAIEnhancer(opts OpenAIOptions) (*OpenAIEnhancer, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("openai api key is required")
	}
	e := &OpenAIEnhancer{
		endpoint:   firstNonEmpty(strings.TrimRight(opts.BaseURL, "/"), openAIDefaultBaseURL) + "/chat/completions",
		apiKey:     key,
		model:      firstNonEmpty(strings.TrimSpace(opts.Model), openAIDefaultModel),
		http:       opts.HTTPClient,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}
	if e.http == nil {
		e.http = &http.Client{Timeout: openAITimeout}
	}
	return e, nil
}

func (o *OpenAIEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	text, err := o.complete(ctx, buildInstruction(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return fallbackChain(ctx, o.fallback, o.onFallback, req, openAIFallbackReason(err), err)
	}
	return responseFromText(text, req, openAIProviderName), nil
}

func (o *OpenAIEnhancer) complete(ctx context.Context, instruction string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body, err := json.Marshal(map[string]any{
		"model":           o.model,
		"temperature":     0.6,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []message{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: instruction},
		},
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &openAIStatusError{Status: resp.StatusCode}
		var envelope struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, openAIMaxErrorBody))
		if json.Unmarshal(raw, &envelope) == nil {
			statusErr.Type, statusErr.Message = envelope.Error.Type, envelope.Error.Message
		}
		return "", statusErr
	}

	var out struct {
		Choices []struct {
			Message message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", errUndecodableCompletion, err)
	}
	for _, choice := range out.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", errEmptyCompletion
}

var (
	errEmptyCompletion       = errors.New("openai: empty completion")
	errUndecodableCompletion = errors.New("openai: decode response")
)

func openAIFallbackReason(err error) string {
	var statusErr *openAIStatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("http_%d", statusErr.Status)
	case errors.Is(err, errEmptyCompletion):
		return "empty_response"
	case errors.Is(err, errUndecodableCompletion):
		return "decode_response"
	default:
		return "http_request"
	}
}

var _ Enhancer = (*OpenAIEnhancer)(nil)
