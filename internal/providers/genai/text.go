package genai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// TextOptions tunes a single text generation call.
type TextOptions struct {
	Temperature float64
	JSON        bool
}

// GenerateText sends prompt to model and returns the first non-empty text part.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, opts TextOptions) (string, error) {
	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:    opts.Temperature,
			CandidateCount: 1,
		},
	}
	if opts.JSON {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	var out generateContentResponse
	path := fmt.Sprintf("models/%s:generateContent", url.PathEscape(model))
	if err := c.PostJSON(ctx, path, payload, &out); err != nil {
		return "", err
	}
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}
	return "", errors.New("gemini returned no text")
}
