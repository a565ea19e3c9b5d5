// Package prompt enhances user video prompts with a text model.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"videostudio/internal/domain"
)

type Style string

const (
	StyleCinematic  Style = "cinematic"
	StyleCommercial Style = "commercial"
	StyleArtistic   Style = "artistic"
	StyleVlog       Style = "vlog"
)

type Intensity string

const (
	IntensitySubtle   Intensity = "subtle"
	IntensityModerate Intensity = "moderate"
	IntensityExtreme  Intensity = "extreme"
)

type EnhanceRequest struct {
	Prompt    string
	Style     Style
	Intensity Intensity
	Locale    string
}

// Normalize trims the prompt and replaces unknown styles and intensities
// with cinematic and moderate.
func (r *EnhanceRequest) Normalize() error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	r.Style = Style(strings.ToLower(strings.TrimSpace(string(r.Style))))
	if _, ok := styleTemplates[r.Style]; !ok {
		r.Style = StyleCinematic
	}
	r.Intensity = Intensity(strings.ToLower(strings.TrimSpace(string(r.Intensity))))
	if _, ok := intensityMultipliers[r.Intensity]; !ok {
		r.Intensity = IntensityModerate
	}
	r.Locale = normalizeLocale(r.Locale)
	return nil
}

type EnhanceResponse struct {
	EnhancedPrompt string            `json:"enhancedPrompt"`
	Suggestions    []string          `json:"suggestions"`
	Tags           []string          `json:"tags"`
	Metadata       map[string]string `json:"-"`
	Provider       string            `json:"-"`
}

type Enhancer interface {
	Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error)
}

// StaticEnhancer appends the style's production cues without calling a model.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	cues := staticCues[req.Style]
	n := len(cues)
	switch req.Intensity {
	case IntensitySubtle:
		n = 1
	case IntensityModerate:
		n = 2
	}
	title := cases.Title(language.English)
	var b strings.Builder
	b.WriteString(strings.TrimRight(req.Prompt, ". "))
	b.WriteString(". ")
	b.WriteString(title.String(string(req.Style)))
	b.WriteString(" shot, ")
	b.WriteString(strings.Join(cues[:n], ", "))
	b.WriteString(".")
	return &EnhanceResponse{
		EnhancedPrompt: b.String(),
		Suggestions:    defaultSuggestions(req.Locale),
		Tags:           defaultTags(req.Style),
		Metadata:       map[string]string{"locale": req.Locale},
		Provider:       staticProviderName,
	}, nil
}

var _ Enhancer = (*StaticEnhancer)(nil)
