package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

var styleTemplates = map[Style]string{
	StyleCinematic: `Enhance this video prompt for cinematic quality. Add details about:
- Professional camera movement (dolly, crane, handheld, etc.)
- Lighting (golden hour, dramatic shadows, soft fill, etc.)
- Color grading (teal and orange, high contrast, muted tones, etc.)
- Film characteristics (35mm grain, anamorphic lenses, depth of field)
- Aspect ratio composition
- Mood and atmosphere`,
	StyleCommercial: `Enhance this video prompt for commercial/advertising quality. Add details about:
- Product lighting (studio setup, soft boxes, rim lighting)
- Clean backgrounds or contextual environments
- Smooth camera movements (gimbal, slider)
- Professional color correction
- Sharp focus and clarity
- Brand-appropriate aesthetics`,
	StyleArtistic: `Enhance this video prompt for artistic expression. Add details about:
- Unique visual style (surreal, abstract, impressionist)
- Creative camera angles and movements
- Experimental lighting and colors
- Artistic composition rules
- Emotional impact and symbolism
- Texture and visual complexity`,
	StyleVlog: `Enhance this video prompt for vlog/content creator style. Add details about:
- Natural or ring lighting
- Engaging camera angles (eye level, dynamic)
- Authentic, relatable atmosphere
- Modern editing style
- Social media optimized composition
- Personality and energy`,
}

var intensityMultipliers = map[Intensity]float64{
	IntensitySubtle:   0.5,
	IntensityModerate: 1,
	IntensityExtreme:  1.5,
}

var staticCues = map[Style][]string{
	StyleCinematic:  {"slow dolly-in", "golden hour lighting", "shallow depth of field on 35mm film"},
	StyleCommercial: {"clean studio backdrop", "soft box and rim lighting", "smooth gimbal movement"},
	StyleArtistic:   {"surreal color palette", "unusual low camera angle", "rich layered textures"},
	StyleVlog:       {"natural window light", "eye-level handheld framing", "upbeat modern pacing"},
}

var localizedSuggestions = map[string][]string{
	"it": {"Prova diverse angolazioni", "Aggiungi dettagli di luce", "Sperimenta con il ritmo"},
	"en": {"Try different camera angles", "Add lighting details", "Experiment with pacing"},
}

type modelEnhancePayload struct {
	EnhancedPrompt string   `json:"enhancedPrompt"`
	Suggestions    []string `json:"suggestions"`
	Tags           []string `json:"tags"`
}

func buildInstruction(req EnhanceRequest) string {
	sb := &strings.Builder{}
	sb.WriteString(styleTemplates[req.Style])
	fmt.Fprintf(sb, "\n\nOriginal prompt: %q\n\n", req.Prompt)
	sb.WriteString("Provide an enhanced version that maintains the original intent but adds professional video production details.\n")
	fmt.Fprintf(sb, "Intensity level: %s (multiply descriptive detail by %g)\n", req.Intensity, intensityMultipliers[req.Intensity])
	fmt.Fprintf(sb, "Write the suggestions in language %q.\n\n", req.Locale)
	sb.WriteString("Respond ONLY with a JSON object in this exact format:\n")
	sb.WriteString(`{"enhancedPrompt": "the enhanced video prompt here", "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"], "tags": ["tag1", "tag2", "tag3"]}`)
	return sb.String()
}

// responseFromText builds a response from raw model output. Output that is not
// a JSON object is used as the enhanced prompt with default suggestions.
func responseFromText(text string, req EnhanceRequest, provider string) *EnhanceResponse {
	res := &EnhanceResponse{Metadata: map[string]string{"locale": req.Locale}, Provider: provider}
	parsed, err := parseModelPayload[modelEnhancePayload](text)
	if err != nil || strings.TrimSpace(parsed.EnhancedPrompt) == "" {
		res.EnhancedPrompt = stripFences(text)
		res.Suggestions = defaultSuggestions(req.Locale)
		res.Tags = defaultTags(req.Style)
		res.Metadata["parse"] = "text"
		return res
	}
	res.EnhancedPrompt = strings.TrimSpace(parsed.EnhancedPrompt)
	res.Suggestions = normalizeList(parsed.Suggestions)
	if len(res.Suggestions) == 0 {
		res.Suggestions = defaultSuggestions(req.Locale)
	}
	res.Tags = normalizeTags(parsed.Tags)
	if len(res.Tags) == 0 {
		res.Tags = defaultTags(req.Style)
	}
	return res
}

func defaultSuggestions(locale string) []string {
	out := localizedSuggestions[normalizeLocale(locale)]
	return append([]string(nil), out...)
}

func defaultTags(style Style) []string {
	return []string{string(style), "enhanced", "ai-generated"}
}

func normalizeLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	if base.String() == "it" {
		return "it"
	}
	return "en"
}

// normalizeTags lowercases, trims a leading '#' and removes duplicates.
func normalizeTags(tags []string) []string {
	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{})
	var result []string
	for _, tag := range tags {
		tag = lower.String(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func normalizeList(values []string) []string {
	var result []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var fenceRegexp = regexp.MustCompile("```(?:json)?\\n?")

func stripFences(text string) string {
	return strings.TrimSpace(fenceRegexp.ReplaceAllString(text, ""))
}

// fallbackChain runs fallback (or the static enhancer) and records why.
func fallbackChain(ctx context.Context, fallback Enhancer, onFallback func(string, error), req EnhanceRequest, reason string, cause error) (*EnhanceResponse, error) {
	if onFallback != nil {
		onFallback(reason, cause)
	}
	if fallback == nil {
		fallback = NewStaticEnhancer()
	}
	res, err := fallback.Enhance(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = staticProviderName
		}
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}
		if _, ok := res.Metadata["fallback_reason"]; !ok && reason != "" {
			res.Metadata["fallback_reason"] = reason
		}
	}
	return res, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
