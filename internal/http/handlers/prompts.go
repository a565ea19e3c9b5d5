package handlers

import (
	"net/http"

	"videostudio/internal/middleware"
	"videostudio/internal/providers/prompt"
)

type enhancePromptRequest struct {
	Prompt    string `json:"prompt"`
	Style     string `json:"style"`
	Intensity string `json:"intensity"`
}

func (a *App) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var body enhancePromptRequest
	if !a.decode(w, r, &body) {
		return
	}
	req := prompt.EnhanceRequest{
		Prompt:    body.Prompt,
		Style:     prompt.Style(body.Style),
		Intensity: prompt.Intensity(body.Intensity),
		Locale:    middleware.LocaleFromContext(r.Context()),
	}
	if err := req.Normalize(); err != nil {
		a.fail(w, r, err, "enhance prompt")
		return
	}
	resp, err := a.Enhancer.Enhance(r.Context(), req)
	if err != nil {
		a.fail(w, r, err, "enhance prompt")
		return
	}
	a.json(w, http.StatusOK, resp)
}
