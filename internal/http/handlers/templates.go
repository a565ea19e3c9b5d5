package handlers

import (
	"net/http"
	"strings"

	"videostudio/internal/domain"
)

type templateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Prompt       string `json:"prompt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	AspectRatio  string `json:"aspectRatio"`
	Resolution   string `json:"resolution"`
}

// ListTemplates is public.
func (a *App) ListTemplates(w http.ResponseWriter, r *http.Request) {
	items, err := a.Templates.List(r.Context(), domain.TemplateFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Limit:    queryInt(r, "limit", 50),
	})
	if err != nil {
		a.fail(w, r, err, "list templates")
		return
	}
	out := make([]templateDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTemplateDTO(t))
	}
	a.json(w, http.StatusOK, map[string]any{"templates": out})
}

func (a *App) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body templateRequest
	if !a.decode(w, r, &body) {
		return
	}
	t := &domain.Template{
		Name:         strings.TrimSpace(body.Name),
		Description:  strings.TrimSpace(body.Description),
		Category:     strings.TrimSpace(body.Category),
		Prompt:       strings.TrimSpace(body.Prompt),
		ThumbnailURL: strings.TrimSpace(body.ThumbnailURL),
		AspectRatio:  domain.AspectRatio(strings.TrimSpace(body.AspectRatio)),
		Resolution:   domain.Resolution(strings.ToLower(strings.TrimSpace(body.Resolution))),
		CreatedBy:    userID,
	}
	if t.Name == "" || t.Category == "" || t.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name, category and prompt are required")
		return
	}
	if t.AspectRatio != "" && !t.AspectRatio.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported aspect ratio")
		return
	}
	if t.Resolution != "" {
		if _, err := domain.CreditCost(t.Resolution, 1); err != nil {
			a.fail(w, r, err, "create template")
			return
		}
	}
	if err := a.Templates.Create(r.Context(), t); err != nil {
		a.fail(w, r, err, "create template")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"template": toTemplateDTO(*t)})
}
