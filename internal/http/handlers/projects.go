package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"videostudio/internal/domain"
)

type projectRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	items, err := a.Projects.List(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err, "list projects")
		return
	}
	out := make([]projectDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toProjectDTO(p))
	}
	a.json(w, http.StatusOK, map[string]any{"projects": out})
}

func (a *App) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body projectRequest
	if !a.decode(w, r, &body) {
		return
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	p := &domain.Project{UserID: userID, Name: strings.TrimSpace(*body.Name)}
	if body.Description != nil {
		p.Description = strings.TrimSpace(*body.Description)
	}
	if err := a.Projects.Create(r.Context(), p); err != nil {
		a.fail(w, r, err, "create project")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"project": toProjectDTO(*p)})
}

func (a *App) GetProject(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	p, err := a.Projects.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.fail(w, r, err, "load project")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"project": toProjectDTO(*p)})
}

func (a *App) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body projectRequest
	if !a.decode(w, r, &body) {
		return
	}
	p, err := a.Projects.Update(r.Context(), chi.URLParam(r, "id"), userID, domain.ProjectPatch{
		Name:         body.Name,
		Description:  body.Description,
		ThumbnailURL: body.ThumbnailURL,
	})
	if err != nil {
		a.fail(w, r, err, "update project")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"project": toProjectDTO(*p)})
}

func (a *App) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	if err := a.Projects.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		a.fail(w, r, err, "delete project")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
