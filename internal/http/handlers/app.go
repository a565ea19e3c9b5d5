package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"videostudio/internal/domain"
	"videostudio/internal/generation"
	"videostudio/internal/infra"
	"videostudio/internal/middleware"
	"videostudio/internal/providers/prompt"
)

// Generator is the orchestrator surface used by the HTTP layer.
type Generator interface {
	GenerateVideo(ctx context.Context, userID string, req domain.GenerationRequest) (*generation.Result, error)
	AcceptBatch(ctx context.Context, userID string, req domain.BatchRequest) (*domain.BatchAcceptance, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App carries the dependencies shared by handlers.
type App struct {
	DB            Pinger
	Generator     Generator
	Profiles      domain.ProfileRepository
	Generations   domain.GenerationRepository
	Projects      domain.ProjectRepository
	Templates     domain.TemplateRepository
	Notifications domain.NotificationRepository
	Gallery       domain.GalleryRepository
	Stats         domain.StatsRepository
	Enhancer      prompt.Enhancer
	Logger        infra.Logger

	WelcomeCredits int
	Now            func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// requireUser writes 401 and returns "" when the request is anonymous.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	}
	return userID
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// maxBodyBytes allows three inline reference images.
const maxBodyBytes = 32 << 20

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
