package handlers

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// Health reports liveness. When a database is wired it must answer a ping
// within healthTimeout or the endpoint returns 503.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		a.json(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := a.DB.Ping(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("health check: database unreachable")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
