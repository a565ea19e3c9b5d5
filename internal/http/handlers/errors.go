package handlers

import (
	"context"
	"errors"
	"net/http"

	"videostudio/internal/domain"
)

// statusForError maps domain failures onto HTTP status codes and error codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInsufficientCredit):
		return http.StatusForbidden, "insufficient_credits"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInProgress):
		return http.StatusConflict, "in_progress"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusInternalServerError, "profile_not_found"
	case errors.Is(err, domain.ErrProviderNotConfigured):
		return http.StatusInternalServerError, "provider_not_configured"
	case errors.Is(err, domain.ErrProviderSubmission):
		return http.StatusInternalServerError, "provider_submission"
	case errors.Is(err, domain.ErrProviderJobFailed):
		return http.StatusInternalServerError, "provider_failed"
	case errors.Is(err, domain.ErrAssetRetrieval):
		return http.StatusInternalServerError, "asset_retrieval"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail writes err as a JSON error. Internal errors are logged and their text
// is not echoed unless it belongs to the generation taxonomy.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, context.Canceled) {
		a.Logger.Info().Str("action", action).Msg("client went away")
		return
	}
	status, code := statusForError(err)
	message := err.Error()
	if code == "internal" {
		a.Logger.Error().Err(err).Str("action", action).Msg("request failed")
		message = "failed to " + action
	}
	a.error(w, status, code, message)
}
