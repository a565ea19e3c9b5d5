package handlers

import (
	"errors"
	"net/http"

	"videostudio/internal/domain"
	"videostudio/internal/middleware"
)

// Me returns the caller's profile, creating it with the welcome bonus on the
// first authenticated visit.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	profile, err := a.Profiles.GetByID(r.Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		id, _ := middleware.IdentityFromContext(r.Context())
		if id.Email == "" {
			a.error(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		var created bool
		profile, created, err = a.Profiles.Bootstrap(r.Context(), domain.Profile{
			ID:        userID,
			Email:     id.Email,
			FullName:  id.FullName,
			AvatarURL: id.AvatarURL,
		}, a.WelcomeCredits)
		if err == nil && created {
			a.Logger.Info().Str("user_id", userID).Int("credits", a.WelcomeCredits).Msg("profile created")
		}
	}
	if err != nil {
		a.fail(w, r, err, "load profile")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"profile": toProfileDTO(profile)})
}
