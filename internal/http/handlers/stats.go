package handlers

import (
	"net/http"
)

func (a *App) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	s, err := a.Stats.Refresh(r.Context(), userID, a.now())
	if err != nil {
		a.fail(w, r, err, "load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"credits":           s.Credits,
		"totalVideos":       s.TotalVideos,
		"thisWeekVideos":    s.ThisWeekVideos,
		"totalCreditsSpent": s.TotalCreditsSpent,
		"thisMonthCredits":  s.ThisMonthCredits,
		"avgGenerationTime": s.AvgGenerationTime,
	})
}
