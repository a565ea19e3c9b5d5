package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"videostudio/internal/domain"
)

type notificationRequest struct {
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *App) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	items, unread, err := a.Notifications.List(r.Context(), userID, queryBool(r, "unread"), queryInt(r, "limit", 20))
	if err != nil {
		a.fail(w, r, err, "list notifications")
		return
	}
	out := make([]notificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationDTO(n))
	}
	a.json(w, http.StatusOK, map[string]any{"notifications": out, "unreadCount": unread})
}

func (a *App) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var body notificationRequest
	if !a.decode(w, r, &body) {
		return
	}
	n := &domain.Notification{
		UserID:  userID,
		Type:    domain.NotificationType(strings.TrimSpace(body.Type)),
		Title:   strings.TrimSpace(body.Title),
		Message: strings.TrimSpace(body.Message),
		Data:    body.Data,
	}
	if n.Type == "" || n.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "type and title are required")
		return
	}
	if err := a.Notifications.Create(r.Context(), n); err != nil {
		a.fail(w, r, err, "create notification")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"notification": toNotificationDTO(*n)})
}

func (a *App) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	if err := a.Notifications.MarkAllRead(r.Context(), userID); err != nil {
		a.fail(w, r, err, "mark notifications read")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *App) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	if err := a.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		a.fail(w, r, err, "mark notification read")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *App) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	if err := a.Notifications.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		a.fail(w, r, err, "delete notification")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
