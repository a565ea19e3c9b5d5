package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

type NotificationRepository struct {
	sql infra.SQLExecutor
}

func NewNotificationRepository(sql infra.SQLExecutor) *NotificationRepository {
	return &NotificationRepository{sql: sql}
}

// List returns the newest notifications and the total unread count.
func (r *NotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, int, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListNotifications, userID, unreadOnly, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, 0, err
	}
	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &data, &n.IsRead, &n.CreatedAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		n.Type = domain.NotificationType(typ)
		n.Data = json.RawMessage(data)
		out = append(out, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var unread int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUnreadNotifications, userID).Scan(&unread); err != nil {
		return nil, 0, err
	}
	return out, unread, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if !n.Type.Valid() {
		return fmt.Errorf("%w: unknown notification type %q", domain.ErrInvalidRequest, n.Type)
	}
	data := []byte(n.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	return r.sql.QueryRow(ctx, sqlinline.QInsertNotification, n.UserID, string(n.Type), n.Title, n.Message, data).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkAllNotificationsRead, userID)
	return err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	return r.execOwned(ctx, sqlinline.QMarkNotificationRead, id, userID)
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID string) error {
	return r.execOwned(ctx, sqlinline.QDeleteNotification, id, userID)
}

func (r *NotificationRepository) execOwned(ctx context.Context, query, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	tag, err := r.sql.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)
