package domain

import (
	"context"
	"time"
)

// ProfileRepository reads and bootstraps accounts.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (*Profile, error)
	// Bootstrap creates the profile with a welcome bonus if it does not exist.
	Bootstrap(ctx context.Context, profile Profile, welcomeCredits int) (*Profile, bool, error)
	Grant(ctx context.Context, grant Grant) (int, error)
}

// GenerationRepository persists generation records and settles them.
type GenerationRepository interface {
	Create(ctx context.Context, gen *Generation) error
	GetForUser(ctx context.Context, id, userID string) (*Generation, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Generation, error)
	ListForUser(ctx context.Context, userID string, filter GenerationFilter) ([]Generation, error)
	MarkFailed(ctx context.Context, id, reason string) error
	// Settle completes the record, appends the usage transaction and decrements
	// the balance atomically. A second settlement of the same id is a no-op.
	Settle(ctx context.Context, c Completion) (Settlement, error)
	// AcceptBatch creates pending records for the batch; with SettleUpfront it
	// also debits the total in the same transaction.
	AcceptBatch(ctx context.Context, userID string, items []Generation, totalCost int, policy BatchSettlement) (*BatchAcceptance, error)
	ClaimPending(ctx context.Context) (*Generation, error)
	FailStale(ctx context.Context, olderThan time.Time, reason string) (int64, error)
	ProjectOwned(ctx context.Context, projectID, userID string) (bool, error)
}

// ProjectRepository manages user projects.
type ProjectRepository interface {
	List(ctx context.Context, userID string) ([]Project, error)
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id, userID string) (*Project, error)
	Update(ctx context.Context, id, userID string, patch ProjectPatch) (*Project, error)
	Delete(ctx context.Context, id, userID string) error
}

// TemplateRepository manages prompt templates.
type TemplateRepository interface {
	List(ctx context.Context, filter TemplateFilter) ([]Template, error)
	Create(ctx context.Context, t *Template) error
}

// NotificationRepository manages user notifications.
type NotificationRepository interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, int, error)
	Create(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, userID string) error
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// GalleryRepository lists public generations.
type GalleryRepository interface {
	List(ctx context.Context, filter GalleryFilter) ([]GalleryItem, error)
}

// StatsRepository computes and caches dashboard stats.
type StatsRepository interface {
	Refresh(ctx context.Context, userID string, now time.Time) (*DashboardStats, error)
}
