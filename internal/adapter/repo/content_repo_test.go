package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"videostudio/internal/domain"
	"videostudio/internal/sqlinline"
)

func TestBootstrapCreatesWelcomeBonus(t *testing.T) {
	db := newFakeSQL()
	now := time.Now()
	db.on(sqlinline.QInsertProfileIfMissing, "user-1", "a@b.c", "Ada", "", 50, now, now)
	db.on(sqlinline.QInsertCreditTransaction, "tx-1")
	db.on(sqlinline.QInsertNotification, "n-1", false, now)

	p, created, err := NewProfileRepository(db).Bootstrap(context.Background(), domain.Profile{ID: "user-1", Email: "a@b.c"}, 50)
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if !created || p.Credits != 50 {
		t.Fatalf("created=%v profile=%#v", created, p)
	}
	if args := db.argsOf(sqlinline.QInsertNotification); len(args) != 5 || args[1] != string(domain.NotifyWelcome) {
		t.Fatalf("unexpected notification args %#v", args)
	}
}

func TestGetByIDRejectsNonUUIDSubject(t *testing.T) {
	db := newFakeSQL()
	_, err := NewProfileRepository(db).GetByID(context.Background(), "service-account@example.com")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("GetByID error = %v, want ErrProfileNotFound", err)
	}
	if len(db.calls) != 0 {
		t.Fatalf("expected no queries, got %d", len(db.calls))
	}
}

func TestGetByIDFound(t *testing.T) {
	db := newFakeSQL()
	now := time.Now()
	id := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	db.on(sqlinline.QSelectProfile, id, "a@b.c", "Ada", "", 7, now, now)

	p, err := NewProfileRepository(db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if p.ID != id || p.Credits != 7 {
		t.Fatalf("unexpected profile %#v", p)
	}
}

func TestBootstrapExistingProfile(t *testing.T) {
	db := newFakeSQL()
	now := time.Now()
	db.on(sqlinline.QSelectProfile, "user-1", "a@b.c", "Ada", "", 7, now, now)

	p, created, err := NewProfileRepository(db).Bootstrap(context.Background(), domain.Profile{ID: "user-1"}, 50)
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if created || p.Credits != 7 {
		t.Fatalf("created=%v profile=%#v", created, p)
	}
	if db.count(sqlinline.QInsertCreditTransaction) != 0 {
		t.Fatal("existing profile must not receive a bonus")
	}
}

func TestGrantValidation(t *testing.T) {
	repo := NewProfileRepository(newFakeSQL())
	for _, g := range []domain.Grant{
		{UserID: "user-1", Amount: 0, Type: domain.TransactionBonus},
		{UserID: "user-1", Amount: 5, Type: domain.TransactionUsage},
		{UserID: "user-1", Amount: 5, Type: "gift"},
	} {
		if _, err := repo.Grant(context.Background(), g); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("Grant(%#v) = %v; want ErrInvalidRequest", g, err)
		}
	}
}

func TestGrantUnknownProfile(t *testing.T) {
	_, err := NewProfileRepository(newFakeSQL()).Grant(context.Background(),
		domain.Grant{UserID: "ghost", Amount: 10, Type: domain.TransactionPurchase})
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestNotificationCreateRejectsUnknownType(t *testing.T) {
	err := NewNotificationRepository(newFakeSQL()).Create(context.Background(), &domain.Notification{UserID: "u", Type: "spam"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNotificationListCountsUnread(t *testing.T) {
	db := newFakeSQL()
	now := time.Now()
	db.lists[sqlinline.QListNotifications] = [][]any{
		{"n-1", "u", "video_complete", "Done", "", []byte(`{"videoId":"g"}`), false, now},
	}
	db.on(sqlinline.QCountUnreadNotifications, 3)

	items, unread, err := NewNotificationRepository(db).List(context.Background(), "u", false, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || unread != 3 || items[0].Type != domain.NotifyVideoComplete {
		t.Fatalf("items=%#v unread=%d", items, unread)
	}
	if args := db.argsOf(sqlinline.QListNotifications); args[2] != 20 {
		t.Fatalf("default limit = %v, want 20", args[2])
	}
}

func TestNotificationMarkReadMissing(t *testing.T) {
	db := newFakeSQL()
	db.on(sqlinline.QMarkNotificationRead, 0)
	err := NewNotificationRepository(db).MarkRead(context.Background(), testGenID, "u")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTemplateListAllCategory(t *testing.T) {
	db := newFakeSQL()
	if _, err := NewTemplateRepository(db).List(context.Background(), domain.TemplateFilter{Category: "All", Limit: 500}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	args := db.argsOf(sqlinline.QListTemplates)
	if args[0] != "" || args[1] != 200 {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestProjectUpdateRejectsBlankName(t *testing.T) {
	blank := "  "
	_, err := NewProjectRepository(newFakeSQL()).Update(context.Background(), testGenID, "u", domain.ProjectPatch{Name: &blank})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestProjectDeleteMissing(t *testing.T) {
	db := newFakeSQL()
	db.on(sqlinline.QDeleteProject, 0)
	err := NewProjectRepository(db).Delete(context.Background(), testGenID, "u")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if db.rollbks != 1 {
		t.Fatal("delete of a missing project must roll back")
	}
}

func TestGallerySortFallback(t *testing.T) {
	db := newFakeSQL()
	if _, err := NewGalleryRepository(db).List(context.Background(), domain.GalleryFilter{SortBy: "weird", Offset: -3}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	args := db.argsOf(sqlinline.QListGallery)
	if args[2] != string(domain.SortPopular) || args[3] != 24 || args[4] != 0 {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestStatsRefreshWindows(t *testing.T) {
	db := newFakeSQL()
	db.on(sqlinline.QSelectDashboardStats, 40, 5, 2, 60, 30, 42.5)
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

	s, err := NewStatsRepository(db).Refresh(context.Background(), "u", now)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if s.TotalVideos != 5 || s.AvgGenerationTime != 42.5 {
		t.Fatalf("unexpected stats %#v", s)
	}
	args := db.argsOf(sqlinline.QSelectDashboardStats)
	if args[1] != now.AddDate(0, 0, -7) || args[2] != time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected windows %#v", args)
	}
	if db.count(sqlinline.QUpsertUserStats) != 1 {
		t.Fatal("stats must be cached")
	}
}
