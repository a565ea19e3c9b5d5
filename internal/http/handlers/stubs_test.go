package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"videostudio/internal/domain"
	"videostudio/internal/generation"
	"videostudio/internal/providers/prompt"
)

type stubGenerator struct {
	lastUser  string
	lastReq   domain.GenerationRequest
	lastBatch domain.BatchRequest
	result    *generation.Result
	err       error
}

func (s *stubGenerator) GenerateVideo(ctx context.Context, userID string, req domain.GenerationRequest) (*generation.Result, error) {
	s.lastUser, s.lastReq = userID, req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubGenerator) AcceptBatch(ctx context.Context, userID string, req domain.BatchRequest) (*domain.BatchAcceptance, error) {
	s.lastUser = userID
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	s.lastBatch = req
	if s.err != nil {
		return nil, s.err
	}
	out := &domain.BatchAcceptance{BatchID: "batch-1", TotalCost: 10 * len(req.Variations), Remaining: 5, Settlement: domain.SettleUpfront}
	for _, p := range req.Prompts() {
		out.Generations = append(out.Generations, domain.Generation{ID: "g-" + p, Prompt: p, Status: domain.StatusPending})
	}
	return out, nil
}

type stubProfiles struct {
	profiles  map[string]*domain.Profile
	bootstrap *domain.Profile
}

func (s *stubProfiles) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (s *stubProfiles) Bootstrap(ctx context.Context, profile domain.Profile, welcomeCredits int) (*domain.Profile, bool, error) {
	profile.Credits = welcomeCredits
	s.bootstrap = &profile
	return &profile, true, nil
}

func (s *stubProfiles) Grant(ctx context.Context, grant domain.Grant) (int, error) {
	return 0, errors.New("not used")
}

type stubGenerations struct {
	domain.GenerationRepository
	items  map[string]domain.Generation
	filter domain.GenerationFilter
}

func (s *stubGenerations) GetForUser(ctx context.Context, id, userID string) (*domain.Generation, error) {
	g, ok := s.items[id]
	if !ok || g.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}

func (s *stubGenerations) ListForUser(ctx context.Context, userID string, f domain.GenerationFilter) ([]domain.Generation, error) {
	s.filter = f
	var out []domain.Generation
	for _, g := range s.items {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

type stubProjects struct {
	created []domain.Project
}

func (s *stubProjects) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.created, nil
}

func (s *stubProjects) Create(ctx context.Context, p *domain.Project) error {
	p.ID = "p-1"
	p.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.created = append(s.created, *p)
	return nil
}

func (s *stubProjects) Get(ctx context.Context, id, userID string) (*domain.Project, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProjects) Update(ctx context.Context, id, userID string, patch domain.ProjectPatch) (*domain.Project, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.ErrInvalidRequest
	}
	return &domain.Project{ID: id, UserID: userID, Name: *patch.Name}, nil
}

func (s *stubProjects) Delete(ctx context.Context, id, userID string) error {
	return domain.ErrNotFound
}

type stubNotifications struct {
	created []domain.Notification
}

func (s *stubNotifications) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, int, error) {
	return []domain.Notification{{ID: "n-1", Type: domain.NotifyWelcome, Title: "Welcome!"}}, 1, nil
}

func (s *stubNotifications) Create(ctx context.Context, n *domain.Notification) error {
	if !n.Type.Valid() {
		return domain.ErrInvalidRequest
	}
	n.ID = "n-2"
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotifications) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (s *stubNotifications) MarkRead(ctx context.Context, id, userID string) error {
	return domain.ErrNotFound
}

func (s *stubNotifications) Delete(ctx context.Context, id, userID string) error { return nil }

type stubTemplates struct {
	filter domain.TemplateFilter
}

func (s *stubTemplates) List(ctx context.Context, f domain.TemplateFilter) ([]domain.Template, error) {
	s.filter = f
	return []domain.Template{{ID: "t-1", Name: "Drone", Category: "Travel", AspectRatio: domain.AspectLandscape, Resolution: domain.Resolution720p}}, nil
}

func (s *stubTemplates) Create(ctx context.Context, t *domain.Template) error {
	t.ID = "t-2"
	return nil
}

type stubGallery struct{}

func (stubGallery) List(ctx context.Context, f domain.GalleryFilter) ([]domain.GalleryItem, error) {
	return []domain.GalleryItem{{Generation: domain.Generation{ID: "g-1", Status: domain.StatusCompleted, VideoURL: "https://cdn/x.mp4", IsPublic: true}, AuthorName: "Ada"}}, nil
}

type stubStats struct{}

func (stubStats) Refresh(ctx context.Context, userID string, now time.Time) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{Credits: 40, TotalVideos: 3, ThisWeekVideos: 1, TotalCreditsSpent: 30, ThisMonthCredits: 10, AvgGenerationTime: 62.5}, nil
}

func newTestApp() (*App, *stubGenerator) {
	gen := &stubGenerator{}
	return &App{
		Generator:      gen,
		Profiles:       &stubProfiles{profiles: map[string]*domain.Profile{"user-1": {ID: "user-1", Credits: 40}}},
		Generations:    &stubGenerations{items: map[string]domain.Generation{"g-1": {ID: "g-1", UserID: "user-1", Status: domain.StatusCompleted}}},
		Projects:       &stubProjects{},
		Templates:      &stubTemplates{},
		Notifications:  &stubNotifications{},
		Gallery:        stubGallery{},
		Stats:          stubStats{},
		Enhancer:       prompt.NewStaticEnhancer(),
		Logger:         zerolog.Nop(),
		WelcomeCredits: 50,
	}, gen
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
