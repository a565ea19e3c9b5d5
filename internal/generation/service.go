// Package generation drives video generations from acceptance to settlement.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/metrics"
	"videostudio/internal/poll"
	"videostudio/internal/providers/video"
	"videostudio/internal/storage"
)

const (
	videoContentType = "video/mp4"
	cleanupTimeout   = 15 * time.Second
)

// Options wires a Service.
type Options struct {
	Profiles      domain.ProfileRepository
	Generations   domain.GenerationRepository
	Notifications domain.NotificationRepository
	Provider      video.Provider
	Store         storage.Store
	Metrics       *metrics.Metrics
	Logger        infra.Logger

	Poll               poll.Policy
	MaxLifetime        time.Duration
	LowCreditThreshold int
	BatchSettlement    domain.BatchSettlement
	Now                func() time.Time
}

// Service is the generation orchestrator. It is safe for concurrent use; every
// generation runs its own polling loop.
type Service struct {
	profiles      domain.ProfileRepository
	generations   domain.GenerationRepository
	notifications domain.NotificationRepository
	provider      video.Provider
	store         storage.Store
	metrics       *metrics.Metrics
	logger        infra.Logger

	poll         poll.Policy
	maxLifetime  time.Duration
	lowCredits   int
	batchSettles domain.BatchSettlement
	now          func() time.Time

	jobs sync.WaitGroup
}

// Result is the outcome of a completed generation.
type Result struct {
	Generation       domain.Generation
	VideoURL         string
	RemainingCredits int
	// Replayed is set when an idempotency key matched an earlier request.
	Replayed bool
}

func NewService(opts Options) *Service {
	s := &Service{
		profiles:      opts.Profiles,
		generations:   opts.Generations,
		notifications: opts.Notifications,
		provider:      opts.Provider,
		store:         opts.Store,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		poll:          opts.Poll,
		maxLifetime:   opts.MaxLifetime,
		lowCredits:    opts.LowCreditThreshold,
		batchSettles:  opts.BatchSettlement,
		now:           opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxLifetime <= 0 {
		s.maxLifetime = s.poll.Ceiling() + 2*time.Minute
	}
	if s.batchSettles == "" {
		s.batchSettles = domain.SettleUpfront
	}
	return s
}

// GenerateVideo runs one generation to a terminal state and returns the asset
// URL with the caller's new balance.
//
// Rejections (unauthenticated, missing profile, invalid input, insufficient
// credits) happen before any record exists. Once the record is created the
// lifecycle continues even if ctx is cancelled; the caller then receives
// ctx.Err() and the record still reaches completed or failed.
func (s *Service) GenerateVideo(ctx context.Context, userID string, req domain.GenerationRequest) (*Result, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	input, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		req.IdempotencyKey = key
		existing, err := s.generations.GetByIdempotencyKey(ctx, userID, key)
		switch {
		case err == nil:
			return replay(existing, profile.Credits)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	cost, err := domain.CreditCost(req.Resolution, 1)
	if err != nil {
		return nil, err
	}
	if profile.Credits < cost {
		return nil, domain.ErrInsufficientCredit
	}

	gen := &domain.Generation{
		UserID:         userID,
		Prompt:         req.Prompt,
		Mode:           req.Mode,
		AspectRatio:    req.AspectRatio,
		Resolution:     req.Resolution,
		Model:          req.Model,
		Status:         domain.StatusProcessing,
		CreditsUsed:    cost,
		ProjectID:      req.ProjectID,
		TemplateID:     req.TemplateID,
		IdempotencyKey: req.IdempotencyKey,
		IsPublic:       req.IsPublic,
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) && req.IdempotencyKey != "" {
			existing, getErr := s.generations.GetByIdempotencyKey(ctx, userID, req.IdempotencyKey)
			if getErr != nil {
				return nil, getErr
			}
			return replay(existing, profile.Credits)
		}
		return nil, fmt.Errorf("create generation: %w", err)
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.maxLifetime)
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		defer cancel()
		res, err := s.run(jobCtx, gen, input, true)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		s.logger.Warn().Str("generation_id", gen.ID).Msg("caller went away, generation continues detached")
		return nil, ctx.Err()
	}
}

// Execute drives a claimed pending record, as produced by a batch. Prepaid
// items are completed without a second charge.
func (s *Service) Execute(ctx context.Context, gen *domain.Generation) (*Result, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generation", domain.ErrInvalidRequest)
	}
	ctx, cancel := context.WithTimeout(ctx, s.maxLifetime)
	defer cancel()
	s.jobs.Add(1)
	defer s.jobs.Done()
	return s.run(ctx, gen, domain.PromptInput{}, !gen.Prepaid)
}

// AcceptBatch validates and prices a batch, then persists one pending record per
// variation. Nothing is created when the balance cannot cover the whole batch.
func (s *Service) AcceptBatch(ctx context.Context, userID string, req domain.BatchRequest) (*domain.BatchAcceptance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}
	unit, err := domain.CreditCost(req.Resolution, 1)
	if err != nil {
		return nil, err
	}
	prompts := req.Prompts()
	total := unit * len(prompts)
	if profile.Credits < total {
		return nil, domain.ErrInsufficientCredit
	}

	items := make([]domain.Generation, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, domain.Generation{
			Prompt:      p,
			Mode:        req.Mode,
			AspectRatio: req.AspectRatio,
			Resolution:  req.Resolution,
			Model:       req.Model,
			CreditsUsed: unit,
			ProjectID:   req.ProjectID,
		})
	}
	accepted, err := s.generations.AcceptBatch(ctx, userID, items, total, s.batchSettles)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("batch_id", accepted.BatchID).
		Int("items", len(accepted.Generations)).
		Int("total_cost", total).
		Str("settlement", string(accepted.Settlement)).
		Msg("batch accepted")
	if accepted.Settlement == domain.SettleUpfront {
		s.metrics.AddCredits(total)
		s.notifyLowCredits(ctx, userID, accepted.Remaining)
	}
	return accepted, nil
}

// Sweep fails records that outlived the maximum job lifetime.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.generations.FailStale(ctx, s.now().Add(-s.maxLifetime), "timeout: abandoned")
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Warn().Int64("count", n).Msg("failed abandoned generations")
	}
	return n, nil
}

// Wait blocks until detached generations finish or ctx ends.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) checkProject(ctx context.Context, projectID, userID string) error {
	if strings.TrimSpace(projectID) == "" {
		return nil
	}
	owned, err := s.generations.ProjectOwned(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: unknown project", domain.ErrInvalidRequest)
	}
	return nil
}

// replay answers a repeated idempotency key from the stored record.
func replay(existing *domain.Generation, credits int) (*Result, error) {
	switch existing.Status {
	case domain.StatusCompleted:
		return &Result{
			Generation:       *existing,
			VideoURL:         existing.VideoURL,
			RemainingCredits: credits,
			Replayed:         true,
		}, nil
	case domain.StatusFailed:
		return nil, storedFailure(existing.ErrorMessage)
	default:
		return nil, domain.ErrInProgress
	}
}

var reasonErrors = map[string]error{
	"provider_not_configured": domain.ErrProviderNotConfigured,
	"provider_submission":     domain.ErrProviderSubmission,
	"provider_failed":         domain.ErrProviderJobFailed,
	"timeout":                 domain.ErrTimeout,
	"asset_retrieval":         domain.ErrAssetRetrieval,
	"insufficient_credits":    domain.ErrInsufficientCredit,
}

// storedFailure maps a recorded "reason: detail" message back to its sentinel.
func storedFailure(message string) error {
	reason, _, _ := strings.Cut(message, ":")
	if sentinel, ok := reasonErrors[strings.TrimSpace(reason)]; ok {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return fmt.Errorf("generation failed: %s", message)
}
