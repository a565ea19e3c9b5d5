package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"videostudio/internal/domain"
	"videostudio/internal/poll"
	"videostudio/internal/providers/video"
	"videostudio/internal/storage"
)

// run takes a persisted record through submit, poll, download, persist and
// settlement. Every failure leaves the record failed with a reason.
func (s *Service) run(ctx context.Context, gen *domain.Generation, input domain.Input, charge bool) (*Result, error) {
	started := s.now()
	release := s.metrics.Track()
	defer release()

	log := s.logger.With().
		Str("generation_id", gen.ID).
		Str("user_id", gen.UserID).
		Str("mode", string(gen.Mode)).
		Str("resolution", string(gen.Resolution)).
		Logger()

	job, err := s.provider.Submit(ctx, video.Request{
		Model:       gen.Model,
		Prompt:      gen.Prompt,
		Mode:        gen.Mode,
		AspectRatio: gen.AspectRatio,
		Resolution:  gen.Resolution,
		Input:       input,
	})
	if err != nil {
		return nil, s.fail(ctx, log, gen, started, err)
	}
	log.Info().Str("job", job.Name).Str("provider", s.provider.Name()).Msg("generation submitted")

	status, err := s.awaitJob(ctx, log, job)
	if err != nil {
		return nil, s.fail(ctx, log, gen, started, err)
	}
	if status.Err != nil {
		return nil, s.fail(ctx, log, gen, started, status.Err)
	}
	if status.VideoURI == "" {
		return nil, s.fail(ctx, log, gen, started, fmt.Errorf("%w: provider returned no video", domain.ErrAssetRetrieval))
	}

	data, err := s.provider.Download(ctx, status.VideoURI)
	if err == nil && len(data) == 0 {
		err = errors.New("empty body")
	}
	if err != nil {
		return nil, s.fail(ctx, log, gen, started, fmt.Errorf("%w: %v", domain.ErrAssetRetrieval, err))
	}

	asset := storage.Object{URL: status.VideoURI}
	if obj, err := s.store.Put(ctx, storage.VideoKey(gen.UserID, gen.ID), data, videoContentType); err != nil {
		log.Warn().Err(err).Str("store", s.store.Name()).Msg("persist video failed, keeping provider url")
		s.metrics.StorageFallback()
	} else {
		asset = obj
	}

	settled, err := s.generations.Settle(ctx, domain.Completion{
		GenerationID: gen.ID,
		UserID:       gen.UserID,
		VideoURL:     asset.URL,
		ThumbnailURL: asset.ThumbnailURL,
		Cost:         gen.CreditsUsed,
		Charge:       charge,
		Description:  fmt.Sprintf("Video generation (%s, %s)", gen.Resolution, gen.Mode),
		ProjectID:    gen.ProjectID,
		FinishedAt:   s.now(),
	})
	if err != nil {
		return nil, s.fail(ctx, log, gen, started, fmt.Errorf("settle: %w", err))
	}
	if settled.Charged {
		s.metrics.AddCredits(gen.CreditsUsed)
	}
	s.metrics.ObserveGeneration(string(gen.Mode), string(domain.StatusCompleted), s.now().Sub(started))
	log.Info().
		Bool("charged", settled.Charged).
		Int("credits_remaining", settled.RemainingCredits).
		Msg("generation completed")

	gen.Status = domain.StatusCompleted
	gen.VideoURL = asset.URL
	gen.ThumbnailURL = asset.ThumbnailURL

	s.notify(ctx, log, gen.UserID, domain.NotifyVideoComplete, "Video ready",
		"Your video has finished generating.", map[string]any{
			"videoId":          gen.ID,
			"videoUrl":         asset.URL,
			"creditsRemaining": settled.RemainingCredits,
		})
	s.notifyLowCredits(ctx, gen.UserID, settled.RemainingCredits)

	return &Result{Generation: *gen, VideoURL: asset.URL, RemainingCredits: settled.RemainingCredits}, nil
}

// awaitJob polls until the provider reports a terminal state. Exhausting the
// budget or reaching the lifetime deadline is a timeout.
func (s *Service) awaitJob(ctx context.Context, log zerolog.Logger, job video.Job) (video.Status, error) {
	name := s.provider.Name()
	status, err := poll.Until(ctx, s.poll, func(ctx context.Context, attempt int) (video.Status, bool, error) {
		st, err := s.provider.Poll(ctx, job)
		if err != nil {
			s.metrics.ObservePoll(name, "error")
			log.Debug().Err(err).Int("attempt", attempt).Msg("poll failed")
			return st, false, err
		}
		if !st.Done {
			s.metrics.ObservePoll(name, "pending")
			return st, false, nil
		}
		s.metrics.ObservePoll(name, "done")
		return st, true, nil
	})
	switch {
	case err == nil:
		return status, nil
	case errors.Is(err, poll.ErrExhausted), errors.Is(err, context.DeadlineExceeded):
		return video.Status{}, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	default:
		return video.Status{}, err
	}
}

// fail records the failure on a context that survives the job's own deadline.
func (s *Service) fail(ctx context.Context, log zerolog.Logger, gen *domain.Generation, started time.Time, cause error) error {
	reason := domain.FailureReason(cause)
	message := reason + ": " + cause.Error()

	cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := s.generations.MarkFailed(cleanup, gen.ID, message); err != nil {
		log.Error().Err(err).Msg("mark generation failed")
	}
	gen.Status = domain.StatusFailed
	gen.ErrorMessage = message

	s.metrics.ObserveGeneration(string(gen.Mode), reason, s.now().Sub(started))
	log.Warn().Err(cause).Str("reason", reason).Msg("generation failed")

	body := "Your video could not be generated. You were not charged."
	if gen.Prepaid {
		body = "Your video could not be generated. Its credits were refunded."
	}
	s.notify(cleanup, log, gen.UserID, domain.NotifyVideoFailed, "Video failed", body, map[string]any{
		"videoId": gen.ID,
		"reason":  reason,
	})
	return cause
}
