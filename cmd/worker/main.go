package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"videostudio/internal/bootstrap"
	"videostudio/internal/domain"
	"videostudio/internal/infra"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build dependencies")
	}
	defer c.Close()

	concurrency := cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		w := &worker{c: c, idle: cfg.WorkerIdle, logger: logger.With().Int("worker", i).Logger()}
		g.Go(func() error { return w.run(gctx) })
	}
	g.Go(func() error { return c.RunSweeper(gctx, cfg.SweepInterval) })

	logger.Info().Int("concurrency", concurrency).Msg("worker: started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

type worker struct {
	c      *bootstrap.Container
	idle   time.Duration
	logger infra.Logger
}

// run claims pending batch items one at a time until ctx ends.
func (w *worker) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		gen, err := w.c.Generations.ClaimPending(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, context.Canceled) {
				w.logger.Error().Err(err).Msg("worker: failed to claim generation")
			}
			sleep(ctx, w.idle)
			continue
		}

		w.logger.Info().Str("generation_id", gen.ID).Str("batch_id", gen.BatchID).Msg("worker: picked generation")
		res, err := w.c.Service.Execute(ctx, gen)
		if err != nil {
			w.logger.Warn().Err(err).Str("generation_id", gen.ID).Msg("worker: generation failed")
			continue
		}
		w.logger.Info().Str("generation_id", gen.ID).Str("video_url", res.VideoURL).Msg("worker: generation completed")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
