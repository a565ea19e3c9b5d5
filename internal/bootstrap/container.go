// Package bootstrap wires configuration into the repositories, providers and
// orchestrator shared by the api, worker and studioctl binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"videostudio/internal/adapter/repo"
	"videostudio/internal/domain"
	"videostudio/internal/generation"
	"videostudio/internal/infra"
	"videostudio/internal/infra/credentials"
	"videostudio/internal/metrics"
	"videostudio/internal/poll"
	"videostudio/internal/providers/genai"
	"videostudio/internal/providers/prompt"
	"videostudio/internal/providers/video"
	"videostudio/internal/storage"
)

// Container holds long-lived process dependencies.
type Container struct {
	Config  *infra.Config
	Logger  infra.Logger
	Pool    *pgxpool.Pool
	Runner  *infra.SQLRunner
	Metrics *metrics.Metrics

	Profiles      *repo.ProfileRepository
	Generations   *repo.GenerationRepository
	Projects      *repo.ProjectRepository
	Templates     *repo.TemplateRepository
	Notifications *repo.NotificationRepository
	Gallery       *repo.GalleryRepository
	Stats         *repo.StatsRepository
	Credentials   *credentials.Store

	Genai    *genai.Client
	Provider video.Provider
	Store    storage.Store
	Service  *generation.Service
}

// New connects to the database and builds every dependency.
func New(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Container, error) {
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)

	c := &Container{
		Config:        cfg,
		Logger:        logger,
		Pool:          pool,
		Runner:        runner,
		Metrics:       metrics.New(),
		Profiles:      repo.NewProfileRepository(runner),
		Generations:   repo.NewGenerationRepository(runner),
		Projects:      repo.NewProjectRepository(runner),
		Templates:     repo.NewTemplateRepository(runner),
		Notifications: repo.NewNotificationRepository(runner),
		Gallery:       repo.NewGalleryRepository(runner),
		Stats:         repo.NewStatsRepository(runner),
		Credentials:   credentials.NewStore(runner),
	}

	apiKey, err := c.Credentials.Resolve(ctx, credentials.ProviderGoogleAI, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load google ai key from store")
	}
	c.Genai = genai.NewClient(genai.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
		Logger:     &c.Logger,
	})

	switch cfg.VideoProvider {
	case "synthetic":
		c.Provider = video.NewSynthetic(2)
	case "veo":
		c.Provider = video.NewVeo(c.Genai, cfg.VeoModel)
		if apiKey == "" {
			logger.Warn().Msg("google ai key missing, video generation will be rejected")
		}
	default:
		pool.Close()
		return nil, fmt.Errorf("unsupported VIDEO_PROVIDER %q", cfg.VideoProvider)
	}

	if c.Store, err = storage.New(cfg); err != nil {
		pool.Close()
		return nil, err
	}

	c.Service = generation.NewService(generation.Options{
		Profiles:           c.Profiles,
		Generations:        c.Generations,
		Notifications:      c.Notifications,
		Provider:           c.Provider,
		Store:              c.Store,
		Metrics:            c.Metrics,
		Logger:             logger,
		Poll:               poll.Policy{Interval: cfg.PollInterval, MaxAttempts: cfg.PollMaxAttempts},
		MaxLifetime:        cfg.MaxJobLifetime(),
		LowCreditThreshold: cfg.LowCreditThreshold,
		BatchSettlement:    domain.ParseBatchSettlement(cfg.BatchSettlement),
	})

	logger.Info().
		Str("video_provider", c.Provider.Name()).
		Str("storage", c.Store.Name()).
		Dur("poll_interval", cfg.PollInterval).
		Int("poll_attempts", cfg.PollMaxAttempts).
		Msg("container ready")
	return c, nil
}

// Enhancer builds the prompt enhancer chain selected by PROMPT_PROVIDER. Every
// remote enhancer falls back to the static one.
func (c *Container) Enhancer(ctx context.Context) prompt.Enhancer {
	static := prompt.NewStaticEnhancer()
	onFallback := func(reason string, err error) {
		c.Logger.Warn().Err(err).Str("reason", reason).Msg("prompt enhancer fell back")
	}

	switch c.Config.PromptProvider {
	case "gemini":
		e, err := prompt.NewGeminiEnhancer(prompt.GeminiOptions{
			Client:     c.Genai,
			Model:      c.Config.PromptModel,
			Fallback:   static,
			OnFallback: onFallback,
		})
		if err == nil {
			return e
		}
		c.Logger.Warn().Err(err).Msg("gemini enhancer unavailable")
	case "openai":
		key, err := c.Credentials.Resolve(ctx, credentials.ProviderOpenAI, c.Config.OpenAIAPIKey)
		if err != nil {
			c.Logger.Warn().Err(err).Msg("failed to load openai key from store")
		}
		e, err := prompt.NewOpenAIEnhancer(prompt.OpenAIOptions{
			APIKey:     key,
			Model:      c.Config.OpenAIModel,
			BaseURL:    c.Config.OpenAIBaseURL,
			Fallback:   static,
			OnFallback: onFallback,
		})
		if err == nil {
			return e
		}
		c.Logger.Warn().Err(err).Msg("openai enhancer unavailable")
	}
	return static
}

// RunSweeper fails abandoned generations every interval until ctx ends.
func (c *Container) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n, err := c.Service.Sweep(ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			c.Logger.Error().Err(err).Msg("sweep failed")
		case n > 0:
			c.Logger.Info().Int64("failed", n).Msg("swept abandoned generations")
		}
	}
}

func (c *Container) Close() {
	c.Pool.Close()
}
