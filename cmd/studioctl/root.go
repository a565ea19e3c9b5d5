package main

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"videostudio/internal/bootstrap"
	"videostudio/internal/infra"
)

type commandContext struct {
	configOnce sync.Once
	config     *infra.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*infra.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = infra.LoadConfig()
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() infra.Logger {
	env, level := "development", ""
	if cfg, err := c.ensureConfig(); err == nil {
		env, level = cfg.AppEnv, cfg.LogLevel
	}
	return infra.NewLogger(env, level, "studioctl")
}

// withRunner opens a short-lived pool for commands that only issue SQL.
func (c *commandContext) withRunner(ctx context.Context, fn func(*infra.SQLRunner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(infra.NewSQLRunner(pool, c.logger()))
}

func (c *commandContext) withContainer(ctx context.Context, fn func(*bootstrap.Container) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	container, err := bootstrap.New(ctx, cfg, c.logger())
	if err != nil {
		return err
	}
	defer container.Close()
	return fn(container)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "studioctl",
		Short:         "Video studio administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCreditsCommand(ctx))
	rootCmd.AddCommand(newProviderKeyCommand(ctx))
	rootCmd.AddCommand(newSweepCommand(ctx))
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
