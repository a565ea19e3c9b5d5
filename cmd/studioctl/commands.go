package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"videostudio/internal/adapter/repo"
	"videostudio/internal/bootstrap"
	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/infra/credentials"
	"videostudio/internal/middleware"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := infra.OpenMigrationDB(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := infra.NewMigrator(db, infra.Migrations(), ctx.logger()).Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
			}
			return nil
		},
	}
}

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	credits := &cobra.Command{
		Use:   "credits",
		Short: "Manage credit balances",
	}

	var (
		userID      string
		amount      int
		kind        string
		description string
	)
	grant := &cobra.Command{
		Use:   "grant",
		Short: "Add credits to a user and record the transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := domain.Grant{
				UserID:      strings.TrimSpace(userID),
				Amount:      amount,
				Type:        domain.TransactionType(strings.ToLower(strings.TrimSpace(kind))),
				Description: strings.TrimSpace(description),
			}
			if err := validateGrant(g); err != nil {
				return err
			}
			return ctx.withRunner(cmd.Context(), func(runner *infra.SQLRunner) error {
				balance, err := repo.NewProfileRepository(runner).Grant(cmd.Context(), g)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Granted %d credits to %s, balance %d\n", g.Amount, g.UserID, balance)
				return nil
			})
		},
	}
	grant.Flags().StringVar(&userID, "user", "", "profile id to credit")
	grant.Flags().IntVar(&amount, "amount", 0, "credits to add")
	grant.Flags().StringVar(&kind, "type", string(domain.TransactionPurchase), "transaction type (purchase, bonus, refund)")
	grant.Flags().StringVar(&description, "description", "", "ledger description")
	_ = grant.MarkFlagRequired("user")
	_ = grant.MarkFlagRequired("amount")

	credits.AddCommand(grant)
	return credits
}

func validateGrant(g domain.Grant) error {
	if g.UserID == "" {
		return errors.New("--user is required")
	}
	if g.Amount <= 0 {
		return errors.New("--amount must be positive")
	}
	if !g.Type.Valid() || g.Type == domain.TransactionUsage {
		return fmt.Errorf("unsupported transaction type %q", g.Type)
	}
	return nil
}

func newProviderKeyCommand(ctx *commandContext) *cobra.Command {
	keys := &cobra.Command{
		Use:   "provider-key",
		Short: "Manage provider API keys",
	}

	var provider string
	set := &cobra.Command{
		Use:   "set [key]",
		Short: "Store a provider API key in provider_keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider = strings.ToLower(strings.TrimSpace(provider))
			if !credentials.ValidProvider(provider) {
				return fmt.Errorf("unsupported provider %q", provider)
			}
			key := ""
			if len(args) == 1 {
				key = strings.TrimSpace(args[0])
			}
			if key == "" {
				key = strings.TrimSpace(os.Getenv(providerKeyEnv(provider)))
			}
			if key == "" {
				return fmt.Errorf("%s api key is required as an argument or via %s", provider, providerKeyEnv(provider))
			}
			return ctx.withRunner(cmd.Context(), func(runner *infra.SQLRunner) error {
				props := map[string]any{"set_by": "studioctl", "set_at": time.Now().UTC().Format(time.RFC3339)}
				if err := credentials.NewStore(runner).SetKey(cmd.Context(), provider, key, props); err != nil {
					return fmt.Errorf("persist %s api key: %w", provider, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s api key\n", provider)
				return nil
			})
		},
	}
	set.Flags().StringVar(&provider, "provider", credentials.ProviderGoogleAI, "provider to configure (google_ai or openai)")

	keys.AddCommand(set)
	return keys
}

func providerKeyEnv(provider string) string {
	if provider == credentials.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GOOGLE_AI_API_KEY"
}

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Fail generations stuck past their lifetime",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				n, err := c.Service.Sweep(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Failed %d abandoned generations\n", n)
				return nil
			})
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		userID   string
		email    string
		name     string
		secret   string
		audience string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = firstEnv("SUPABASE_JWT_SECRET", "JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or SUPABASE_JWT_SECRET is required")
			}
			token, err := middleware.SignToken(secret, audience, middleware.Identity{
				UserID:   strings.TrimSpace(userID),
				Email:    strings.TrimSpace(email),
				FullName: strings.TrimSpace(name),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject (profile id)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "full name claim")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret")
	cmd.Flags().StringVar(&audience, "audience", "authenticated", "audience claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
