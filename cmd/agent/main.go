// Command agent is the nutrition notification agent CLI.
//
// Usage:
//
//	nutriagent generate --user u001
//	nutriagent generate --user u001 --now 2026-01-15T08:05:00+05:30
//	nutriagent triggers --user u003
//	nutriagent safety --user u001 --food f001
//	nutriagent evaluate --days 7
//	nutriagent seed --init
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/config"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/db"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/provider/memory"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/provider/postgres"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "nutriagent",
		Short: "Nutrition notification decision pipeline CLI",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(triggersCmd())
	root.AddCommand(safetyCmd())
	root.AddCommand(evaluateCmd())
	root.AddCommand(seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var userID, now string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the decision pipeline for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return runPipeline(func(ctx context.Context, pipeline *agent.Pipeline, _ agent.DataProvider) error {
				at, err := parseNow(now)
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := pipeline.GenerateNotifications(ctx, userID, at)
				if err != nil {
					return err
				}
				logger.Info("Pipeline run finished",
					"user", userID, "outcome", result.Outcome,
					"notifications", len(result.Notifications),
					"duration", time.Since(start).Round(time.Millisecond))
				return printJSON(result)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&now, "now", "", "Evaluation time (RFC3339); empty = now")
	return cmd
}

// --------------------------------------------------------------------------
// triggers command
// --------------------------------------------------------------------------

func triggersCmd() *cobra.Command {
	var userID, now string
	cmd := &cobra.Command{
		Use:   "triggers",
		Short: "Show which triggers are active for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return runPipeline(func(ctx context.Context, pipeline *agent.Pipeline, _ agent.DataProvider) error {
				at, err := parseNow(now)
				if err != nil {
					return err
				}
				triggers, err := pipeline.ActiveTriggers(ctx, userID, at)
				if err != nil {
					return err
				}
				return printJSON(map[string]interface{}{
					"user_id":  userID,
					"now":      at.UTC().Format(time.RFC3339),
					"triggers": triggers,
				})
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&now, "now", "", "Evaluation time (RFC3339); empty = now")
	return cmd
}

// --------------------------------------------------------------------------
// safety command
// --------------------------------------------------------------------------

func safetyCmd() *cobra.Command {
	var userID, foodID string
	cmd := &cobra.Command{
		Use:   "safety",
		Short: "Check one food against one user's dietary constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" || foodID == "" {
				return fmt.Errorf("--user and --food are required")
			}
			return runPipeline(func(ctx context.Context, pipeline *agent.Pipeline, _ agent.DataProvider) error {
				report, err := pipeline.TestSafety(ctx, userID, foodID)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&foodID, "food", "", "Food ID")
	return cmd
}

// --------------------------------------------------------------------------
// evaluate command
// --------------------------------------------------------------------------

func evaluateCmd() *cobra.Command {
	var (
		start string
		days  int
		hours []int
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a multi-day simulation sweep over all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, pipeline *agent.Pipeline, provider agent.DataProvider) error {
				opts := agent.EvaluateOptions{Days: days, Hours: hours}
				if start != "" {
					at, err := time.Parse(time.RFC3339, start)
					if err != nil {
						return fmt.Errorf("--start must be RFC3339: %w", err)
					}
					opts.Start = at
				}
				userIDs, err := provider.ListUserIDs(ctx)
				if err != nil {
					return err
				}
				began := time.Now()
				report, err := pipeline.Evaluate(ctx, userIDs, opts)
				if err != nil {
					return err
				}
				logger.Info("Evaluation finished",
					"runs", report.Runs, "users", len(userIDs),
					"duration", time.Since(began).Round(time.Millisecond))
				return printJSON(report)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First simulated instant (RFC3339); empty = now")
	cmd.Flags().IntVar(&days, "days", 7, "Days to sweep")
	cmd.Flags().IntSliceVar(&hours, "hours", nil, "UTC hours probed each day (default 8,13,18,20)")
	return cmd
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	var initSchema bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled reference dataset into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for seeding")
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			if initSchema {
				if err := pool.Migrate(ctx); err != nil {
					return fmt.Errorf("apply schema: %w", err)
				}
				logger.Info("Schema applied")
			}

			start := time.Now()
			p := postgres.New(pool.Pool)
			err = p.Seed(ctx,
				memory.DatasetUsers(),
				memory.DatasetFoods(),
				memory.DatasetConditionWeights(),
				memory.DatasetTemplates(),
				memory.DatasetFacts(),
			)
			if err != nil {
				return fmt.Errorf("seed dataset: %w", err)
			}
			logger.Info("Seed finished", "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().BoolVar(&initSchema, "init", false, "Apply the schema before seeding")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runPipeline handles config loading, provider selection, and context
// cancellation. Postgres is used when DATABASE_URL is set, the bundled
// in-memory dataset otherwise.
func runPipeline(fn func(ctx context.Context, pipeline *agent.Pipeline, provider agent.DataProvider) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var provider agent.DataProvider
	if cfg.DatabaseURL != "" {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		provider = postgres.New(pool.Pool)
	} else {
		provider = memory.NewWithDataset()
	}

	pipeline := agent.New(provider, cfg.Pipeline, logger)
	return fn(ctx, pipeline, provider)
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return at, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
