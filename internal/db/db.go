// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Migrate applies the embedded schema. Idempotent; every statement uses
// IF NOT EXISTS.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// registerPreparedStatements registers all statements the pipeline's
// Postgres provider uses. Prepared statements eliminate parse overhead on
// every pipeline run.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Reference data
		"get_user": `SELECT id, diet_pref, allergies, age, gender, city, tz,
			usual_meal_times, conditions FROM users WHERE id = $1`,
		"list_user_ids": "SELECT id FROM users ORDER BY id",
		"list_foods": `SELECT id, name, is_veg, ingredients, tags, nutrients
			FROM foods ORDER BY id`,
		"condition_weights": `SELECT condition, nutrient, weight, COALESCE(reference, '')
			FROM condition_nutrients WHERE condition = $1 ORDER BY weight DESC`,
		"list_conditions": "SELECT DISTINCT condition FROM condition_nutrients ORDER BY condition",
		"list_templates":  "SELECT id, text, style, lang FROM message_templates ORDER BY id",
		"list_facts":      "SELECT key, text FROM facts ORDER BY key",

		// Histories
		"activity_since": `SELECT user_id, ts, event, COALESCE(food_id, ''), COALESCE(duration_min, 0)
			FROM activity_log WHERE user_id = $1 AND ts >= $2 ORDER BY ts`,
		"notification_log_since": `SELECT user_id, sent_at, trigger, food_id, COALESCE(condition, '')
			FROM notification_log WHERE user_id = $1 AND sent_at >= $2 ORDER BY sent_at`,

		// Availability
		"food_availability": `SELECT level FROM food_availability
			WHERE food_id = $1 AND locality = $2`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
