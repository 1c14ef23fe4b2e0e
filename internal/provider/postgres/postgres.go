// Package postgres implements the pipeline's DataProvider over a pgx
// connection pool. Read statements are prepared at connection time (see
// internal/db); every call carries a timeout so a slow database surfaces as
// a retryable provider-unavailable failure instead of stalling a run.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
)

const defaultTimeout = 5 * time.Second

// Provider implements agent.DataProvider backed by Postgres.
type Provider struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// New creates a Provider over an established pool.
func New(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool, timeout: defaultTimeout}
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

// unavailable wraps a database failure as a retryable provider error.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, agent.ErrProviderUnavailable, err)
}

// --------------------------------------------------------------------------
// agent.DataProvider
// --------------------------------------------------------------------------

func (p *Provider) GetUser(ctx context.Context, id string) (*agent.UserProfile, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var (
		u         agent.UserProfile
		dietPref  string
		mealTimes []byte
	)
	err := p.pool.QueryRow(ctx, "get_user", id).Scan(
		&u.ID, &dietPref, &u.Allergies, &u.Age, &u.Gender, &u.City, &u.Timezone,
		&mealTimes, &u.Conditions,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, agent.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get user", err)
	}
	u.DietPref = agent.DietPreference(dietPref)
	if err := json.Unmarshal(mealTimes, &u.UsualMealTimes); err != nil {
		return nil, fmt.Errorf("decode meal times for %s: %w", id, err)
	}
	return &u, nil
}

func (p *Provider) ListFoods(ctx context.Context) ([]agent.FoodItem, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "list_foods")
	if err != nil {
		return nil, unavailable("list foods", err)
	}
	defer rows.Close()

	var out []agent.FoodItem
	for rows.Next() {
		var (
			f         agent.FoodItem
			nutrients []byte
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.IsVeg, &f.Ingredients, &f.Tags, &nutrients); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		if err := json.Unmarshal(nutrients, &f.Nutrients); err != nil {
			return nil, fmt.Errorf("decode nutrients for %s: %w", f.ID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Provider) GetConditionWeights(ctx context.Context, condition string) ([]agent.ConditionNutrientWeight, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "condition_weights", condition)
	if err != nil {
		return nil, unavailable("condition weights", err)
	}
	defer rows.Close()

	var out []agent.ConditionNutrientWeight
	for rows.Next() {
		var w agent.ConditionNutrientWeight
		if err := rows.Scan(&w.Condition, &w.Nutrient, &w.Weight, &w.Reference); err != nil {
			return nil, fmt.Errorf("scan condition weight: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (p *Provider) ListConditions(ctx context.Context) ([]string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "list_conditions")
	if err != nil {
		return nil, unavailable("list conditions", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Provider) GetActivity(ctx context.Context, userID string, since time.Time) ([]agent.ActivityEvent, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "activity_since", userID, since)
	if err != nil {
		return nil, unavailable("get activity", err)
	}
	defer rows.Close()

	var out []agent.ActivityEvent
	for rows.Next() {
		var (
			ev    agent.ActivityEvent
			event string
		)
		if err := rows.Scan(&ev.UserID, &ev.Timestamp, &event, &ev.FoodID, &ev.DurationMin); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		ev.Event = agent.ActivityEventType(event)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (p *Provider) GetNotificationLog(ctx context.Context, userID string, since time.Time) ([]agent.NotificationLogEntry, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "notification_log_since", userID, since)
	if err != nil {
		return nil, unavailable("get notification log", err)
	}
	defer rows.Close()

	var out []agent.NotificationLogEntry
	for rows.Next() {
		var (
			entry   agent.NotificationLogEntry
			trigger string
		)
		if err := rows.Scan(&entry.UserID, &entry.SentAt, &trigger, &entry.FoodID, &entry.Condition); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.Trigger = agent.TriggerType(trigger)
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (p *Provider) AppendNotificationLog(ctx context.Context, entry agent.NotificationLogEntry) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO notification_log (user_id, sent_at, trigger, food_id, condition)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
		entry.UserID, entry.SentAt, string(entry.Trigger), entry.FoodID, entry.Condition,
	)
	if err != nil {
		return unavailable("append notification log", err)
	}
	return nil
}

func (p *Provider) Availability(ctx context.Context, foodID, locality string) (agent.AvailabilityLevel, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var level string
	err := p.pool.QueryRow(ctx, "food_availability", foodID, locality).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row means no override: fully available.
		return agent.AvailabilityFull, nil
	}
	if err != nil {
		return "", unavailable("availability", err)
	}
	return agent.AvailabilityLevel(level), nil
}

func (p *Provider) ListTemplates(ctx context.Context) ([]agent.MessageTemplate, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "list_templates")
	if err != nil {
		return nil, unavailable("list templates", err)
	}
	defer rows.Close()

	var out []agent.MessageTemplate
	for rows.Next() {
		var t agent.MessageTemplate
		if err := rows.Scan(&t.ID, &t.Text, &t.Style, &t.Lang); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Provider) ListFacts(ctx context.Context) ([]agent.Fact, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "list_facts")
	if err != nil {
		return nil, unavailable("list facts", err)
	}
	defer rows.Close()

	var out []agent.Fact
	for rows.Next() {
		var f agent.Fact
		if err := rows.Scan(&f.Key, &f.Text); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Provider) ListUserIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, "list_user_ids")
	if err != nil {
		return nil, unavailable("list user ids", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
