package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
)

// Seed upserts reference data. Used by `nutriagent seed` to load the bundled
// dataset; safe to re-run.
func (p *Provider) Seed(
	ctx context.Context,
	users []agent.UserProfile,
	foods []agent.FoodItem,
	weights []agent.ConditionNutrientWeight,
	templates []agent.MessageTemplate,
	facts []agent.Fact,
) error {
	for _, u := range users {
		mealTimes, err := json.Marshal(u.UsualMealTimes)
		if err != nil {
			return fmt.Errorf("encode meal times for %s: %w", u.ID, err)
		}
		_, err = p.pool.Exec(ctx, `
			INSERT INTO users (id, diet_pref, allergies, age, gender, city, tz, usual_meal_times, conditions)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO UPDATE SET
				diet_pref = EXCLUDED.diet_pref, allergies = EXCLUDED.allergies,
				age = EXCLUDED.age, gender = EXCLUDED.gender, city = EXCLUDED.city,
				tz = EXCLUDED.tz, usual_meal_times = EXCLUDED.usual_meal_times,
				conditions = EXCLUDED.conditions`,
			u.ID, string(u.DietPref), u.Allergies, u.Age, u.Gender, u.City, u.Timezone,
			mealTimes, u.Conditions,
		)
		if err != nil {
			return fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
	}

	for _, f := range foods {
		nutrients, err := json.Marshal(f.Nutrients)
		if err != nil {
			return fmt.Errorf("encode nutrients for %s: %w", f.ID, err)
		}
		_, err = p.pool.Exec(ctx, `
			INSERT INTO foods (id, name, is_veg, ingredients, tags, nutrients)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, is_veg = EXCLUDED.is_veg,
				ingredients = EXCLUDED.ingredients, tags = EXCLUDED.tags,
				nutrients = EXCLUDED.nutrients`,
			f.ID, f.Name, f.IsVeg, f.Ingredients, f.Tags, nutrients,
		)
		if err != nil {
			return fmt.Errorf("upsert food %s: %w", f.ID, err)
		}
	}

	for _, w := range weights {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO condition_nutrients (condition, nutrient, weight, reference)
			VALUES ($1,$2,$3,NULLIF($4, ''))
			ON CONFLICT (condition, nutrient) DO UPDATE SET
				weight = EXCLUDED.weight, reference = EXCLUDED.reference`,
			w.Condition, w.Nutrient, w.Weight, w.Reference,
		)
		if err != nil {
			return fmt.Errorf("upsert weight %s/%s: %w", w.Condition, w.Nutrient, err)
		}
	}

	for _, t := range templates {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO message_templates (id, text, style, lang)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE SET
				text = EXCLUDED.text, style = EXCLUDED.style, lang = EXCLUDED.lang`,
			t.ID, t.Text, t.Style, t.Lang,
		)
		if err != nil {
			return fmt.Errorf("upsert template %s: %w", t.ID, err)
		}
	}

	for _, f := range facts {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO facts (key, text) VALUES ($1,$2)
			ON CONFLICT (key) DO UPDATE SET text = EXCLUDED.text`,
			f.Key, f.Text,
		)
		if err != nil {
			return fmt.Errorf("upsert fact %s: %w", f.Key, err)
		}
	}
	return nil
}

// AppendActivity appends one activity event. Used by seeding and demos;
// the pipeline itself never writes activity.
func (p *Provider) AppendActivity(ctx context.Context, ev agent.ActivityEvent) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO activity_log (user_id, ts, event, food_id, duration_min)
		VALUES ($1,$2,$3,NULLIF($4, ''),$5)`,
		ev.UserID, ev.Timestamp, string(ev.Event), ev.FoodID, ev.DurationMin,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}
