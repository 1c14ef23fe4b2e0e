package agent

import (
	"context"
	"fmt"
	"time"
)

// snapshot is the immutable view of provider state one pipeline run operates
// on. Taken once at run start so guard checks and scoring cannot observe
// writes from a concurrent run.
type snapshot struct {
	user  *UserProfile
	now   time.Time // UTC
	local time.Time // user's timezone

	foods     []FoodItem
	foodsByID map[string]FoodItem

	// condWeights holds weight rows per active condition.
	condWeights map[string][]ConditionNutrientWeight

	activity []ActivityEvent
	log      []NotificationLogEntry

	avail     map[string]AvailabilityLevel
	templates map[string]MessageTemplate
	facts     map[string]string
}

// buildSnapshot reads everything the run needs from the provider. Any read
// failure aborts the run before a single side effect.
func buildSnapshot(ctx context.Context, p DataProvider, userID string, now time.Time, cfg Config) (*snapshot, error) {
	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	now = now.UTC()
	s := &snapshot{
		user:  user,
		now:   now,
		local: now.In(user.Location()),
	}

	if s.foods, err = p.ListFoods(ctx); err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	s.foodsByID = make(map[string]FoodItem, len(s.foods))
	for _, f := range s.foods {
		s.foodsByID[f.ID] = f
	}

	s.condWeights = make(map[string][]ConditionNutrientWeight, len(user.Conditions))
	for _, cond := range user.Conditions {
		rows, err := p.GetConditionWeights(ctx, cond)
		if err != nil {
			return nil, fmt.Errorf("condition weights %q: %w", cond, err)
		}
		s.condWeights[cond] = rows
	}

	// One trailing read covers every window the stages consult.
	lookback := maxDays(cfg.NoveltyWindowDays, cfg.GapWindowDays, cfg.ConditionWindowDays)
	since := now.AddDate(0, 0, -lookback)

	if s.activity, err = p.GetActivity(ctx, userID, since); err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if s.log, err = p.GetNotificationLog(ctx, userID, since); err != nil {
		return nil, fmt.Errorf("get notification log: %w", err)
	}

	s.avail = make(map[string]AvailabilityLevel, len(s.foods))
	for _, f := range s.foods {
		level, err := p.Availability(ctx, f.ID, user.City)
		if err != nil {
			return nil, fmt.Errorf("availability %s: %w", f.ID, err)
		}
		s.avail[f.ID] = level
	}

	templates, err := p.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	s.templates = make(map[string]MessageTemplate, len(templates))
	for _, t := range templates {
		s.templates[t.ID] = t
	}

	facts, err := p.ListFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	s.facts = make(map[string]string, len(facts))
	for _, f := range facts {
		s.facts[f.Key] = f.Text
	}

	return s, nil
}

// consumedNutrients sums nutrient intake from consumption events since the
// cutoff, resolved through the food catalog.
func (s *snapshot) consumedNutrients(since time.Time) map[string]float64 {
	consumed := make(map[string]float64)
	for _, ev := range s.activity {
		if ev.Event != EventConsumed || ev.Timestamp.Before(since) {
			continue
		}
		food, ok := s.foodsByID[ev.FoodID]
		if !ok {
			continue
		}
		for nutrient, amount := range food.Nutrients {
			consumed[nutrient] += amount
		}
	}
	return consumed
}

// lastShown returns the most recent time a food was recommended to the user,
// or a zero time if never.
func (s *snapshot) lastShown(foodID string) time.Time {
	var last time.Time
	for _, entry := range s.log {
		if entry.FoodID == foodID && entry.SentAt.After(last) {
			last = entry.SentAt
		}
	}
	return last
}

func maxDays(vals ...int) int {
	out := 0
	for _, v := range vals {
		if v > out {
			out = v
		}
	}
	return out
}
