package agent

import (
	"time"
)

// resolveTriggers returns every currently eligible trigger, in a fixed order
// (pre-meal, post-activity, condition awareness, social viral) so identical
// inputs always yield identical downstream processing.
func resolveTriggers(s *snapshot, cfg Config) []Trigger {
	var out []Trigger
	if t, ok := preMealTrigger(s, cfg); ok {
		out = append(out, t)
	}
	if t, ok := postActivityTrigger(s, cfg); ok {
		out = append(out, t)
	}
	out = append(out, conditionTriggers(s, cfg)...)
	if t, ok := socialViralTrigger(s, cfg); ok {
		out = append(out, t)
	}
	return out
}

// preMealTrigger fires when local time falls inside the lead window before a
// usual meal time, [meal − lead, meal). When windows overlap, the nearest
// upcoming meal wins.
func preMealTrigger(s *snapshot, cfg Config) (Trigger, bool) {
	var (
		bestMeal string
		bestWait time.Duration = -1
	)
	for meal, hhmm := range s.user.UsualMealTimes {
		at, err := time.ParseInLocation("15:04", hhmm, s.local.Location())
		if err != nil {
			continue
		}
		mealTime := time.Date(s.local.Year(), s.local.Month(), s.local.Day(),
			at.Hour(), at.Minute(), 0, 0, s.local.Location())

		wait := mealTime.Sub(s.local)
		if wait <= 0 || wait > cfg.PreMealLead {
			continue
		}
		if bestWait < 0 || wait < bestWait {
			bestWait = wait
			bestMeal = meal
		}
	}
	if bestMeal == "" {
		return Trigger{}, false
	}
	return Trigger{Type: TriggerPreMeal, Meal: bestMeal}, true
}

// postActivityTrigger fires when an exercise event exists inside the
// trailing replenishment window and no post-activity notification has been
// sent since that event.
func postActivityTrigger(s *snapshot, cfg Config) (Trigger, bool) {
	cutoff := s.now.Add(-cfg.PostActivityWindow)

	var latest time.Time
	for _, ev := range s.activity {
		if ev.Event != EventWorkedOut || ev.Timestamp.Before(cutoff) || ev.Timestamp.After(s.now) {
			continue
		}
		if ev.Timestamp.After(latest) {
			latest = ev.Timestamp
		}
	}
	if latest.IsZero() {
		return Trigger{}, false
	}

	// Already replenished for this workout.
	for _, entry := range s.log {
		if entry.Trigger == TriggerPostActivity && !entry.SentAt.Before(latest) {
			return Trigger{}, false
		}
	}
	return Trigger{Type: TriggerPostActivity, ActivityAt: latest}, true
}

// conditionTriggers fires once per active condition whose top-weighted
// nutrients saw no consumption in the rolling window. A condition that
// already produced an awareness notification inside the window is
// suppressed rather than re-fired daily for the same gap.
func conditionTriggers(s *snapshot, cfg Config) []Trigger {
	since := s.now.AddDate(0, 0, -cfg.ConditionWindowDays)
	consumed := s.consumedNutrients(since)

	var out []Trigger
	for _, cond := range s.user.Conditions {
		if conditionRemindedSince(s.log, cond, since) {
			continue
		}
		if nutrientGapExists(s.condWeights[cond], consumed) {
			out = append(out, Trigger{Type: TriggerConditionAwareness, Condition: cond})
		}
	}
	return out
}

func conditionRemindedSince(log []NotificationLogEntry, condition string, since time.Time) bool {
	for _, entry := range log {
		if entry.Trigger == TriggerConditionAwareness &&
			entry.Condition == condition &&
			!entry.SentAt.Before(since) {
			return true
		}
	}
	return false
}

// nutrientGapExists reports whether none of the condition's weighted
// nutrients appear in the consumed set.
func nutrientGapExists(rows []ConditionNutrientWeight, consumed map[string]float64) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if consumed[row.Nutrient] > 0 {
			return false
		}
	}
	return true
}

// socialViralTrigger fires deterministically whenever local time-of-day is
// inside the peak window.
func socialViralTrigger(s *snapshot, cfg Config) (Trigger, bool) {
	h := s.local.Hour()
	if h >= cfg.PeakStartHour && h < cfg.PeakEndHour {
		return Trigger{Type: TriggerSocialViral}, true
	}
	return Trigger{}, false
}
