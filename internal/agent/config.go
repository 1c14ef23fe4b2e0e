package agent

import (
	"fmt"
	"time"
)

// Config holds the pipeline's tunable weights and thresholds. Instances are
// validated once at load time and treated as immutable afterwards.
type Config struct {
	// Scoring weights. W1..W4 are non-negative contribution weights;
	// W5 is the allergy-risk penalty coefficient. Post-filter the risk
	// term must always be zero, so W5 never shapes an emitted ranking;
	// any nonzero risk drops the candidate outright.
	W1 float64 // CondMatch
	W2 float64 // NutrientGapFit
	W3 float64 // AvailabilityBoost
	W4 float64 // RecencyNovelty
	W5 float64 // AllergyRisk penalty

	// TopN is the maximum candidates handed to the composer per trigger.
	TopN int

	// MaxPerDay caps notifications per user per local day.
	MaxPerDay int

	// MinGap is the minimum spacing between notifications to one user.
	MinGap time.Duration

	// QuietStartHour..QuietEndHour is the local no-send window,
	// [QuietStartHour, 24) ∪ [0, QuietEndHour).
	QuietStartHour int
	QuietEndHour   int

	// NoveltyWindowDays is the trailing window for recency/novelty decay.
	NoveltyWindowDays int

	// GapWindowDays is the trailing window for nutrient-gap computation.
	GapWindowDays int

	// PreMealLead is how long before a usual meal time the pre-meal
	// trigger window opens.
	PreMealLead time.Duration

	// PostActivityWindow is the trailing window for exercise replenishment.
	PostActivityWindow time.Duration

	// ConditionWindowDays is the rolling window for condition-awareness
	// gap detection and re-fire suppression.
	ConditionWindowDays int

	// PeakStartHour..PeakEndHour is the local social-viral window.
	PeakStartHour int
	PeakEndHour   int

	// LimitedAvailabilityBoost is the residual availability signal for
	// foods marked "limited" (full availability scores 1.0).
	LimitedAvailabilityBoost float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		W1:                       0.4,
		W2:                       0.3,
		W3:                       0.2,
		W4:                       0.1,
		W5:                       0.8,
		TopN:                     3,
		MaxPerDay:                2,
		MinGap:                   3 * time.Hour,
		QuietStartHour:           22,
		QuietEndHour:             7,
		NoveltyWindowDays:        7,
		GapWindowDays:            3,
		PreMealLead:              30 * time.Minute,
		PostActivityWindow:       2 * time.Hour,
		ConditionWindowDays:      7,
		PeakStartHour:            17,
		PeakEndHour:              20,
		LimitedAvailabilityBoost: 0.5,
	}
}

// Validate rejects configurations outside sane domains. Called at
// configuration-load time, before any user run.
func (c Config) Validate() error {
	for name, w := range map[string]float64{
		"w1": c.W1, "w2": c.W2, "w3": c.W3, "w4": c.W4, "w5": c.W5,
	} {
		if w < 0 {
			return fmt.Errorf("invalid configuration: weight %s must be non-negative, got %v", name, w)
		}
	}
	if c.TopN < 1 {
		return fmt.Errorf("invalid configuration: top_n must be >= 1, got %d", c.TopN)
	}
	if c.MaxPerDay < 1 {
		return fmt.Errorf("invalid configuration: max_per_day must be >= 1, got %d", c.MaxPerDay)
	}
	if c.MinGap < 0 {
		return fmt.Errorf("invalid configuration: min_gap must be non-negative, got %v", c.MinGap)
	}
	if c.QuietStartHour < 0 || c.QuietStartHour > 23 || c.QuietEndHour < 0 || c.QuietEndHour > 23 {
		return fmt.Errorf("invalid configuration: quiet hours must be within 0..23, got %d..%d",
			c.QuietStartHour, c.QuietEndHour)
	}
	if c.PeakStartHour < 0 || c.PeakStartHour > 23 || c.PeakEndHour < 0 || c.PeakEndHour > 23 {
		return fmt.Errorf("invalid configuration: peak hours must be within 0..23, got %d..%d",
			c.PeakStartHour, c.PeakEndHour)
	}
	if c.NoveltyWindowDays < 1 {
		return fmt.Errorf("invalid configuration: novelty_window_days must be >= 1, got %d", c.NoveltyWindowDays)
	}
	if c.GapWindowDays < 1 {
		return fmt.Errorf("invalid configuration: gap_window_days must be >= 1, got %d", c.GapWindowDays)
	}
	if c.ConditionWindowDays < 1 {
		return fmt.Errorf("invalid configuration: condition_window_days must be >= 1, got %d", c.ConditionWindowDays)
	}
	if c.PreMealLead <= 0 {
		return fmt.Errorf("invalid configuration: pre_meal_lead must be positive, got %v", c.PreMealLead)
	}
	if c.PostActivityWindow <= 0 {
		return fmt.Errorf("invalid configuration: post_activity_window must be positive, got %v", c.PostActivityWindow)
	}
	if c.LimitedAvailabilityBoost < 0 || c.LimitedAvailabilityBoost > 1 {
		return fmt.Errorf("invalid configuration: limited_availability_boost must be in [0,1], got %v",
			c.LimitedAvailabilityBoost)
	}
	return nil
}
