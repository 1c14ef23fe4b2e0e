// Package agent implements the nutrition notification decision pipeline:
// trigger detection, safety-filtered candidate generation, multi-factor
// ranking, pacing enforcement, and template-based message composition.
//
// Pipeline: resolve triggers → generate candidates → rank → guard → compose.
// The notification log append on emission is the only mutation; everything
// else reads a snapshot taken at run start.
package agent

import (
	"context"
	"errors"
	"time"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrNotFound indicates a user or food id unknown to the provider.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable indicates the data provider could not be
	// reached. Retryable by the caller; the pipeline never retries and
	// never partially emits.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// --------------------------------------------------------------------------
// Triggers
// --------------------------------------------------------------------------

// TriggerType identifies why a notification opportunity exists.
type TriggerType string

const (
	TriggerPreMeal            TriggerType = "pre_meal"
	TriggerPostActivity       TriggerType = "post_activity"
	TriggerConditionAwareness TriggerType = "condition_awareness"
	TriggerSocialViral        TriggerType = "social_viral"
)

// Trigger is an eligible trigger with its qualifying context.
type Trigger struct {
	Type TriggerType `json:"type"`

	// Meal is set for pre_meal triggers ("breakfast", "lunch", ...).
	Meal string `json:"meal,omitempty"`

	// Condition is set for condition_awareness triggers.
	Condition string `json:"condition,omitempty"`

	// ActivityAt is set for post_activity triggers: the exercise event
	// being replenished.
	ActivityAt time.Time `json:"activity_at,omitempty"`
}

// Key returns a stable identifier such as "pre_meal:breakfast" or
// "condition_awareness:Gut health".
func (t Trigger) Key() string {
	switch t.Type {
	case TriggerPreMeal:
		return string(t.Type) + ":" + t.Meal
	case TriggerConditionAwareness:
		return string(t.Type) + ":" + t.Condition
	default:
		return string(t.Type)
	}
}

// --------------------------------------------------------------------------
// Reference data
// --------------------------------------------------------------------------

// DietPreference constrains which foods a user may be offered.
type DietPreference string

const (
	DietVeg    DietPreference = "veg"
	DietNonVeg DietPreference = "nonveg"
	DietEgg    DietPreference = "egg"
)

// UserProfile is the read-only user record consumed by one pipeline run.
// The allergen set and diet preference are immutable for the run's duration.
type UserProfile struct {
	ID             string            `json:"user_id"`
	DietPref       DietPreference    `json:"diet_pref"`
	Allergies      []string          `json:"allergies"`
	Age            int               `json:"age"`
	Gender         string            `json:"gender"`
	City           string            `json:"city"`
	Timezone       string            `json:"tz"`
	UsualMealTimes map[string]string `json:"usual_meal_times"` // meal name → "HH:MM" local
	Conditions     []string          `json:"conditions"`
}

// Location resolves the user's timezone, falling back to UTC.
func (u *UserProfile) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AvailabilityLevel is the locality availability signal for a food.
type AvailabilityLevel string

const (
	AvailabilityNone    AvailabilityLevel = "none"
	AvailabilityLimited AvailabilityLevel = "limited"
	AvailabilityFull    AvailabilityLevel = "full"
)

// FoodItem is a catalog entry. Ingredients and tags together form the
// allergen-matching surface; Nutrients maps nutrient name → quantity.
type FoodItem struct {
	ID          string             `json:"food_id"`
	Name        string             `json:"name"`
	IsVeg       bool               `json:"is_veg"`
	Ingredients []string           `json:"ingredients"`
	Tags        []string           `json:"tags"`
	Nutrients   map[string]float64 `json:"nutrients"`
}

// ConditionNutrientWeight maps (condition, nutrient) to an importance weight
// in [0,1]. Nutrient is unique within a condition.
type ConditionNutrientWeight struct {
	Condition string  `json:"condition"`
	Nutrient  string  `json:"nutrient"`
	Weight    float64 `json:"weight"`
	Reference string  `json:"references,omitempty"`
}

// MessageTemplate is a parametrized notification text with named slots:
// {food}, {benefit}, {condition}, {why_now}, {cta}.
type MessageTemplate struct {
	ID    string `json:"template_id"`
	Text  string `json:"text"`
	Style string `json:"style"`
	Lang  string `json:"lang"`
}

// Fact is a short science-backed statement keyed for why-now selection.
type Fact struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// --------------------------------------------------------------------------
// Histories
// --------------------------------------------------------------------------

// ActivityEventType distinguishes history event kinds.
type ActivityEventType string

const (
	EventConsumed  ActivityEventType = "consumed"
	EventWorkedOut ActivityEventType = "worked_out"
)

// ActivityEvent is one row of a user's append-only activity history.
type ActivityEvent struct {
	UserID      string            `json:"user_id"`
	Timestamp   time.Time         `json:"ts"`
	Event       ActivityEventType `json:"event"`
	FoodID      string            `json:"food_id,omitempty"`
	DurationMin int               `json:"duration_min,omitempty"`
}

// NotificationLogEntry records one sent notification. Append-only; read to
// compute rate limits, novelty, and trigger re-fire suppression.
type NotificationLogEntry struct {
	UserID    string      `json:"user_id"`
	SentAt    time.Time   `json:"sent_at"`
	Trigger   TriggerType `json:"trigger"`
	FoodID    string      `json:"food_id"`
	Condition string      `json:"condition,omitempty"` // set for condition_awareness
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// ScoreBreakdown carries the individual scoring components for diagnostics.
type ScoreBreakdown struct {
	CondMatch         float64 `json:"cond_match"`
	NutrientGapFit    float64 `json:"nutrient_gap_fit"`
	AvailabilityBoost float64 `json:"availability_boost"`
	RecencyNovelty    float64 `json:"recency_novelty"`
	AllergyRisk       float64 `json:"allergy_risk"`
}

// CallToAction is the fixed non-prescriptive action attached to a message.
type CallToAction struct {
	Label    string `json:"label"`
	DeepLink string `json:"deep_link"`
}

// Notification is one composed, emitted notification.
type Notification struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Trigger      Trigger        `json:"trigger"`
	FoodID       string         `json:"food_id"`
	FoodName     string         `json:"food_name"`
	Message      string         `json:"message"`
	CTA          CallToAction   `json:"cta"`
	Score        float64        `json:"score"`
	Breakdown    ScoreBreakdown `json:"scores_breakdown"`
	Condition    string         `json:"condition,omitempty"`
	KeyNutrients []string       `json:"key_nutrients,omitempty"`
	WhyNow       string         `json:"why_now"`
	SentAt       time.Time      `json:"sent_at"`
}

// Outcome classifies how a pipeline run ended. All values are normal
// results, never errors; callers can distinguish "nothing to say" from
// "something broke".
type Outcome string

const (
	OutcomeEmitted           Outcome = "emitted"
	OutcomeNoEligibleTrigger Outcome = "no_eligible_trigger"
	OutcomeNoSafeCandidates  Outcome = "no_safe_candidates"
	OutcomePacingBlocked     Outcome = "pacing_blocked"
)

// Result is the full output of one pipeline run.
type Result struct {
	UserID        string         `json:"user_id"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Outcome       Outcome        `json:"outcome"`
	GuardState    GuardState     `json:"guard_state"`
	Notifications []Notification `json:"notifications"`
}

// SafetyReport is the output of direct constraint inspection, independent of
// ranking and pacing.
type SafetyReport struct {
	UserID          string `json:"user_id"`
	FoodID          string `json:"food_id"`
	ViolatesDiet    bool   `json:"violates_diet"`
	ViolatesAllergy bool   `json:"violates_allergy"`
}

// --------------------------------------------------------------------------
// Data provider
// --------------------------------------------------------------------------

// DataProvider is the read-only reference data and history access the
// pipeline consumes. AppendNotificationLog is the sole writer. Network-bound
// implementations must wrap calls with a timeout and surface failures as
// ErrProviderUnavailable.
type DataProvider interface {
	GetUser(ctx context.Context, id string) (*UserProfile, error)
	ListFoods(ctx context.Context) ([]FoodItem, error)
	GetConditionWeights(ctx context.Context, condition string) ([]ConditionNutrientWeight, error)
	ListConditions(ctx context.Context) ([]string, error)
	GetActivity(ctx context.Context, userID string, since time.Time) ([]ActivityEvent, error)
	GetNotificationLog(ctx context.Context, userID string, since time.Time) ([]NotificationLogEntry, error)
	AppendNotificationLog(ctx context.Context, entry NotificationLogEntry) error
	Availability(ctx context.Context, foodID, locality string) (AvailabilityLevel, error)
	ListTemplates(ctx context.Context) ([]MessageTemplate, error)
	ListFacts(ctx context.Context) ([]Fact, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}
