package agent

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestRenderTemplateWithinLimit(t *testing.T) {
	msg := renderTemplate("{food} now for {benefit} — supports {condition}. {cta}", slotValues{
		food:      "Avocado",
		benefit:   "Vitamin E boost",
		condition: "glowing skin",
		whyNow:    "Skin cell turnover peaks overnight",
		cta:       "Try avocado",
	})
	if len(msg) > maxMessageLen {
		t.Fatalf("message length %d exceeds %d: %q", len(msg), maxMessageLen, msg)
	}
	if !strings.Contains(msg, "Avocado") {
		t.Errorf("message lost food name: %q", msg)
	}
}

func TestRenderTemplateTrimsWhyNowFirst(t *testing.T) {
	longFact := strings.Repeat("nutrition timing matters a great deal ", 6)
	v := slotValues{
		food:      "Spinach Salad",
		benefit:   "iron + Vitamin C boost",
		condition: "energy boost",
		whyNow:    longFact,
		cta:       "Try spinach salad",
	}
	msg := renderTemplate("{why_now} — {food} delivers {benefit} for {condition}. {cta}", v)

	if len(msg) > maxMessageLen {
		t.Fatalf("message length %d exceeds %d", len(msg), maxMessageLen)
	}
	// The fact gets cut; the food name and call to action survive.
	if !strings.Contains(msg, "Spinach Salad") {
		t.Errorf("food name trimmed away: %q", msg)
	}
	if !strings.Contains(msg, "Try spinach salad") {
		t.Errorf("call to action trimmed away: %q", msg)
	}
	if strings.Contains(msg, longFact) {
		t.Errorf("why-now fact not trimmed: %q", msg)
	}
}

func TestRenderTemplateTruncatesOnRuneBoundaries(t *testing.T) {
	t.Run("trimmed clause with multibyte runes", func(t *testing.T) {
		// Em-dashes land around the byte index the clause gets cut at.
		clause := strings.Repeat("overnight repair — antioxidants help — ", 8)
		msg := renderTemplate("{why_now} {cta}", slotValues{
			whyNow: clause,
			cta:    "Try avocado",
		})
		if len(msg) > maxMessageLen {
			t.Fatalf("message length %d exceeds %d", len(msg), maxMessageLen)
		}
		if !utf8.ValidString(msg) {
			t.Fatalf("message is not valid UTF-8: %q", msg)
		}
		if !strings.Contains(msg, "Try avocado") {
			t.Errorf("call to action trimmed away: %q", msg)
		}
	})

	t.Run("hard cut with multibyte runes", func(t *testing.T) {
		// The food slot is never trimmed, forcing the last-resort cut.
		msg := renderTemplate("{food} {cta}", slotValues{
			food: strings.Repeat("Açaí—", 60),
			cta:  "Try it",
		})
		if len(msg) > maxMessageLen {
			t.Fatalf("message length %d exceeds %d", len(msg), maxMessageLen)
		}
		if !utf8.ValidString(msg) {
			t.Fatalf("message is not valid UTF-8: %q", msg)
		}
	})
}

func TestTemplateForTrigger(t *testing.T) {
	tests := []struct {
		trigger Trigger
		want    string
	}{
		{Trigger{Type: TriggerPreMeal, Meal: "breakfast"}, "pre_meal_basic"},
		{Trigger{Type: TriggerPostActivity}, "post_workout"},
		{Trigger{Type: TriggerConditionAwareness, Condition: "Gut health"}, "condition_reminder"},
		{Trigger{Type: TriggerSocialViral}, "science_fact"},
	}
	for _, tt := range tests {
		if got := templateForTrigger(tt.trigger); got != tt.want {
			t.Errorf("templateForTrigger(%s) = %q, want %q", tt.trigger.Type, got, tt.want)
		}
	}
}

func TestWhyNowFact(t *testing.T) {
	facts := map[string]string{
		"morning_boost": "Skin cell turnover peaks overnight",
		"pre_meal":      "Pre-meal protein moderates glycemic response",
		"post_activity": "Glycogen resynthesis is highest within 2 hours post-workout",
	}

	if got := whyNowFact(Trigger{Type: TriggerPreMeal, Meal: "breakfast"}, facts); got != facts["morning_boost"] {
		t.Errorf("breakfast fact = %q", got)
	}
	if got := whyNowFact(Trigger{Type: TriggerPreMeal, Meal: "dinner"}, facts); got != facts["pre_meal"] {
		t.Errorf("dinner fact = %q", got)
	}
	if got := whyNowFact(Trigger{Type: TriggerPostActivity}, facts); got != facts["post_activity"] {
		t.Errorf("post-activity fact = %q", got)
	}
	if got := whyNowFact(Trigger{Type: TriggerSocialViral}, facts); got != fallbackFact {
		t.Errorf("missing fact should fall back, got %q", got)
	}
}

func TestPrimaryConditionIsDeterministic(t *testing.T) {
	weights := map[string][]ConditionNutrientWeight{
		"Glowing skin": {
			{Condition: "Glowing skin", Nutrient: "vitamin_e", Weight: 0.9},
			{Condition: "Glowing skin", Nutrient: "zinc", Weight: 0.8},
		},
		"Gut health": {
			{Condition: "Gut health", Nutrient: "fiber", Weight: 0.9},
		},
	}
	food := &FoodItem{ID: "f001", Name: "Soaked Almonds",
		Nutrients: map[string]float64{"vitamin_e": 7.3, "zinc": 0.9, "fiber": 3.5}}

	first, nutrients := primaryCondition(food, weights)
	for i := 0; i < 10; i++ {
		cond, nuts := primaryCondition(food, weights)
		if cond != first {
			t.Fatalf("condition flapped: %q vs %q", cond, first)
		}
		if len(nuts) != len(nutrients) {
			t.Fatalf("nutrients flapped: %v vs %v", nuts, nutrients)
		}
	}
	// vitamin_e contributes 0.9*7.3, dwarfing fiber's 0.9*3.5.
	if first != "Glowing skin" {
		t.Errorf("primary condition = %q, want Glowing skin", first)
	}
	if len(nutrients) == 0 || nutrients[0] != "vitamin_e" {
		t.Errorf("key nutrients = %v, want vitamin_e first", nutrients)
	}
}

func TestBenefitText(t *testing.T) {
	tests := []struct {
		name      string
		nutrients []string
		condition string
		want      string
	}{
		{"no nutrients", nil, "Gut health", "supports gut health"},
		{"one nutrient", []string{"vitamin_e"}, "Glowing skin", "Vitamin E boost"},
		{"two nutrients", []string{"vitamin_e", "zinc"}, "Glowing skin", "Vitamin E + Zinc boost"},
		{"caps at two", []string{"vitamin_e", "zinc", "vitamin_c"}, "Glowing skin", "Vitamin E + Zinc boost"},
		{"unknown nutrient passes through", []string{"choline"}, "Hair fall", "choline boost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := benefitText(tt.nutrients, tt.condition); got != tt.want {
				t.Errorf("benefitText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeNotifications(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	user := utcUser(nil, "Glowing skin")
	s := testSnapshot(user, now)
	s.condWeights["Glowing skin"] = []ConditionNutrientWeight{
		{Condition: "Glowing skin", Nutrient: "vitamin_e", Weight: 0.9},
	}
	s.templates["pre_meal_basic"] = MessageTemplate{
		ID: "pre_meal_basic", Text: "{food} now for {benefit} — supports {condition}. {cta}",
	}
	s.facts["pre_meal"] = "Pre-meal protein moderates glycemic response"

	ranked := []ScoredCandidate{
		{Food: FoodItem{ID: "f008", Name: "Avocado", Nutrients: map[string]float64{"vitamin_e": 2.1}}, Score: 0.7},
		{Food: FoodItem{ID: "f003", Name: "Spinach Salad", Nutrients: map[string]float64{"vitamin_e": 1.0}}, Score: 0.5},
	}
	trigger := Trigger{Type: TriggerPreMeal, Meal: "lunch"}

	notifs := composeNotifications(s, trigger, ranked, 5)
	if len(notifs) != 2 {
		t.Fatalf("composed %d notifications, want 2 (capped by candidates)", len(notifs))
	}
	seen := map[string]bool{}
	for _, n := range notifs {
		if n.ID == "" || seen[n.ID] {
			t.Errorf("notification id missing or duplicated: %q", n.ID)
		}
		seen[n.ID] = true
		if n.UserID != user.ID {
			t.Errorf("user id = %q, want %q", n.UserID, user.ID)
		}
		if len(n.Message) > maxMessageLen {
			t.Errorf("message too long (%d): %q", len(n.Message), n.Message)
		}
		if !strings.HasPrefix(n.CTA.DeepLink, "app://explore?food="+n.FoodID) {
			t.Errorf("deep link = %q", n.CTA.DeepLink)
		}
		if !n.SentAt.Equal(now) {
			t.Errorf("sent at = %v, want %v", n.SentAt, now)
		}
	}

	capped := composeNotifications(s, trigger, ranked, 1)
	if len(capped) != 1 || capped[0].FoodID != "f008" {
		t.Fatalf("capped compose = %+v, want only top candidate", capped)
	}
}
