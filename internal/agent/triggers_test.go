package agent

import (
	"testing"
	"time"
)

func testSnapshot(user *UserProfile, now time.Time) *snapshot {
	now = now.UTC()
	return &snapshot{
		user:        user,
		now:         now,
		local:       now.In(user.Location()),
		foodsByID:   map[string]FoodItem{},
		condWeights: map[string][]ConditionNutrientWeight{},
		avail:       map[string]AvailabilityLevel{},
		templates:   map[string]MessageTemplate{},
		facts:       map[string]string{},
	}
}

func utcUser(mealTimes map[string]string, conditions ...string) *UserProfile {
	return &UserProfile{
		ID:             "u-test",
		DietPref:       DietNonVeg,
		Timezone:       "UTC",
		UsualMealTimes: mealTimes,
		Conditions:     conditions,
	}
}

func TestPreMealTrigger(t *testing.T) {
	day := func(hhmm string) time.Time {
		at, err := time.Parse("2006-01-02 15:04", "2026-01-15 "+hhmm)
		if err != nil {
			t.Fatalf("parse %q: %v", hhmm, err)
		}
		return at
	}

	tests := []struct {
		name     string
		now      time.Time
		meals    map[string]string
		wantMeal string
		wantOK   bool
	}{
		{"inside lead window", day("08:05"), map[string]string{"breakfast": "08:30"}, "breakfast", true},
		{"window opens exactly at lead", day("08:00"), map[string]string{"breakfast": "08:30"}, "breakfast", true},
		{"before window", day("07:00"), map[string]string{"breakfast": "08:30"}, "", false},
		{"at meal time", day("08:30"), map[string]string{"breakfast": "08:30"}, "", false},
		{"after meal time", day("08:45"), map[string]string{"breakfast": "08:30"}, "", false},
		{
			"overlapping windows pick nearest",
			day("08:05"),
			map[string]string{"breakfast": "08:30", "snack": "08:20"},
			"snack", true,
		},
		{"no meals", day("08:05"), nil, "", false},
		{"malformed meal time skipped", day("08:05"), map[string]string{"breakfast": "late"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSnapshot(utcUser(tt.meals), tt.now)
			trig, ok := preMealTrigger(s, DefaultConfig())
			if ok != tt.wantOK {
				t.Fatalf("preMealTrigger ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && trig.Meal != tt.wantMeal {
				t.Errorf("meal = %q, want %q", trig.Meal, tt.wantMeal)
			}
		})
	}
}

func TestPostActivityTrigger(t *testing.T) {
	now := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)
	workout := ActivityEvent{UserID: "u-test", Timestamp: now.Add(-time.Hour), Event: EventWorkedOut}

	t.Run("fires for recent workout", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.activity = []ActivityEvent{workout}
		trig, ok := postActivityTrigger(s, DefaultConfig())
		if !ok {
			t.Fatal("expected trigger")
		}
		if !trig.ActivityAt.Equal(workout.Timestamp) {
			t.Errorf("ActivityAt = %v, want %v", trig.ActivityAt, workout.Timestamp)
		}
	})

	t.Run("picks latest of several workouts", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		earlier := ActivityEvent{UserID: "u-test", Timestamp: now.Add(-90 * time.Minute), Event: EventWorkedOut}
		s.activity = []ActivityEvent{earlier, workout}
		trig, ok := postActivityTrigger(s, DefaultConfig())
		if !ok || !trig.ActivityAt.Equal(workout.Timestamp) {
			t.Errorf("got (%v, %v), want latest workout", trig.ActivityAt, ok)
		}
	})

	t.Run("workout outside window", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.activity = []ActivityEvent{{UserID: "u-test", Timestamp: now.Add(-3 * time.Hour), Event: EventWorkedOut}}
		if _, ok := postActivityTrigger(s, DefaultConfig()); ok {
			t.Error("expected no trigger for stale workout")
		}
	})

	t.Run("consumption events ignored", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.activity = []ActivityEvent{{UserID: "u-test", Timestamp: now.Add(-time.Hour), Event: EventConsumed, FoodID: "f001"}}
		if _, ok := postActivityTrigger(s, DefaultConfig()); ok {
			t.Error("expected no trigger for consumption event")
		}
	})

	t.Run("suppressed once replenishment sent", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.activity = []ActivityEvent{workout}
		s.log = []NotificationLogEntry{{
			UserID: "u-test", SentAt: now.Add(-30 * time.Minute), Trigger: TriggerPostActivity, FoodID: "f006",
		}}
		if _, ok := postActivityTrigger(s, DefaultConfig()); ok {
			t.Error("expected suppression after replenishment notification")
		}
	})

	t.Run("notification older than workout does not suppress", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.activity = []ActivityEvent{workout}
		s.log = []NotificationLogEntry{{
			UserID: "u-test", SentAt: now.Add(-2 * time.Hour), Trigger: TriggerPostActivity, FoodID: "f006",
		}}
		if _, ok := postActivityTrigger(s, DefaultConfig()); !ok {
			t.Error("expected trigger: prior replenishment predates this workout")
		}
	})
}

func TestConditionTriggers(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	gutWeights := []ConditionNutrientWeight{
		{Condition: "Gut health", Nutrient: "fiber", Weight: 0.9},
		{Condition: "Gut health", Nutrient: "probiotics", Weight: 0.8},
	}
	yogurt := FoodItem{ID: "f002", Name: "Greek Yogurt", IsVeg: true,
		Nutrients: map[string]float64{"protein": 10, "probiotics": 1}}

	t.Run("fires on nutrient gap", func(t *testing.T) {
		s := testSnapshot(utcUser(nil, "Gut health"), now)
		s.condWeights["Gut health"] = gutWeights
		got := conditionTriggers(s, DefaultConfig())
		if len(got) != 1 || got[0].Condition != "Gut health" {
			t.Fatalf("triggers = %+v, want one for Gut health", got)
		}
	})

	t.Run("no gap when a weighted nutrient was consumed", func(t *testing.T) {
		s := testSnapshot(utcUser(nil, "Gut health"), now)
		s.condWeights["Gut health"] = gutWeights
		s.foodsByID[yogurt.ID] = yogurt
		s.activity = []ActivityEvent{{
			UserID: "u-test", Timestamp: now.Add(-24 * time.Hour), Event: EventConsumed, FoodID: yogurt.ID,
		}}
		if got := conditionTriggers(s, DefaultConfig()); len(got) != 0 {
			t.Errorf("triggers = %+v, want none", got)
		}
	})

	t.Run("suppressed after recent reminder for same condition", func(t *testing.T) {
		s := testSnapshot(utcUser(nil, "Gut health"), now)
		s.condWeights["Gut health"] = gutWeights
		s.log = []NotificationLogEntry{{
			UserID: "u-test", SentAt: now.Add(-48 * time.Hour),
			Trigger: TriggerConditionAwareness, FoodID: "f002", Condition: "Gut health",
		}}
		if got := conditionTriggers(s, DefaultConfig()); len(got) != 0 {
			t.Errorf("triggers = %+v, want none", got)
		}
	})

	t.Run("reminder for other condition does not suppress", func(t *testing.T) {
		s := testSnapshot(utcUser(nil, "Gut health"), now)
		s.condWeights["Gut health"] = gutWeights
		s.log = []NotificationLogEntry{{
			UserID: "u-test", SentAt: now.Add(-48 * time.Hour),
			Trigger: TriggerConditionAwareness, FoodID: "f003", Condition: "Glowing skin",
		}}
		if got := conditionTriggers(s, DefaultConfig()); len(got) != 1 {
			t.Errorf("triggers = %+v, want one", got)
		}
	})

	t.Run("condition without weight rows never fires", func(t *testing.T) {
		s := testSnapshot(utcUser(nil, "Unknown condition"), now)
		if got := conditionTriggers(s, DefaultConfig()); len(got) != 0 {
			t.Errorf("triggers = %+v, want none", got)
		}
	})
}

func TestSocialViralTrigger(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{16, false},
		{17, true},
		{19, true},
		{20, false},
		{8, false},
	}
	for _, tt := range tests {
		now := time.Date(2026, 1, 15, tt.hour, 30, 0, 0, time.UTC)
		s := testSnapshot(utcUser(nil), now)
		if _, ok := socialViralTrigger(s, DefaultConfig()); ok != tt.want {
			t.Errorf("hour %d: socialViralTrigger = %v, want %v", tt.hour, ok, tt.want)
		}
	}
}

func TestResolveTriggersOrderIsStable(t *testing.T) {
	// 19:45 local: pre-meal window before a 20:00 dinner, a fresh workout,
	// a condition gap, and the peak social window all at once.
	now := time.Date(2026, 1, 15, 19, 45, 0, 0, time.UTC)
	user := utcUser(map[string]string{"dinner": "20:00"}, "Gut health")
	s := testSnapshot(user, now)
	s.condWeights["Gut health"] = []ConditionNutrientWeight{{Condition: "Gut health", Nutrient: "fiber", Weight: 0.9}}
	s.activity = []ActivityEvent{{UserID: "u-test", Timestamp: now.Add(-time.Hour), Event: EventWorkedOut}}

	got := resolveTriggers(s, DefaultConfig())
	want := []TriggerType{TriggerPreMeal, TriggerPostActivity, TriggerConditionAwareness, TriggerSocialViral}
	if len(got) != len(want) {
		t.Fatalf("got %d triggers, want %d: %+v", len(got), len(want), got)
	}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("trigger[%d] = %s, want %s", i, got[i].Type, typ)
		}
	}
}
