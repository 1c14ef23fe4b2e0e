package agent

import (
	"testing"
	"time"
)

func TestGenerateCandidates(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	user := utcUser(nil, "Glowing skin")
	user.DietPref = DietVeg
	user.Allergies = []string{"nuts"}

	s := testSnapshot(user, now)
	s.condWeights["Glowing skin"] = []ConditionNutrientWeight{
		{Condition: "Glowing skin", Nutrient: "vitamin_e", Weight: 0.9},
	}
	s.foods = []FoodItem{
		{ID: "f001", Name: "Soaked Almonds", IsVeg: true, Tags: []string{"nuts"},
			Nutrients: map[string]float64{"vitamin_e": 7.3}}, // allergen
		{ID: "f004", Name: "Grilled Chicken Breast", IsVeg: false,
			Nutrients: map[string]float64{"protein": 31}}, // diet violation
		{ID: "f006", Name: "Banana", IsVeg: true,
			Nutrients: map[string]float64{"potassium": 358}}, // irrelevant to conditions
		{ID: "f008", Name: "Avocado", IsVeg: true,
			Nutrients: map[string]float64{"vitamin_e": 2.1}}, // unavailable
		{ID: "f012", Name: "Sunflower Seeds", IsVeg: true,
			Nutrients: map[string]float64{"vitamin_e": 7.4}}, // passes all filters
		{ID: "f012", Name: "Sunflower Seeds", IsVeg: true,
			Nutrients: map[string]float64{"vitamin_e": 7.4}}, // duplicate id
	}
	s.avail = map[string]AvailabilityLevel{
		"f001": AvailabilityFull,
		"f004": AvailabilityFull,
		"f006": AvailabilityFull,
		"f008": AvailabilityNone,
		"f012": AvailabilityLimited,
	}

	got := generateCandidates(s)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v, want exactly f012", got)
	}
	if got[0].ID != "f012" {
		t.Errorf("candidate = %s, want f012", got[0].ID)
	}
}

func TestGenerateCandidatesEmptyIsNormal(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s := testSnapshot(utcUser(nil), now)
	s.foods = []FoodItem{{ID: "f001", IsVeg: true, Nutrients: map[string]float64{"vitamin_e": 7.3}}}
	s.avail["f001"] = AvailabilityFull

	// No conditions means no food is condition-relevant.
	if got := generateCandidates(s); len(got) != 0 {
		t.Errorf("candidates = %+v, want none", got)
	}
}
