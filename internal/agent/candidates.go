package agent

import "sort"

// generateCandidates applies the hard filters in order: diet compatibility,
// allergy safety, condition relevance, availability. Each is an exclusion
// predicate, never a soft penalty. An empty result is a normal
// "no eligible candidates" outcome, not an error.
func generateCandidates(s *snapshot) []FoodItem {
	seen := make(map[string]struct{}, len(s.foods))
	var out []FoodItem

	for _, food := range s.foods {
		if _, dup := seen[food.ID]; dup {
			continue
		}
		seen[food.ID] = struct{}{}

		if !DietCompatible(s.user, &food) {
			continue
		}
		if AllergyConflict(s.user, &food) {
			continue
		}
		if !relevantToConditions(&food, s.condWeights) {
			continue
		}
		if s.avail[food.ID] == AvailabilityNone {
			continue
		}
		out = append(out, food)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// relevantToConditions reports whether the food supplies at least one
// nutrient weighted for any of the user's active conditions.
func relevantToConditions(food *FoodItem, condWeights map[string][]ConditionNutrientWeight) bool {
	for _, rows := range condWeights {
		for _, row := range rows {
			if food.Nutrients[row.Nutrient] > 0 {
				return true
			}
		}
	}
	return false
}
