package agent

// Safety predicates are absolute filters, never soft penalties. They run in
// the candidate generator and again inside scoring as a fail-safe.

// DietCompatible reports whether a food satisfies the user's diet preference.
// Non-veg users may receive anything; egg-allowed users may receive veg foods
// or foods containing eggs; veg users only veg-flagged foods.
func DietCompatible(user *UserProfile, food *FoodItem) bool {
	switch user.DietPref {
	case DietVeg:
		return food.IsVeg
	case DietNonVeg:
		return true
	case DietEgg:
		if food.IsVeg {
			return true
		}
		for _, ing := range food.Ingredients {
			if ing == "eggs" {
				return true
			}
		}
		return false
	}
	return true
}

// AllergyConflict reports whether the food's ingredient and tag sets
// intersect the user's allergen set.
func AllergyConflict(user *UserProfile, food *FoodItem) bool {
	if len(user.Allergies) == 0 {
		return false
	}
	allergens := make(map[string]struct{}, len(user.Allergies))
	for _, a := range user.Allergies {
		allergens[a] = struct{}{}
	}
	for _, ing := range food.Ingredients {
		if _, ok := allergens[ing]; ok {
			return true
		}
	}
	for _, tag := range food.Tags {
		if _, ok := allergens[tag]; ok {
			return true
		}
	}
	return false
}

// CheckSafety runs both constraint checks for direct inspection.
func CheckSafety(user *UserProfile, food *FoodItem) SafetyReport {
	return SafetyReport{
		UserID:          user.ID,
		FoodID:          food.ID,
		ViolatesDiet:    !DietCompatible(user, food),
		ViolatesAllergy: AllergyConflict(user, food),
	}
}
