package memory

import "github.com/AFNANSH552/nutrition-ai-agent/internal/agent"

// The bundled reference dataset: a small deterministic population, the food
// catalog, the condition-nutrient weight table, message templates, and the
// why-now fact database.

// DatasetUsers returns the reference user population.
func DatasetUsers() []agent.UserProfile {
	return []agent.UserProfile{
		{
			ID: "u001", DietPref: agent.DietVeg, Allergies: []string{"nuts"},
			Age: 29, Gender: "F", City: "Mumbai", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "08:30", "lunch": "13:00", "dinner": "20:00"},
			Conditions:     []string{"Glowing skin", "Gut health"},
		},
		{
			ID: "u002", DietPref: agent.DietNonVeg, Allergies: nil,
			Age: 35, Gender: "M", City: "Delhi", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "07:30", "lunch": "12:30", "dinner": "19:30"},
			Conditions:     []string{"Muscle pain", "Energy boost"},
		},
		{
			ID: "u003", DietPref: agent.DietEgg, Allergies: []string{"shellfish"},
			Age: 42, Gender: "F", City: "Bangalore", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "08:00", "lunch": "13:30", "dinner": "20:30"},
			Conditions:     []string{"Hair fall", "Immunity"},
		},
		{
			ID: "u004", DietPref: agent.DietVeg, Allergies: []string{"dairy"},
			Age: 26, Gender: "Other", City: "Pune", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "09:00", "lunch": "13:00", "dinner": "21:00"},
			Conditions:     []string{"Gut health", "Energy boost"},
		},
		{
			ID: "u005", DietPref: agent.DietNonVeg, Allergies: []string{"gluten"},
			Age: 51, Gender: "M", City: "Chennai", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "07:00", "lunch": "12:00", "dinner": "19:00"},
			Conditions:     []string{"Immunity", "Muscle pain"},
		},
		{
			ID: "u006", DietPref: agent.DietVeg, Allergies: nil,
			Age: 31, Gender: "F", City: "Kolkata", Timezone: "Asia/Kolkata",
			UsualMealTimes: map[string]string{"breakfast": "08:30", "lunch": "13:00", "dinner": "20:00"},
			Conditions:     []string{"Glowing skin", "Hair fall", "Gut health"},
		},
	}
}

// DatasetFoods returns the reference food catalog.
func DatasetFoods() []agent.FoodItem {
	return []agent.FoodItem{
		{ID: "f001", Name: "Soaked Almonds", IsVeg: true,
			Ingredients: []string{"almonds"}, Tags: []string{"nuts", "protein"},
			Nutrients: map[string]float64{"protein": 6.0, "vitamin_e": 7.3, "zinc": 0.9, "fiber": 3.5}},
		{ID: "f002", Name: "Greek Yogurt", IsVeg: true,
			Ingredients: []string{"milk", "yogurt cultures"}, Tags: []string{"dairy", "probiotic"},
			Nutrients: map[string]float64{"protein": 10.0, "probiotics": 1.0, "calcium": 120}},
		{ID: "f003", Name: "Spinach Salad", IsVeg: true,
			Ingredients: []string{"spinach", "tomatoes"}, Tags: []string{"leafy_greens"},
			Nutrients: map[string]float64{"iron": 2.7, "vitamin_c": 28.1, "fiber": 2.2, "folate": 58.2}},
		{ID: "f004", Name: "Grilled Chicken Breast", IsVeg: false,
			Ingredients: []string{"chicken breast"}, Tags: []string{"lean_protein"},
			Nutrients: map[string]float64{"protein": 31.0, "vitamin_b12": 0.3, "iron": 1.0}},
		{ID: "f005", Name: "Quinoa Bowl", IsVeg: true,
			Ingredients: []string{"quinoa", "vegetables"}, Tags: []string{"whole_grain", "complete_protein"},
			Nutrients: map[string]float64{"protein": 8.1, "fiber": 5.2, "iron": 2.8, "magnesium": 118}},
		{ID: "f006", Name: "Banana", IsVeg: true,
			Ingredients: []string{"banana"}, Tags: []string{"fruit"},
			Nutrients: map[string]float64{"potassium": 358, "vitamin_b6": 0.4, "complex_carbs": 22.8}},
		{ID: "f007", Name: "Salmon Fillet", IsVeg: false,
			Ingredients: []string{"salmon"}, Tags: []string{"fish", "omega3"},
			Nutrients: map[string]float64{"protein": 25.4, "omega3": 1.8, "vitamin_d": 11.0}},
		{ID: "f008", Name: "Avocado", IsVeg: true,
			Ingredients: []string{"avocado"}, Tags: []string{"healthy_fats"},
			Nutrients: map[string]float64{"fiber": 10.0, "vitamin_e": 2.1, "potassium": 485}},
		{ID: "f009", Name: "Lentil Dal", IsVeg: true,
			Ingredients: []string{"lentils", "spices"}, Tags: []string{"legumes", "protein"},
			Nutrients: map[string]float64{"protein": 9.0, "iron": 3.3, "fiber": 8.0, "folate": 180}},
		{ID: "f010", Name: "Eggs", IsVeg: false,
			Ingredients: []string{"eggs"}, Tags: []string{"complete_protein"},
			Nutrients: map[string]float64{"protein": 13.0, "biotin": 10.0, "vitamin_b12": 0.9, "choline": 147}},
		{ID: "f011", Name: "Sweet Potato", IsVeg: true,
			Ingredients: []string{"sweet potato"}, Tags: []string{"root_vegetable"},
			Nutrients: map[string]float64{"vitamin_a": 14187, "fiber": 3.8, "complex_carbs": 20.1, "potassium": 337}},
		{ID: "f012", Name: "Walnuts", IsVeg: true,
			Ingredients: []string{"walnuts"}, Tags: []string{"nuts", "omega3"},
			Nutrients: map[string]float64{"omega3": 2.5, "protein": 4.3, "vitamin_e": 0.7, "magnesium": 45}},
	}
}

// DatasetConditionWeights returns the condition → nutrient importance table.
// Weights are in [0,1]; nutrient is unique within a condition.
func DatasetConditionWeights() []agent.ConditionNutrientWeight {
	return []agent.ConditionNutrientWeight{
		{Condition: "Glowing skin", Nutrient: "vitamin_e", Weight: 0.9, Reference: "PMID:12345"},
		{Condition: "Glowing skin", Nutrient: "zinc", Weight: 0.8, Reference: "PMID:12346"},
		{Condition: "Glowing skin", Nutrient: "vitamin_c", Weight: 0.7, Reference: "PMID:12347"},
		{Condition: "Glowing skin", Nutrient: "omega3", Weight: 0.6},

		{Condition: "Hair fall", Nutrient: "biotin", Weight: 0.9, Reference: "PMID:23456"},
		{Condition: "Hair fall", Nutrient: "iron", Weight: 0.8, Reference: "PMID:23457"},
		{Condition: "Hair fall", Nutrient: "protein", Weight: 0.7, Reference: "PMID:23458"},
		{Condition: "Hair fall", Nutrient: "zinc", Weight: 0.6},

		{Condition: "Gut health", Nutrient: "fiber", Weight: 0.9, Reference: "PMID:34567"},
		{Condition: "Gut health", Nutrient: "probiotics", Weight: 0.8, Reference: "PMID:34568"},
		{Condition: "Gut health", Nutrient: "prebiotics", Weight: 0.7, Reference: "PMID:34569"},

		{Condition: "Muscle pain", Nutrient: "magnesium", Weight: 0.9, Reference: "PMID:45678"},
		{Condition: "Muscle pain", Nutrient: "protein", Weight: 0.8, Reference: "PMID:45679"},
		{Condition: "Muscle pain", Nutrient: "omega3", Weight: 0.7},

		{Condition: "Energy boost", Nutrient: "iron", Weight: 0.9, Reference: "PMID:56789"},
		{Condition: "Energy boost", Nutrient: "vitamin_b12", Weight: 0.8, Reference: "PMID:56790"},
		{Condition: "Energy boost", Nutrient: "complex_carbs", Weight: 0.7},

		{Condition: "Immunity", Nutrient: "vitamin_c", Weight: 0.9, Reference: "PMID:67890"},
		{Condition: "Immunity", Nutrient: "zinc", Weight: 0.8, Reference: "PMID:67891"},
		{Condition: "Immunity", Nutrient: "vitamin_d", Weight: 0.7},
	}
}

// DatasetTemplates returns the notification template set. Content is
// descriptive and nutritional by construction; no diagnostic claims.
func DatasetTemplates() []agent.MessageTemplate {
	return []agent.MessageTemplate{
		{ID: "pre_meal_basic", Text: "{food} now for {benefit} — supports {condition}. {cta}",
			Style: "friendly", Lang: "en"},
		{ID: "post_workout", Text: "Post-workout fuel: {food} provides {benefit} for {condition}. {cta}",
			Style: "punchy", Lang: "en"},
		{ID: "science_fact", Text: "{why_now} — {food} delivers {benefit} for {condition}. {cta}",
			Style: "sciencey", Lang: "en"},
		{ID: "condition_reminder", Text: "Haven't focused on {condition} lately? {food} provides {benefit}. {cta}",
			Style: "gentle", Lang: "en"},
	}
}

// DatasetFacts returns the why-now fact database.
func DatasetFacts() []agent.Fact {
	return []agent.Fact{
		{Key: "morning_boost", Text: "Skin cell turnover peaks overnight — support with antioxidants"},
		{Key: "pre_meal", Text: "Pre-meal protein moderates glycemic response by 23%"},
		{Key: "post_activity", Text: "Glycogen resynthesis is highest within 2 hours post-workout"},
		{Key: "evening_repair", Text: "Evening nutrition supports overnight muscle repair"},
		{Key: "gut_timing", Text: "Probiotic absorption peaks during active digestion"},
		{Key: "iron_absorption", Text: "Vitamin C increases iron absorption by up to 3x"},
		{Key: "magnesium_timing", Text: "Magnesium helps muscle relaxation and recovery"},
		{Key: "omega3_benefits", Text: "Omega-3s reduce inflammation markers within hours"},
	}
}
