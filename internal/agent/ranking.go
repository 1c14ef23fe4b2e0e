package agent

import (
	"math"
	"sort"
	"time"
)

// ScoredCandidate pairs a candidate food with its total score and the
// component breakdown that produced it.
type ScoredCandidate struct {
	Food      FoodItem
	Score     float64
	Breakdown ScoreBreakdown
}

// rankCandidates scores candidates with the weighted multi-factor formula
// and sorts them descending. Equal scores break by food id ascending, so the
// order is deterministic for identical inputs.
//
// A candidate whose allergy-risk term is nonzero at this stage slipped past
// the hard filter; it is dropped here and reported as a safety violation,
// never emitted. The returned count is the number of such drops.
func rankCandidates(s *snapshot, candidates []FoodItem, cfg Config) ([]ScoredCandidate, int) {
	gapSince := s.now.AddDate(0, 0, -cfg.GapWindowDays)
	consumed := s.consumedNutrients(gapSince)

	violations := 0
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, food := range candidates {
		b := ScoreBreakdown{
			CondMatch:         condMatch(&food, s.condWeights),
			NutrientGapFit:    nutrientGapFit(&food, s.condWeights, consumed),
			AvailabilityBoost: availabilityBoost(s.avail[food.ID], cfg),
			RecencyNovelty:    recencyNovelty(s.lastShown(food.ID), s.now, cfg.NoveltyWindowDays),
			AllergyRisk:       allergyRisk(s.user, &food),
		}
		if b.AllergyRisk != 0 {
			violations++
			continue
		}
		score := cfg.W1*b.CondMatch +
			cfg.W2*b.NutrientGapFit +
			cfg.W3*b.AvailabilityBoost +
			cfg.W4*b.RecencyNovelty -
			cfg.W5*b.AllergyRisk
		scored = append(scored, ScoredCandidate{Food: food, Score: score, Breakdown: b})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Food.ID < scored[j].Food.ID
	})
	return scored, violations
}

// condMatch is the cosine similarity between the food's nutrient vector and
// the condition-weighted requirement vector, aligned on the union of
// nutrients weighted for the user's conditions. Both vectors are
// non-negative, so cosine lands in [0,1]; the clamp guards against a future
// signed signal leaking a negative term.
func condMatch(food *FoodItem, condWeights map[string][]ConditionNutrientWeight) float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rows := range condWeights {
		for _, row := range rows {
			sums[row.Nutrient] += row.Weight
			counts[row.Nutrient]++
		}
	}
	if len(sums) == 0 {
		return 0
	}

	nutrients := make([]string, 0, len(sums))
	for n := range sums {
		nutrients = append(nutrients, n)
	}
	sort.Strings(nutrients)

	foodVec := make([]float64, len(nutrients))
	condVec := make([]float64, len(nutrients))
	for i, n := range nutrients {
		foodVec[i] = food.Nutrients[n]
		condVec[i] = sums[n] / float64(counts[n])
	}
	return clamp01(cosine(foodVec, condVec))
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// nutrientGapFit measures how well the food fills the user's recent deficit:
// condition target weights minus nutrients consumed in the trailing window,
// clipped to positive gaps. Coverage per gap is capped at 1; the result is
// the mean coverage across gaps.
func nutrientGapFit(food *FoodItem, condWeights map[string][]ConditionNutrientWeight, consumed map[string]float64) float64 {
	targets := make(map[string]float64)
	for _, rows := range condWeights {
		for _, row := range rows {
			if row.Weight > targets[row.Nutrient] {
				targets[row.Nutrient] = row.Weight
			}
		}
	}

	var coverage float64
	gaps := 0
	for nutrient, target := range targets {
		gap := target - consumed[nutrient]
		if gap <= 0 {
			continue
		}
		gaps++
		coverage += math.Min(food.Nutrients[nutrient]/gap, 1.0)
	}
	if gaps == 0 {
		return 0
	}
	return coverage / float64(gaps)
}

func availabilityBoost(level AvailabilityLevel, cfg Config) float64 {
	switch level {
	case AvailabilityFull:
		return 1.0
	case AvailabilityLimited:
		return cfg.LimitedAvailabilityBoost
	}
	return 0
}

// recencyNovelty is min(1, daysSinceLastShown/windowDays): 0 for a food
// shown moments ago, 1 for one never shown, non-decreasing in between.
func recencyNovelty(lastShown, now time.Time, windowDays int) float64 {
	if lastShown.IsZero() {
		return 1
	}
	days := now.Sub(lastShown).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Min(1, days/float64(windowDays))
}

// allergyRisk re-runs the allergy check as defense in depth. Post-filter it
// must always evaluate to 0.
func allergyRisk(user *UserProfile, food *FoodItem) float64 {
	if AllergyConflict(user, food) {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
