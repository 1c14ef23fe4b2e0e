package agent

import (
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxMessageLen is the soft ceiling on rendered notification text.
const maxMessageLen = 160

const fallbackFact = "Science-backed nutrition timing matters"

// friendlyNutrients maps nutrient keys to user-facing names.
var friendlyNutrients = map[string]string{
	"vitamin_e":  "Vitamin E",
	"zinc":       "Zinc",
	"vitamin_c":  "Vitamin C",
	"protein":    "protein",
	"iron":       "iron",
	"fiber":      "fiber",
	"omega3":     "Omega-3",
	"probiotics": "probiotics",
	"magnesium":  "magnesium",
}

// composeNotifications renders up to n notifications from the ranked
// candidates for one trigger. Slots are substituted through a pure rendering
// step; templates are static and descriptive by construction, so no runtime
// content validation is needed.
func composeNotifications(s *snapshot, trigger Trigger, ranked []ScoredCandidate, n int) []Notification {
	if n > len(ranked) {
		n = len(ranked)
	}

	out := make([]Notification, 0, n)
	for _, cand := range ranked[:n] {
		condition, keyNutrients := primaryCondition(&cand.Food, s.condWeights)
		benefit := benefitText(keyNutrients, condition)
		whyNow := whyNowFact(trigger, s.facts)
		cta := CallToAction{
			Label:    "Learn more",
			DeepLink: "app://explore?food=" + cand.Food.ID + "&condition=" + url.QueryEscape(condition),
		}

		tmpl, ok := s.templates[templateForTrigger(trigger)]
		if !ok {
			tmpl = s.templates["pre_meal_basic"]
		}
		message := renderTemplate(tmpl.Text, slotValues{
			food:      cand.Food.Name,
			benefit:   benefit,
			condition: strings.ToLower(condition),
			whyNow:    whyNow,
			cta:       "Try " + strings.ToLower(cand.Food.Name),
		})

		out = append(out, Notification{
			ID:           uuid.NewString(),
			UserID:       s.user.ID,
			Trigger:      trigger,
			FoodID:       cand.Food.ID,
			FoodName:     cand.Food.Name,
			Message:      message,
			CTA:          cta,
			Score:        cand.Score,
			Breakdown:    cand.Breakdown,
			Condition:    condition,
			KeyNutrients: keyNutrients,
			WhyNow:       whyNow,
			SentAt:       s.now,
		})
	}
	return out
}

// templateForTrigger selects the template id for a trigger type.
func templateForTrigger(t Trigger) string {
	switch t.Type {
	case TriggerPostActivity:
		return "post_workout"
	case TriggerSocialViral:
		return "science_fact"
	case TriggerConditionAwareness:
		return "condition_reminder"
	default:
		return "pre_meal_basic"
	}
}

// whyNowFact picks the timing fact matching the trigger.
func whyNowFact(t Trigger, facts map[string]string) string {
	var key string
	switch t.Type {
	case TriggerPreMeal:
		if t.Meal == "breakfast" {
			key = "morning_boost"
		} else {
			key = "pre_meal"
		}
	case TriggerPostActivity:
		key = "post_activity"
	case TriggerConditionAwareness:
		key = "evening_repair"
	case TriggerSocialViral:
		key = "omega3_benefits"
	}
	if text, ok := facts[key]; ok {
		return text
	}
	return fallbackFact
}

// primaryCondition finds the user condition this food serves best (by
// weight-times-quantity over the condition's nutrient rows) and the food's
// matching nutrients for it, strongest first.
func primaryCondition(food *FoodItem, condWeights map[string][]ConditionNutrientWeight) (string, []string) {
	conditions := make([]string, 0, len(condWeights))
	for cond := range condWeights {
		conditions = append(conditions, cond)
	}
	sort.Strings(conditions)

	var (
		bestCondition string
		bestScore     float64
		keyNutrients  []string
	)
	for _, cond := range conditions {
		score := 0.0
		var matched []ConditionNutrientWeight
		for _, row := range condWeights[cond] {
			if amount := food.Nutrients[row.Nutrient]; amount > 0 {
				score += row.Weight * amount
				matched = append(matched, row)
			}
		}
		if score > bestScore {
			sort.SliceStable(matched, func(i, j int) bool { return matched[i].Weight > matched[j].Weight })
			nutrients := make([]string, len(matched))
			for i, row := range matched {
				nutrients[i] = row.Nutrient
			}
			bestScore = score
			bestCondition = cond
			keyNutrients = nutrients
		}
	}
	return bestCondition, keyNutrients
}

// benefitText phrases the top (at most two) matching nutrients.
func benefitText(nutrients []string, condition string) string {
	if len(nutrients) == 0 {
		return "supports " + strings.ToLower(condition)
	}
	friendly := make([]string, 0, 2)
	for _, n := range nutrients {
		name, ok := friendlyNutrients[n]
		if !ok {
			name = n
		}
		friendly = append(friendly, name)
		if len(friendly) == 2 {
			break
		}
	}
	if len(friendly) == 1 {
		return friendly[0] + " boost"
	}
	return friendly[0] + " + " + friendly[1] + " boost"
}

// slotValues is the tagged slot structure consumed by renderTemplate.
type slotValues struct {
	food      string
	benefit   string
	condition string
	whyNow    string
	cta       string
}

// renderTemplate substitutes slots and enforces the length ceiling. On
// overflow the why-now fact is trimmed first, then the benefit clause; the
// food name and call-to-action are never cut. A hard truncation remains as
// the last resort for pathological template/name combinations.
func renderTemplate(text string, v slotValues) string {
	render := func(whyNow, benefit string) string {
		r := strings.NewReplacer(
			"{food}", v.food,
			"{benefit}", benefit,
			"{condition}", v.condition,
			"{why_now}", whyNow,
			"{cta}", v.cta,
		)
		return r.Replace(text)
	}

	msg := render(v.whyNow, v.benefit)
	if len(msg) <= maxMessageLen {
		return msg
	}

	whyNow := trimClause(v.whyNow, len(msg)-maxMessageLen)
	msg = render(whyNow, v.benefit)
	if len(msg) <= maxMessageLen {
		return msg
	}

	benefit := trimClause(v.benefit, len(msg)-maxMessageLen)
	msg = render(whyNow, benefit)
	if len(msg) <= maxMessageLen {
		return msg
	}

	return cutAtRune(msg, maxMessageLen-3) + "..."
}

// trimClause shortens a clause by at least overflow bytes, appending an
// ellipsis when anything meaningful survives.
func trimClause(clause string, overflow int) string {
	keep := len(clause) - overflow - 3
	if keep <= 0 {
		return ""
	}
	return strings.TrimRight(cutAtRune(clause, keep), " ,;-") + "..."
}

// cutAtRune truncates s to at most max bytes without splitting a rune.
func cutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
