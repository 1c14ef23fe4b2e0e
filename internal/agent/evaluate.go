package agent

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// EvaluateOptions shapes an offline evaluation sweep.
type EvaluateOptions struct {
	// Start is the first simulated instant (UTC). Zero means now.
	Start time.Time
	// Days is how many consecutive days to sweep. Zero means 7.
	Days int
	// Hours are the UTC hours probed each day. Empty means 8, 13, 18, 20.
	Hours []int
}

// EvaluationReport aggregates pipeline quality metrics over a user
// population.
type EvaluationReport struct {
	Runs               int     `json:"runs"`
	EligibilityRate    float64 `json:"eligibility_rate"`
	SafetyViolations   int64   `json:"safety_violations"`
	TotalNotifications int     `json:"total_notifications"`
	UniqueFoods        int     `json:"unique_foods"`
	DiversityGini      float64 `json:"diversity_gini"`
	NoveltyPercent     float64 `json:"novelty_percent"`
	MeanTopScore       float64 `json:"mean_top_score"`
	AvgMessageLength   float64 `json:"avg_message_length"`
	PctWithinLength    float64 `json:"pct_within_length"`
}

// Evaluate sweeps the pipeline across a user population and simulated days,
// computing eligibility, safety, diversity, novelty, and score metrics. The
// sweep emits through the normal pipeline, so it exercises pacing and the
// log exactly as production runs would.
func (p *Pipeline) Evaluate(ctx context.Context, userIDs []string, opts EvaluateOptions) (*EvaluationReport, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}
	days := opts.Days
	if days <= 0 {
		days = 7
	}
	hours := opts.Hours
	if len(hours) == 0 {
		hours = []int{8, 13, 18, 20}
	}

	incidentsBefore := p.SafetyIncidents()

	report := &EvaluationReport{}
	emittingRuns := 0
	foodCounts := make(map[string]int)
	var topScores, messageLens []float64
	novel, emitted := 0, 0
	var postFilterViolations int64

	for day := 0; day < days; day++ {
		for _, hour := range hours {
			at := start.AddDate(0, 0, day)
			at = time.Date(at.Year(), at.Month(), at.Day(), hour, 0, 0, 0, time.UTC)

			for _, userID := range userIDs {
				res, err := p.GenerateNotifications(ctx, userID, at)
				if err != nil {
					return nil, fmt.Errorf("evaluate run user=%s at=%s: %w", userID, at, err)
				}
				report.Runs++
				if res.Outcome != OutcomeEmitted {
					continue
				}
				emittingRuns++
				topScores = append(topScores, res.Notifications[0].Score)

				for _, notif := range res.Notifications {
					emitted++
					foodCounts[notif.FoodID]++
					messageLens = append(messageLens, float64(len(notif.Message)))
					if notif.Breakdown.RecencyNovelty >= 1 {
						novel++
					}
					if v, err := p.TestSafety(ctx, userID, notif.FoodID); err == nil {
						if v.ViolatesDiet || v.ViolatesAllergy {
							postFilterViolations++
						}
					}
				}
			}
		}
	}

	report.SafetyViolations = (p.SafetyIncidents() - incidentsBefore) + postFilterViolations
	report.TotalNotifications = emitted
	report.UniqueFoods = len(foodCounts)
	if report.Runs > 0 {
		report.EligibilityRate = float64(emittingRuns) / float64(report.Runs)
	}
	report.DiversityGini = gini(foodCounts)
	if emitted > 0 {
		report.NoveltyPercent = float64(novel) / float64(emitted)
	}
	report.MeanTopScore = mean(topScores)
	report.AvgMessageLength = mean(messageLens)
	if len(messageLens) > 0 {
		within := 0
		for _, l := range messageLens {
			if l <= maxMessageLen {
				within++
			}
		}
		report.PctWithinLength = float64(within) / float64(len(messageLens))
	}
	return report, nil
}

// gini computes the Gini coefficient of the recommendation distribution:
// 0 when every food is recommended equally often, approaching 1 when a
// single food dominates.
func gini(counts map[string]int) float64 {
	if len(counts) == 0 {
		return 0
	}
	xs := make([]float64, 0, len(counts))
	total := 0.0
	for _, c := range counts {
		xs = append(xs, float64(c))
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	sort.Float64s(xs)

	n := float64(len(xs))
	var weighted float64
	for i, x := range xs {
		weighted += (2*float64(i+1) - n - 1) * x
	}
	return math.Abs(weighted) / (n * total)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
