package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Pipeline is the notification decision engine. One instance serves all
// users; runs for independent users proceed concurrently while runs for the
// same user serialize around the notification-log append.
type Pipeline struct {
	provider DataProvider
	cfg      Config
	logger   *slog.Logger
	locks    *userLocks

	// safetyIncidents counts candidates dropped by the post-filter
	// allergy-risk check. Must stay 0 when the hard filters are correct.
	safetyIncidents atomic.Int64
}

// New creates a Pipeline. The config must already be validated.
func New(provider DataProvider, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		locks:    newUserLocks(),
	}
}

// Config returns the pipeline's immutable configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// SafetyIncidents returns the number of post-filter safety drops observed
// since the pipeline started.
func (p *Pipeline) SafetyIncidents() int64 { return p.safetyIncidents.Load() }

// GenerateNotifications runs the full pipeline for one user at one moment.
// Deterministic given identical provider state and now. Every non-emitting
// path returns a Result with an explanatory Outcome, never an error; errors
// mean the provider failed and the caller may retry.
func (p *Pipeline) GenerateNotifications(ctx context.Context, userID string, now time.Time) (*Result, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Serialize check-then-append per user.
	mu := p.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	s, err := buildSnapshot(ctx, p.provider, userID, now, p.cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		UserID:      userID,
		GeneratedAt: s.now,
		GuardState:  guardState(s, p.cfg),
	}

	if res.GuardState != GuardEligible {
		res.Outcome = OutcomePacingBlocked
		p.logger.Debug("pacing blocked", "user_id", userID, "state", res.GuardState)
		return res, nil
	}

	triggers := resolveTriggers(s, p.cfg)
	if len(triggers) == 0 {
		res.Outcome = OutcomeNoEligibleTrigger
		return res, nil
	}

	budget := remainingBudget(s, p.cfg)
	anyCandidates := false
	anyNoveltyBlocked := false
	emitted := make(map[string]struct{})

	for _, trigger := range triggers {
		if budget <= 0 {
			break
		}

		candidates := generateCandidates(s)
		if len(candidates) == 0 {
			continue
		}
		anyCandidates = true

		// A later trigger must not re-send a food emitted earlier in this
		// run; the snapshot log predates those appends.
		if len(emitted) > 0 {
			kept := candidates[:0]
			for _, c := range candidates {
				if _, dup := emitted[c.ID]; !dup {
					kept = append(kept, c)
				}
			}
			candidates = kept
			if len(candidates) == 0 {
				continue
			}
		}

		ranked, violations := rankCandidates(s, candidates, p.cfg)
		if violations > 0 {
			p.safetyIncidents.Add(int64(violations))
			p.logger.Error("safety violation: candidate passed filters with nonzero allergy risk",
				"user_id", userID, "trigger", trigger.Key(), "dropped", violations)
		}
		if len(ranked) == 0 {
			continue
		}
		if noveltyExhausted(ranked) {
			anyNoveltyBlocked = true
			continue
		}

		n := p.cfg.TopN
		if n > budget {
			n = budget
		}
		notifs := composeNotifications(s, trigger, ranked, n)

		for _, notif := range notifs {
			entry := NotificationLogEntry{
				UserID:    userID,
				SentAt:    notif.SentAt,
				Trigger:   trigger.Type,
				FoodID:    notif.FoodID,
				Condition: trigger.Condition,
			}
			if err := p.provider.AppendNotificationLog(ctx, entry); err != nil {
				return nil, fmt.Errorf("append notification log: %w", err)
			}
			res.Notifications = append(res.Notifications, notif)
			emitted[notif.FoodID] = struct{}{}
			budget--
		}

		p.logger.Info("notifications emitted",
			"user_id", userID, "trigger", trigger.Key(), "count", len(notifs))
	}

	switch {
	case len(res.Notifications) > 0:
		res.Outcome = OutcomeEmitted
	case anyNoveltyBlocked:
		res.Outcome = OutcomePacingBlocked
		res.GuardState = GuardNoveltyExhausted
	case !anyCandidates:
		res.Outcome = OutcomeNoSafeCandidates
	default:
		res.Outcome = OutcomeNoSafeCandidates
	}
	return res, nil
}

// ActiveTriggers reports which triggers are currently eligible for a user,
// without running the rest of the pipeline or touching the log.
func (p *Pipeline) ActiveTriggers(ctx context.Context, userID string, now time.Time) ([]Trigger, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	s, err := buildSnapshot(ctx, p.provider, userID, now, p.cfg)
	if err != nil {
		return nil, err
	}
	return resolveTriggers(s, p.cfg), nil
}

// TestSafety inspects the diet and allergy constraints for one user-food
// pair, independent of ranking and pacing.
func (p *Pipeline) TestSafety(ctx context.Context, userID, foodID string) (*SafetyReport, error) {
	user, err := p.provider.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	foods, err := p.provider.ListFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	for i := range foods {
		if foods[i].ID == foodID {
			report := CheckSafety(user, &foods[i])
			return &report, nil
		}
	}
	return nil, fmt.Errorf("food %s: %w", foodID, ErrNotFound)
}
