package agent

import (
	"testing"
	"time"
)

func TestInQuietHours(t *testing.T) {
	cfg := DefaultConfig() // 22..07

	tests := []struct {
		hour int
		want bool
	}{
		{21, false},
		{22, true},
		{23, true},
		{0, true},
		{6, true},
		{7, false},
		{12, false},
	}
	for _, tt := range tests {
		local := time.Date(2026, 1, 15, tt.hour, 30, 0, 0, time.UTC)
		if got := inQuietHours(local, cfg); got != tt.want {
			t.Errorf("hour %d: inQuietHours = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestInQuietHoursNonWrapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuietStartHour = 1
	cfg.QuietEndHour = 5

	if !inQuietHours(time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC), cfg) {
		t.Error("03:00 should be quiet for a 01..05 window")
	}
	if inQuietHours(time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC), cfg) {
		t.Error("06:00 should not be quiet for a 01..05 window")
	}
}

func TestGuardState(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("eligible with empty log", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		if got := guardState(s, cfg); got != GuardEligible {
			t.Errorf("state = %s, want %s", got, GuardEligible)
		}
	})

	t.Run("quiet hours win over everything", func(t *testing.T) {
		night := time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC)
		s := testSnapshot(utcUser(nil), night)
		if got := guardState(s, cfg); got != GuardQuietHours {
			t.Errorf("state = %s, want %s", got, GuardQuietHours)
		}
	})

	t.Run("daily cap reached", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.log = []NotificationLogEntry{
			{UserID: "u-test", SentAt: now.Add(-5 * time.Hour), Trigger: TriggerPreMeal, FoodID: "f001"},
			{UserID: "u-test", SentAt: now.Add(-4 * time.Hour), Trigger: TriggerSocialViral, FoodID: "f002"},
		}
		if got := guardState(s, cfg); got != GuardRateLimited {
			t.Errorf("state = %s, want %s", got, GuardRateLimited)
		}
	})

	t.Run("minimum gap enforced", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.log = []NotificationLogEntry{
			{UserID: "u-test", SentAt: now.Add(-time.Hour), Trigger: TriggerPreMeal, FoodID: "f001"},
		}
		if got := guardState(s, cfg); got != GuardRateLimited {
			t.Errorf("state = %s, want %s", got, GuardRateLimited)
		}
	})

	t.Run("gap satisfied", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.log = []NotificationLogEntry{
			{UserID: "u-test", SentAt: now.Add(-4 * time.Hour), Trigger: TriggerPreMeal, FoodID: "f001"},
		}
		if got := guardState(s, cfg); got != GuardEligible {
			t.Errorf("state = %s, want %s", got, GuardEligible)
		}
	})

	t.Run("yesterday's sends do not count toward today", func(t *testing.T) {
		s := testSnapshot(utcUser(nil), now)
		s.log = []NotificationLogEntry{
			{UserID: "u-test", SentAt: now.AddDate(0, 0, -1), Trigger: TriggerPreMeal, FoodID: "f001"},
			{UserID: "u-test", SentAt: now.AddDate(0, 0, -1).Add(time.Hour), Trigger: TriggerSocialViral, FoodID: "f002"},
		}
		if got := guardState(s, cfg); got != GuardEligible {
			t.Errorf("state = %s, want %s", got, GuardEligible)
		}
	})
}

func TestRemainingBudget(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	s := testSnapshot(utcUser(nil), now)
	if got := remainingBudget(s, cfg); got != cfg.MaxPerDay {
		t.Errorf("fresh budget = %d, want %d", got, cfg.MaxPerDay)
	}

	s.log = []NotificationLogEntry{
		{UserID: "u-test", SentAt: now.Add(-4 * time.Hour), Trigger: TriggerPreMeal, FoodID: "f001"},
	}
	if got := remainingBudget(s, cfg); got != cfg.MaxPerDay-1 {
		t.Errorf("budget = %d, want %d", got, cfg.MaxPerDay-1)
	}
}

func TestNoveltyExhausted(t *testing.T) {
	zero := ScoredCandidate{Food: FoodItem{ID: "f001"}, Breakdown: ScoreBreakdown{RecencyNovelty: 0}}
	fresh := ScoredCandidate{Food: FoodItem{ID: "f002"}, Breakdown: ScoreBreakdown{RecencyNovelty: 0.4}}

	if noveltyExhausted(nil) {
		t.Error("empty candidate set is not novelty exhaustion")
	}
	if !noveltyExhausted([]ScoredCandidate{zero}) {
		t.Error("all-zero novelty should report exhaustion")
	}
	if noveltyExhausted([]ScoredCandidate{zero, fresh}) {
		t.Error("any nonzero novelty means not exhausted")
	}
}

func TestUserLocksSameMutexPerUser(t *testing.T) {
	locks := newUserLocks()
	a := locks.get("u001")
	b := locks.get("u001")
	c := locks.get("u002")
	if a != b {
		t.Error("same user should share one mutex")
	}
	if a == c {
		t.Error("different users should get distinct mutexes")
	}
}
