package agent

import (
	"sync"
	"time"
)

// GuardState is the pacing state evaluated at emission time.
type GuardState string

const (
	GuardEligible         GuardState = "eligible"
	GuardQuietHours       GuardState = "quiet_hours"
	GuardRateLimited      GuardState = "rate_limited"
	GuardNoveltyExhausted GuardState = "novelty_exhausted"
)

// guardState classifies the run against quiet hours and rate limits using
// the log snapshot taken at run start. Quiet hours override everything.
func guardState(s *snapshot, cfg Config) GuardState {
	if inQuietHours(s.local, cfg) {
		return GuardQuietHours
	}
	if sentToday(s, cfg) >= cfg.MaxPerDay {
		return GuardRateLimited
	}
	if last, ok := lastSentAt(s.log); ok && s.now.Sub(last) < cfg.MinGap {
		return GuardRateLimited
	}
	return GuardEligible
}

// inQuietHours reports whether local time is inside [start, 24) ∪ [0, end).
func inQuietHours(local time.Time, cfg Config) bool {
	h := local.Hour()
	if cfg.QuietStartHour > cfg.QuietEndHour {
		return h >= cfg.QuietStartHour || h < cfg.QuietEndHour
	}
	return h >= cfg.QuietStartHour && h < cfg.QuietEndHour
}

// sentToday counts notifications sent since local midnight.
func sentToday(s *snapshot, cfg Config) int {
	localMidnight := time.Date(s.local.Year(), s.local.Month(), s.local.Day(),
		0, 0, 0, 0, s.local.Location())
	count := 0
	for _, entry := range s.log {
		if !entry.SentAt.Before(localMidnight.UTC()) {
			count++
		}
	}
	return count
}

func lastSentAt(log []NotificationLogEntry) (time.Time, bool) {
	var last time.Time
	for _, entry := range log {
		if entry.SentAt.After(last) {
			last = entry.SentAt
		}
	}
	return last, !last.IsZero()
}

// remainingBudget is the global emission cap for this run across all
// triggers combined.
func remainingBudget(s *snapshot, cfg Config) int {
	budget := cfg.MaxPerDay - sentToday(s, cfg)
	if budget < 0 {
		return 0
	}
	return budget
}

// noveltyExhausted reports whether every ranked candidate has zero novelty,
// meaning everything worth saying was already said within the window.
func noveltyExhausted(ranked []ScoredCandidate) bool {
	if len(ranked) == 0 {
		return false
	}
	for _, c := range ranked {
		if c.Breakdown.RecencyNovelty > 0 {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Per-user serialization
// --------------------------------------------------------------------------

// userLocks hands out one mutex per user id so concurrent runs for the same
// user serialize around the check-then-append in the guard. Runs for
// different users proceed in parallel.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[string]*sync.Mutex)}
}

func (l *userLocks) get(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mu, ok := l.m[userID]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	l.m[userID] = mu
	return mu
}
