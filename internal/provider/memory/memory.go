// Package memory provides an in-memory DataProvider. Reference data is
// immutable after construction; the notification log and activity history
// are append-only behind a mutex. Used by the CLI, tests, and deployments
// without Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
)

// Provider implements agent.DataProvider over in-memory maps.
type Provider struct {
	mu sync.RWMutex

	users     map[string]agent.UserProfile
	foods     []agent.FoodItem
	weights   []agent.ConditionNutrientWeight
	activity  []agent.ActivityEvent
	log       []agent.NotificationLogEntry
	templates []agent.MessageTemplate
	facts     []agent.Fact
	overrides map[string]agent.AvailabilityLevel // foodID → level
}

// New returns an empty provider.
func New() *Provider {
	return &Provider{
		users:     make(map[string]agent.UserProfile),
		overrides: make(map[string]agent.AvailabilityLevel),
	}
}

// NewWithDataset returns a provider seeded with the bundled reference
// dataset (users, foods, condition-nutrient table, templates, facts).
func NewWithDataset() *Provider {
	p := New()
	for _, u := range DatasetUsers() {
		p.AddUser(u)
	}
	for _, f := range DatasetFoods() {
		p.AddFood(f)
	}
	for _, w := range DatasetConditionWeights() {
		p.AddConditionWeight(w)
	}
	for _, t := range DatasetTemplates() {
		p.AddTemplate(t)
	}
	for _, f := range DatasetFacts() {
		p.AddFact(f)
	}
	return p
}

// --------------------------------------------------------------------------
// Mutators (construction and test setup)
// --------------------------------------------------------------------------

func (p *Provider) AddUser(u agent.UserProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
}

func (p *Provider) AddFood(f agent.FoodItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foods = append(p.foods, f)
}

func (p *Provider) AddConditionWeight(w agent.ConditionNutrientWeight) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weights = append(p.weights, w)
}

func (p *Provider) AddActivity(ev agent.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activity = append(p.activity, ev)
}

func (p *Provider) AddTemplate(t agent.MessageTemplate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.templates = append(p.templates, t)
}

func (p *Provider) AddFact(f agent.Fact) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.facts = append(p.facts, f)
}

// SetAvailability overrides the availability level for a food. Foods without
// an override report full availability.
func (p *Provider) SetAvailability(foodID string, level agent.AvailabilityLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[foodID] = level
}

// --------------------------------------------------------------------------
// agent.DataProvider
// --------------------------------------------------------------------------

func (p *Provider) GetUser(_ context.Context, id string) (*agent.UserProfile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, agent.ErrNotFound)
	}
	return &u, nil
}

func (p *Provider) ListFoods(_ context.Context) ([]agent.FoodItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]agent.FoodItem, len(p.foods))
	copy(out, p.foods)
	return out, nil
}

func (p *Provider) GetConditionWeights(_ context.Context, condition string) ([]agent.ConditionNutrientWeight, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []agent.ConditionNutrientWeight
	for _, w := range p.weights {
		if w.Condition == condition {
			out = append(out, w)
		}
	}
	return out, nil
}

func (p *Provider) ListConditions(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, w := range p.weights {
		if _, ok := seen[w.Condition]; !ok {
			seen[w.Condition] = struct{}{}
			out = append(out, w.Condition)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (p *Provider) GetActivity(_ context.Context, userID string, since time.Time) ([]agent.ActivityEvent, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []agent.ActivityEvent
	for _, ev := range p.activity {
		if ev.UserID == userID && !ev.Timestamp.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (p *Provider) GetNotificationLog(_ context.Context, userID string, since time.Time) ([]agent.NotificationLogEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []agent.NotificationLogEntry
	for _, entry := range p.log {
		if entry.UserID == userID && !entry.SentAt.Before(since) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (p *Provider) AppendNotificationLog(_ context.Context, entry agent.NotificationLogEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, entry)
	return nil
}

func (p *Provider) Availability(_ context.Context, foodID, _ string) (agent.AvailabilityLevel, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if level, ok := p.overrides[foodID]; ok {
		return level, nil
	}
	return agent.AvailabilityFull, nil
}

func (p *Provider) ListTemplates(_ context.Context) ([]agent.MessageTemplate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]agent.MessageTemplate, len(p.templates))
	copy(out, p.templates)
	return out, nil
}

func (p *Provider) ListFacts(_ context.Context) ([]agent.Fact, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]agent.Fact, len(p.facts))
	copy(out, p.facts)
	return out, nil
}

func (p *Provider) ListUserIDs(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.users))
	for id := range p.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
