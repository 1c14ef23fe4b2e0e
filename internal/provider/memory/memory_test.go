package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
)

func TestDatasetLoads(t *testing.T) {
	p := NewWithDataset()
	ctx := context.Background()

	ids, err := p.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs: %v", err)
	}
	if len(ids) != 6 {
		t.Errorf("users = %d, want 6", len(ids))
	}

	foods, err := p.ListFoods(ctx)
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(foods) != 12 {
		t.Errorf("foods = %d, want 12", len(foods))
	}

	conditions, err := p.ListConditions(ctx)
	if err != nil {
		t.Fatalf("ListConditions: %v", err)
	}
	if len(conditions) != 6 {
		t.Errorf("conditions = %d, want 6", len(conditions))
	}

	for _, u := range DatasetUsers() {
		for _, cond := range u.Conditions {
			rows, err := p.GetConditionWeights(ctx, cond)
			if err != nil {
				t.Fatalf("GetConditionWeights(%q): %v", cond, err)
			}
			if len(rows) == 0 {
				t.Errorf("user %s condition %q has no weight rows", u.ID, cond)
			}
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	p := NewWithDataset()
	_, err := p.GetUser(context.Background(), "nobody")
	if !errors.Is(err, agent.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAvailabilityDefaultsToFull(t *testing.T) {
	p := NewWithDataset()
	ctx := context.Background()

	level, err := p.Availability(ctx, "f001", "Mumbai")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if level != agent.AvailabilityFull {
		t.Errorf("level = %s, want full", level)
	}

	p.SetAvailability("f001", agent.AvailabilityNone)
	level, _ = p.Availability(ctx, "f001", "Mumbai")
	if level != agent.AvailabilityNone {
		t.Errorf("overridden level = %s, want none", level)
	}
}

func TestLogAndActivityFiltering(t *testing.T) {
	p := New()
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	entries := []agent.NotificationLogEntry{
		{UserID: "u001", SentAt: now.AddDate(0, 0, -10), Trigger: agent.TriggerPreMeal, FoodID: "f001"},
		{UserID: "u001", SentAt: now.AddDate(0, 0, -1), Trigger: agent.TriggerSocialViral, FoodID: "f002"},
		{UserID: "u002", SentAt: now.AddDate(0, 0, -1), Trigger: agent.TriggerPreMeal, FoodID: "f003"},
	}
	for _, e := range entries {
		if err := p.AppendNotificationLog(ctx, e); err != nil {
			t.Fatalf("AppendNotificationLog: %v", err)
		}
	}

	got, err := p.GetNotificationLog(ctx, "u001", now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("GetNotificationLog: %v", err)
	}
	if len(got) != 1 || got[0].FoodID != "f002" {
		t.Errorf("log = %+v, want just the recent u001 entry", got)
	}

	p.AddActivity(agent.ActivityEvent{UserID: "u001", Timestamp: now.Add(-time.Hour), Event: agent.EventWorkedOut})
	p.AddActivity(agent.ActivityEvent{UserID: "u002", Timestamp: now.Add(-time.Hour), Event: agent.EventWorkedOut})

	activity, err := p.GetActivity(ctx, "u001", now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if len(activity) != 1 || activity[0].UserID != "u001" {
		t.Errorf("activity = %+v, want only u001 rows", activity)
	}
}
