package agent

import (
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative weight", func(c *Config) { c.W1 = -0.1 }, "weight w1"},
		{"zero top n", func(c *Config) { c.TopN = 0 }, "top_n"},
		{"zero max per day", func(c *Config) { c.MaxPerDay = 0 }, "max_per_day"},
		{"negative min gap", func(c *Config) { c.MinGap = -1 }, "min_gap"},
		{"quiet hour out of range", func(c *Config) { c.QuietStartHour = 24 }, "quiet hours"},
		{"peak hour out of range", func(c *Config) { c.PeakEndHour = -1 }, "peak hours"},
		{"zero novelty window", func(c *Config) { c.NoveltyWindowDays = 0 }, "novelty_window_days"},
		{"zero gap window", func(c *Config) { c.GapWindowDays = 0 }, "gap_window_days"},
		{"zero condition window", func(c *Config) { c.ConditionWindowDays = 0 }, "condition_window_days"},
		{"zero pre-meal lead", func(c *Config) { c.PreMealLead = 0 }, "pre_meal_lead"},
		{"zero post-activity window", func(c *Config) { c.PostActivityWindow = 0 }, "post_activity_window"},
		{"boost above one", func(c *Config) { c.LimitedAvailabilityBoost = 1.5 }, "limited_availability_boost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("error %q missing invalid configuration prefix", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
