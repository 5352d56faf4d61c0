package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rsinha/cashguard/internal/model"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rent", func(c *Config) { c.FixedBills.Rent = -1 }},
		{"due day zero", func(c *Config) { c.FixedBills.DueDay = 0 }},
		{"due day past 28", func(c *Config) { c.FixedBills.DueDay = 29 }},
		{"electricity month 13", func(c *Config) { c.FixedBills.ElectricityDueMonths = []int{13} }},
		{"income day 32", func(c *Config) { c.IncomeSources[0].Day = 32 }},
		{"negative income", func(c *Config) { c.IncomeSources[0].Amount = -100 }},
		{"negative default", func(c *Config) { c.DailyDefaults.Sunday.Lunch = -5 }},
		{"zero cycle length", func(c *Config) { c.Cycle.LengthDays = 0 }},
		{"bad timezone", func(c *Config) { c.Cycle.Timezone = "Mars/Olympus" }},
		{"bad checkin time", func(c *Config) { c.Cycle.CheckinTime = "half nine" }},
		{"checkin hour 24", func(c *Config) { c.Cycle.CheckinTime = "24:00" }},
		{"zero confirm window", func(c *Config) { c.Cycle.ConfirmWindowMin = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, model.ErrConfigInvalid) {
				t.Errorf("Validate() = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

func TestCheckinClock(t *testing.T) {
	c := CycleConfig{CheckinTime: "21:30"}
	h, m, err := c.CheckinClock()
	if err != nil {
		t.Fatalf("CheckinClock() error: %v", err)
	}
	if h != 21 || m != 30 {
		t.Errorf("CheckinClock() = %d:%d, want 21:30", h, m)
	}
}

func TestCheckinAt(t *testing.T) {
	cfg := DefaultConfig()
	loc := time.UTC
	date := time.Date(2025, 5, 14, 7, 0, 0, 0, loc)

	at, err := cfg.Cycle.CheckinAt(date, loc)
	if err != nil {
		t.Fatalf("CheckinAt() error: %v", err)
	}
	want := time.Date(2025, 5, 14, 21, 30, 0, 0, loc)
	if !at.Equal(want) {
		t.Errorf("CheckinAt() = %s, want %s", at, want)
	}
}

func TestTiffinTotal(t *testing.T) {
	f := FixedBillsConfig{TiffinDailyCost: 100, TiffinWeekdayCount: 22, TiffinSaturdayCount: 3}
	if got := f.TiffinTotal(); got != 2500 {
		t.Errorf("TiffinTotal() = %d, want 2500", got)
	}
}

func TestElectricityDueIn(t *testing.T) {
	f := FixedBillsConfig{ElectricityDueMonths: []int{2, 4, 6, 8, 10, 12}}
	if !f.ElectricityDueIn(time.June) {
		t.Error("ElectricityDueIn(June) = false, want true")
	}
	if f.ElectricityDueIn(time.May) {
		t.Error("ElectricityDueIn(May) = true, want false")
	}
}

func TestForDate(t *testing.T) {
	d := DailyDefaultsConfig{
		Weekday:  MealDefaults{Breakfast: 35},
		Saturday: MealDefaults{Breakfast: 40},
		Sunday:   MealDefaults{Lunch: 120},
	}
	// 2025-05-12 is a Monday, 17th a Saturday, 18th a Sunday.
	if got := d.ForDate(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)); got.Breakfast != 35 {
		t.Errorf("monday breakfast = %d, want 35", got.Breakfast)
	}
	if got := d.ForDate(time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)); got.Breakfast != 40 {
		t.Errorf("saturday breakfast = %d, want 40", got.Breakfast)
	}
	if got := d.ForDate(time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)); got.Lunch != 120 {
		t.Errorf("sunday lunch = %d, want 120", got.Lunch)
	}
}

func TestWithOverridesDoesNotMutate(t *testing.T) {
	cfg := DefaultConfig()
	out := cfg.WithOverrides([]model.Override{
		{Category: "weekday", Item: "dinner", Amount: 110},
		{Category: "sunday", Item: "lunch", Amount: 150},
		{Category: "bogus", Item: "dinner", Amount: 999},
	})

	if out.DailyDefaults.Weekday.Dinner != 110 {
		t.Errorf("override weekday dinner = %d, want 110", out.DailyDefaults.Weekday.Dinner)
	}
	if out.DailyDefaults.Sunday.Lunch != 150 {
		t.Errorf("override sunday lunch = %d, want 150", out.DailyDefaults.Sunday.Lunch)
	}
	if cfg.DailyDefaults.Weekday.Dinner != 90 {
		t.Errorf("original mutated: weekday dinner = %d, want 90", cfg.DailyDefaults.Weekday.Dinner)
	}
}

func TestValidateOverride(t *testing.T) {
	if err := ValidateOverride(model.Override{Category: "weekday", Item: "lunch", Amount: 60}); err != nil {
		t.Errorf("valid override rejected: %v", err)
	}
	if err := ValidateOverride(model.Override{Category: "friday", Item: "lunch", Amount: 60}); err == nil {
		t.Error("unknown category accepted")
	}
	if err := ValidateOverride(model.Override{Category: "weekday", Item: "snacks", Amount: 60}); err == nil {
		t.Error("unknown item accepted")
	}
	if err := ValidateOverride(model.Override{Category: "weekday", Item: "lunch", Amount: -1}); err == nil {
		t.Error("negative amount accepted")
	}
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cycle.CheckinTime != "21:30" {
		t.Errorf("CheckinTime = %q, want 21:30", cfg.Cycle.CheckinTime)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.FixedBills.Rent = 6500
	cfg.IncomeSources = append(cfg.IncomeSources, IncomeSourceConfig{Day: 1, Amount: 2000, Label: "Stipend"})
	cfg.Cycle.CheckinTime = "22:00"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.FixedBills.Rent != 6500 {
		t.Errorf("Rent = %d, want 6500", got.FixedBills.Rent)
	}
	if len(got.IncomeSources) != 2 || got.IncomeSources[1].Label != "Stipend" {
		t.Errorf("IncomeSources = %+v, want 2 entries with Stipend", got.IncomeSources)
	}
	if got.Cycle.CheckinTime != "22:00" {
		t.Errorf("CheckinTime = %q, want 22:00", got.Cycle.CheckinTime)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "cashguard", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("cycle = not toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); !errors.Is(err, model.ErrConfigInvalid) {
		t.Errorf("Load() = %v, want ErrConfigInvalid", err)
	}
}
