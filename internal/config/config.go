// Package config loads and validates the cashguard configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rsinha/cashguard/internal/model"
)

// Config holds all cashguard configuration. Amounts are whole rupees.
type Config struct {
	FixedBills    FixedBillsConfig     `toml:"fixed_bills"`
	IncomeSources []IncomeSourceConfig `toml:"income_sources"`
	DailyDefaults DailyDefaultsConfig  `toml:"daily_defaults"`
	Cycle         CycleConfig          `toml:"cycle"`
}

// FixedBillsConfig holds the fixed monthly obligations. All bills fall due
// on DueDay of the month following the cycle start. Electricity recurs only
// in the configured due months; the others recur every month.
type FixedBillsConfig struct {
	Rent                 int64 `toml:"rent"`
	TiffinDailyCost      int64 `toml:"tiffin_daily_cost"`
	TiffinWeekdayCount   int   `toml:"tiffin_weekday_count"`
	TiffinSaturdayCount  int   `toml:"tiffin_saturday_count"`
	ElectricityAmount    int64 `toml:"electricity_amount"`
	ElectricityDueMonths []int `toml:"electricity_due_months"`
	DueDay               int   `toml:"due_day"`
}

// TiffinTotal is the full tiffin pre-pay for one cycle.
func (f FixedBillsConfig) TiffinTotal() int64 {
	return f.TiffinDailyCost * int64(f.TiffinWeekdayCount+f.TiffinSaturdayCount)
}

// ElectricityDueIn reports whether the electricity bill falls due in the
// given month.
func (f FixedBillsConfig) ElectricityDueIn(month time.Month) bool {
	for _, m := range f.ElectricityDueMonths {
		if time.Month(m) == month {
			return true
		}
	}
	return false
}

// IncomeSourceConfig describes one expected income per month. The largest
// configured day anchors the cycle start.
type IncomeSourceConfig struct {
	Day    int    `toml:"day"`
	Amount int64  `toml:"amount"`
	Label  string `toml:"label"`
}

// MealDefaults holds the default spend amounts for one day type.
type MealDefaults struct {
	Breakfast int64 `toml:"breakfast"`
	Lunch     int64 `toml:"lunch"`
	Dinner    int64 `toml:"dinner"`
	Other     int64 `toml:"other"`
}

// Total sums all default items for the day type.
func (m MealDefaults) Total() int64 {
	return m.Breakfast + m.Lunch + m.Dinner + m.Other
}

// DailyDefaultsConfig maps day types to default spend amounts.
type DailyDefaultsConfig struct {
	Weekday  MealDefaults `toml:"weekday"`
	Saturday MealDefaults `toml:"saturday"`
	Sunday   MealDefaults `toml:"sunday"`
}

// ForDate returns the defaults matching the date's day type.
func (d DailyDefaultsConfig) ForDate(t time.Time) MealDefaults {
	switch t.Weekday() {
	case time.Saturday:
		return d.Saturday
	case time.Sunday:
		return d.Sunday
	default:
		return d.Weekday
	}
}

// CycleConfig holds cycle timing parameters.
type CycleConfig struct {
	LengthDays        int    `toml:"length_days"`
	Timezone          string `toml:"timezone"`
	CheckinTime       string `toml:"checkin_time"`
	ConfirmWindowMin  int    `toml:"confirm_window_min"`
	SpendLogWindowMin int    `toml:"spend_log_window_min"`
}

// Location resolves the configured timezone.
func (c CycleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", model.ErrConfigInvalid, c.Timezone, err)
	}
	return loc, nil
}

// CheckinClock parses the HH:MM check-in time.
func (c CycleConfig) CheckinClock() (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(c.CheckinTime), ":", 2)
	if len(parts) == 2 {
		h, herr := strconv.Atoi(parts[0])
		m, merr := strconv.Atoi(parts[1])
		if herr == nil && merr == nil && h >= 0 && h < 24 && m >= 0 && m < 60 {
			return h, m, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: checkin_time %q, expected HH:MM", model.ErrConfigInvalid, c.CheckinTime)
}

// CheckinAt returns the check-in instant for the given date in loc.
func (c CycleConfig) CheckinAt(date time.Time, loc *time.Location) (time.Time, error) {
	h, m, err := c.CheckinClock()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc), nil
}

// ConfirmWindow is the duration after the prompt before defaults auto-apply.
func (c CycleConfig) ConfirmWindow() time.Duration {
	return time.Duration(c.ConfirmWindowMin) * time.Minute
}

// SpendLogWindow is the grace period for replacing auto-filled spend logs.
func (c CycleConfig) SpendLogWindow() time.Duration {
	return time.Duration(c.SpendLogWindowMin) * time.Minute
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		FixedBills: FixedBillsConfig{
			Rent:                 6000,
			TiffinDailyCost:      100,
			TiffinWeekdayCount:   22,
			TiffinSaturdayCount:  3,
			ElectricityAmount:    1200,
			ElectricityDueMonths: []int{2, 4, 6, 8, 10, 12},
			DueDay:               1,
		},
		IncomeSources: []IncomeSourceConfig{
			{Day: 10, Amount: 15000, Label: "Salary"},
		},
		DailyDefaults: DailyDefaultsConfig{
			Weekday:  MealDefaults{Breakfast: 35, Lunch: 50, Dinner: 90},
			Saturday: MealDefaults{Breakfast: 35, Lunch: 50, Dinner: 90},
			Sunday:   MealDefaults{Lunch: 120},
		},
		Cycle: CycleConfig{
			LengthDays:        30,
			Timezone:          "Asia/Kolkata",
			CheckinTime:       "21:30",
			ConfirmWindowMin:  60,
			SpendLogWindowMin: 120,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashguard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashguard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding persisted cycle state.
func DataDir() string {
	if dir := os.Getenv("CASHGUARD_DATA_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashguard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cashguard")
}

// Load reads the config file, returning defaults if it doesn't exist.
// The result is validated; a malformed file fails here, never later.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config: %v", model.ErrConfigInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate checks the configuration for values that would corrupt cycle
// arithmetic at runtime.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", model.ErrConfigInvalid, fmt.Sprintf(format, args...))
	}

	if c.FixedBills.Rent < 0 || c.FixedBills.TiffinDailyCost < 0 || c.FixedBills.ElectricityAmount < 0 {
		return bad("fixed bill amounts must be >= 0")
	}
	if c.FixedBills.TiffinWeekdayCount < 0 || c.FixedBills.TiffinSaturdayCount < 0 {
		return bad("tiffin meal counts must be >= 0")
	}
	if c.FixedBills.DueDay < 1 || c.FixedBills.DueDay > 28 {
		return bad("due_day %d outside 1..28", c.FixedBills.DueDay)
	}
	for _, m := range c.FixedBills.ElectricityDueMonths {
		if m < 1 || m > 12 {
			return bad("electricity due month %d outside 1..12", m)
		}
	}
	for _, src := range c.IncomeSources {
		if src.Day < 1 || src.Day > 31 {
			return bad("income source %q day %d outside 1..31", src.Label, src.Day)
		}
		if src.Amount < 0 {
			return bad("income source %q amount must be >= 0", src.Label)
		}
	}
	for name, md := range map[string]MealDefaults{
		"weekday":  c.DailyDefaults.Weekday,
		"saturday": c.DailyDefaults.Saturday,
		"sunday":   c.DailyDefaults.Sunday,
	} {
		if md.Breakfast < 0 || md.Lunch < 0 || md.Dinner < 0 || md.Other < 0 {
			return bad("%s defaults must be >= 0", name)
		}
	}
	if c.Cycle.LengthDays < 1 {
		return bad("cycle length_days must be >= 1")
	}
	if _, err := c.Cycle.Location(); err != nil {
		return err
	}
	if _, _, err := c.Cycle.CheckinClock(); err != nil {
		return err
	}
	if c.Cycle.ConfirmWindowMin < 1 || c.Cycle.SpendLogWindowMin < 1 {
		return bad("confirmation windows must be >= 1 minute")
	}
	return nil
}
