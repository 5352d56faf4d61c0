package config

import (
	"fmt"

	"github.com/rsinha/cashguard/internal/model"
)

// ValidateOverride checks an override's category, item, and amount before it
// is stored.
func ValidateOverride(ov model.Override) error {
	if ov.Amount < 0 {
		return fmt.Errorf("%w: override amount must be >= 0", model.ErrInvalidAmount)
	}
	switch ov.Category {
	case "weekday", "saturday", "sunday":
	default:
		return fmt.Errorf("%w: unknown default category %q", model.ErrConfigInvalid, ov.Category)
	}
	switch ov.Item {
	case "breakfast", "lunch", "dinner", "other":
	default:
		return fmt.Errorf("%w: unknown default item %q", model.ErrConfigInvalid, ov.Item)
	}
	return nil
}

// WithOverrides returns a copy of the config with daily-default overrides
// applied. The receiver is never mutated; callers always work from a fresh
// effective snapshot. Unknown overrides are skipped.
func (c Config) WithOverrides(overrides []model.Override) Config {
	out := c
	for _, ov := range overrides {
		if ValidateOverride(ov) != nil {
			continue
		}
		var md *MealDefaults
		switch ov.Category {
		case "weekday":
			md = &out.DailyDefaults.Weekday
		case "saturday":
			md = &out.DailyDefaults.Saturday
		case "sunday":
			md = &out.DailyDefaults.Sunday
		}
		switch ov.Item {
		case "breakfast":
			md.Breakfast = ov.Amount
		case "lunch":
			md.Lunch = ov.Amount
		case "dinner":
			md.Dinner = ov.Amount
		case "other":
			md.Other = ov.Amount
		}
	}
	return out
}
