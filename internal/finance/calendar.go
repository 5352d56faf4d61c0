// Package finance holds the pure cycle and money computations. Nothing in
// this package mutates state or touches the clock; callers pass an "as of"
// date explicitly.
package finance

import (
	"sort"
	"time"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/model"
)

// safeDate builds a date, clamping the day down to the last valid day of the
// month (e.g. Feb 31 -> Feb 28).
func safeDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	for day > 28 {
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		if d.Month() == month {
			return d
		}
		day--
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// prevMonth steps a year/month pair back by one month.
func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// nextMonth steps a year/month pair forward by one month.
func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// FirstOfNextMonth returns the first day of the month after d.
func FirstOfNextMonth(d time.Time) time.Time {
	y, m := nextMonth(d.Year(), d.Month())
	return time.Date(y, m, 1, 0, 0, 0, 0, d.Location())
}

// AnchorDay returns the day-of-month anchoring cycle starts: the largest
// configured income day. ok is false when no income sources exist.
func AnchorDay(cfg config.Config) (int, bool) {
	day := 0
	for _, src := range cfg.IncomeSources {
		if src.Day > day {
			day = src.Day
		}
	}
	return day, day > 0
}

// CycleStart resolves the start of the cycle containing today: the most
// recent anchor day-of-month on or before today, crossing the month boundary
// when today precedes this month's anchor.
func CycleStart(today time.Time, cfg config.Config) (time.Time, error) {
	anchor, ok := AnchorDay(cfg)
	if !ok {
		return time.Time{}, model.ErrNoActiveCycle
	}

	day := model.Day(today)
	year, month := day.Year(), day.Month()
	candidate := safeDate(year, month, anchor, day.Location())
	if candidate.After(day) {
		year, month = prevMonth(year, month)
		candidate = safeDate(year, month, anchor, day.Location())
	}
	return candidate, nil
}

// CycleEnd returns the last day of a cycle starting at start.
func CycleEnd(start time.Time, cfg config.Config) time.Time {
	return model.Day(start).AddDate(0, 0, cfg.Cycle.LengthDays-1)
}

// NextAnchorAfter returns the first anchor-day occurrence strictly after d.
func NextAnchorAfter(d time.Time, cfg config.Config) (time.Time, bool) {
	anchor, ok := AnchorDay(cfg)
	if !ok {
		return time.Time{}, false
	}
	day := model.Day(d)
	candidate := safeDate(day.Year(), day.Month(), anchor, day.Location())
	if !candidate.After(day) {
		y, m := nextMonth(day.Year(), day.Month())
		candidate = safeDate(y, m, anchor, day.Location())
	}
	return candidate, true
}

// UpcomingAnchor returns the next anchor day on or after d.
func UpcomingAnchor(d time.Time, cfg config.Config) (time.Time, bool) {
	anchor, ok := AnchorDay(cfg)
	if !ok {
		return time.Time{}, false
	}
	day := model.Day(d)
	if day.Day() <= anchor {
		return safeDate(day.Year(), day.Month(), anchor, day.Location()), true
	}
	y, m := nextMonth(day.Year(), day.Month())
	return safeDate(y, m, anchor, day.Location()), true
}

// resolveIncomeDate places a configured income day on or after the cycle
// start, rolling into the following month when the day already passed.
func resolveIncomeDate(start time.Time, day int) time.Time {
	if day >= start.Day() {
		return safeDate(start.Year(), start.Month(), day, start.Location())
	}
	y, m := nextMonth(start.Year(), start.Month())
	return safeDate(y, m, day, start.Location())
}

// PlannedIncomes expands the income schedule into concrete dated entries
// falling inside the cycle window.
func PlannedIncomes(start time.Time, cfg config.Config) []model.Income {
	end := CycleEnd(start, cfg)
	var entries []model.Income
	for _, src := range cfg.IncomeSources {
		date := resolveIncomeDate(model.Day(start), src.Day)
		if date.Before(model.Day(start)) || date.After(end) {
			continue
		}
		entries = append(entries, model.Income{
			Date:   date,
			Amount: rupees(src.Amount),
			Label:  src.Label,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// daysBetween counts calendar days from a to b, ignoring clock offsets.
func daysBetween(a, b time.Time) int {
	da, db := model.Day(a), model.Day(b)
	return int(db.Sub(da).Hours() / 24)
}
