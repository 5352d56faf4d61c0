// Package model defines the core data types for the budgeting cycle engine.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateKey formats a time as the canonical day-granularity map key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Day truncates a time to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// Income is one received (or planned) income entry within a cycle.
type Income struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
}

// DaySpend is the spend record for a single calendar date. Each date has at
// most one record; re-logging overwrites it.
type DaySpend struct {
	Date       time.Time       `json:"date"`
	Breakfast  decimal.Decimal `json:"breakfast"`
	Lunch      decimal.Decimal `json:"lunch"`
	Dinner     decimal.Decimal `json:"dinner"`
	Other      decimal.Decimal `json:"other"`
	Extra      decimal.Decimal `json:"extra"`
	AutoFilled bool            `json:"auto_filled"`
	Note       string          `json:"note,omitempty"`
}

// Total returns the full spend for the day including extras.
func (d DaySpend) Total() decimal.Decimal {
	return d.Breakfast.Add(d.Lunch).Add(d.Dinner).Add(d.Other).Add(d.Extra)
}

// Cycle is one budgeting period anchored to a salary date.
type Cycle struct {
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	OpeningBalance decimal.Decimal     `json:"opening_balance"`
	Incomes        []Income            `json:"incomes"`
	Spends         map[string]DaySpend `json:"spends"`
}

// ID derives the cycle identifier from its start date.
func (c *Cycle) ID() string {
	return DateKey(c.StartDate)
}

// Contains reports whether a date falls inside the cycle window
// [StartDate, EndDate]. Comparison is by calendar date, so dates loaded
// from storage and dates built in the configured timezone compare the
// same way regardless of location.
func (c *Cycle) Contains(d time.Time) bool {
	key := DateKey(d)
	return key >= DateKey(c.StartDate) && key <= DateKey(c.EndDate)
}

// Elapsed reports whether the cycle window has fully passed as of today.
func (c *Cycle) Elapsed(today time.Time) bool {
	return DateKey(today) > DateKey(c.EndDate)
}

// IncomesThrough sums all incomes dated on or before asOf.
func (c *Cycle) IncomesThrough(asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	limit := DateKey(asOf)
	for _, in := range c.Incomes {
		if DateKey(in.Date) <= limit {
			total = total.Add(in.Amount)
		}
	}
	return total
}

// SpendsThrough sums all logged day spends dated on or before asOf.
func (c *Cycle) SpendsThrough(asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	limit := DateKey(asOf)
	for _, sp := range c.Spends {
		if DateKey(sp.Date) <= limit {
			total = total.Add(sp.Total())
		}
	}
	return total
}

// Spend returns the spend record for a date, if logged.
func (c *Cycle) Spend(date time.Time) (DaySpend, bool) {
	sp, ok := c.Spends[DateKey(date)]
	return sp, ok
}

// PutSpend upserts the spend record for its date.
func (c *Cycle) PutSpend(sp DaySpend) {
	if c.Spends == nil {
		c.Spends = make(map[string]DaySpend)
	}
	c.Spends[DateKey(sp.Date)] = sp
}
