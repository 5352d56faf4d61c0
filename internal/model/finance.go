package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SinkingBreakdown itemizes the sinking fund target for a cycle.
type SinkingBreakdown struct {
	Rent        decimal.Decimal `json:"rent"`
	Tiffin      decimal.Decimal `json:"tiffin"`
	Electricity decimal.Decimal `json:"electricity"`
	Survival    decimal.Decimal `json:"survival"`
}

// Total sums all sinking fund components.
func (b SinkingBreakdown) Total() decimal.Decimal {
	return b.Rent.Add(b.Tiffin).Add(b.Electricity).Add(b.Survival)
}

// ItemTally accumulates one default spend item over a date window.
type ItemTally struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// RequiredFunds is the cash that must be held to cover obligations through
// the end of one window.
type RequiredFunds struct {
	Start               time.Time            `json:"start"`
	End                 time.Time            `json:"end"`
	Rent                decimal.Decimal      `json:"rent"`
	Tiffin              decimal.Decimal      `json:"tiffin"`
	TiffinWeekdayMeals  int                  `json:"tiffin_weekday_meals"`
	TiffinSaturdayMeals int                  `json:"tiffin_saturday_meals"`
	Electricity         decimal.Decimal      `json:"electricity"`
	ElectricityDue      time.Time            `json:"electricity_due"`
	DailySpendTotal     decimal.Decimal      `json:"daily_spend_total"`
	DayCount            int                  `json:"day_count"`
	DailyBreakdown      map[string]ItemTally `json:"daily_breakdown"`
	Total               decimal.Decimal      `json:"total"`
}

// StatusSnapshot is the full figure set served to the transport layer.
type StatusSnapshot struct {
	AsOf            time.Time        `json:"as_of"`
	CycleID         string           `json:"cycle_id"`
	CycleStart      time.Time        `json:"cycle_start"`
	CycleEnd        time.Time        `json:"cycle_end"`
	DaysLeft        int              `json:"days_left"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	IncomesToDate   decimal.Decimal  `json:"incomes_to_date"`
	SpendsToDate    decimal.Decimal  `json:"spends_to_date"`
	SinkingFund     SinkingBreakdown `json:"sinking_fund"`
	SinkingTotal    decimal.Decimal  `json:"sinking_total"`
	DailyAllowance  decimal.Decimal  `json:"daily_allowance"`
	RollingAverage  decimal.Decimal  `json:"rolling_average"`
	WiggleRoom      decimal.Decimal  `json:"wiggle_room"`
	RequiredPrimary RequiredFunds    `json:"required_primary"`
	RequiredAnchor  RequiredFunds    `json:"required_anchor"`
	PendingCheckIn  *CheckIn         `json:"pending_checkin,omitempty"`
}
