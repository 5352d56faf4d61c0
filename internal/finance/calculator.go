package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/model"
)

func rupees(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// DefaultTotal returns the total default spend for a date's day type.
func DefaultTotal(date time.Time, cfg config.Config) decimal.Decimal {
	return rupees(cfg.DailyDefaults.ForDate(date).Total())
}

// DefaultSpend materializes the day-type defaults as a spend record.
func DefaultSpend(date time.Time, cfg config.Config, autoFilled bool) model.DaySpend {
	md := cfg.DailyDefaults.ForDate(date)
	return model.DaySpend{
		Date:       model.Day(date),
		Breakfast:  rupees(md.Breakfast),
		Lunch:      rupees(md.Lunch),
		Dinner:     rupees(md.Dinner),
		Other:      rupees(md.Other),
		Extra:      decimal.Zero,
		AutoFilled: autoFilled,
	}
}

// BillDueDate returns the fixed-bill due date for a cycle: the configured
// due day of the month following the cycle start.
func BillDueDate(cycleStart time.Time, cfg config.Config) time.Time {
	y, m := nextMonth(cycleStart.Year(), cycleStart.Month())
	return safeDate(y, m, cfg.FixedBills.DueDay, cycleStart.Location())
}

// SinkingFundTarget computes the sinking fund breakdown as of a date: fixed
// bills still due within the cycle window plus the survival cushion covering
// the gap between cycle end and the next income. A bill due exactly on asOf
// counts as due.
func SinkingFundTarget(cfg config.Config, cycle *model.Cycle, asOf time.Time) model.SinkingBreakdown {
	end := model.Day(cycle.EndDate)
	day := model.Day(asOf)
	due := BillDueDate(cycle.StartDate, cfg)

	var b model.SinkingBreakdown
	b.Rent = decimal.Zero
	b.Tiffin = decimal.Zero
	b.Electricity = decimal.Zero

	dueInWindow := !due.Before(day) && !due.After(end)
	if dueInWindow {
		b.Rent = rupees(cfg.FixedBills.Rent)
		b.Tiffin = rupees(cfg.FixedBills.TiffinTotal())
		if cfg.FixedBills.ElectricityDueIn(due.Month()) {
			b.Electricity = rupees(cfg.FixedBills.ElectricityAmount)
		}
	}

	b.Survival = survivalCushion(end, cfg)
	return b
}

// survivalCushion sums day-type defaults over the days strictly after the
// cycle end and strictly before the next scheduled income.
func survivalCushion(cycleEnd time.Time, cfg config.Config) decimal.Decimal {
	next, ok := NextAnchorAfter(cycleEnd, cfg)
	if !ok {
		return decimal.Zero
	}
	total := decimal.Zero
	for d := model.Day(cycleEnd).AddDate(0, 0, 1); d.Before(next); d = d.AddDate(0, 0, 1) {
		total = total.Add(DefaultTotal(d, cfg))
	}
	return total
}

// DaysRemaining counts cycle days from asOf through the end date inclusive.
// Zero when the cycle has elapsed.
func DaysRemaining(cycle *model.Cycle, asOf time.Time) int {
	n := daysBetween(asOf, cycle.EndDate) + 1
	if n < 0 {
		return 0
	}
	return n
}

// DailyWalletAllowance divides what is left after the sinking fund across
// the remaining cycle days, today included. Never negative.
func DailyWalletAllowance(cfg config.Config, cycle *model.Cycle, asOf time.Time) decimal.Decimal {
	days := DaysRemaining(cycle, asOf)
	if days <= 0 {
		return decimal.Zero
	}

	available := cycle.OpeningBalance.
		Add(cycle.IncomesThrough(asOf)).
		Sub(SinkingFundTarget(cfg, cycle, asOf).Total()).
		Sub(cycle.SpendsThrough(asOf))
	if available.IsNegative() {
		return decimal.Zero
	}
	return available.DivRound(decimal.NewFromInt(int64(days)), 2)
}

// RollingAverage is the mean daily spend over logged days strictly before
// asOf. With nothing logged yet it falls back to the day-type default for
// asOf, so cycle day one never divides by zero.
func RollingAverage(cfg config.Config, cycle *model.Cycle, asOf time.Time) decimal.Decimal {
	limit := model.Day(asOf)
	total := decimal.Zero
	count := 0
	for _, sp := range cycle.Spends {
		if model.Day(sp.Date).Before(limit) {
			total = total.Add(sp.Total())
			count++
		}
	}
	if count == 0 {
		return DefaultTotal(asOf, cfg)
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}

// WiggleRoom is the daily allowance minus the rolling average. Negative
// values signal an overspend trend.
func WiggleRoom(cfg config.Config, cycle *model.Cycle, asOf time.Time) decimal.Decimal {
	return DailyWalletAllowance(cfg, cycle, asOf).Sub(RollingAverage(cfg, cycle, asOf))
}

// ExpectedDefaultSpend sums the day-type defaults over a whole cycle.
func ExpectedDefaultSpend(start time.Time, cfg config.Config) decimal.Decimal {
	total := decimal.Zero
	for i := 0; i < cfg.Cycle.LengthDays; i++ {
		total = total.Add(DefaultTotal(model.Day(start).AddDate(0, 0, i), cfg))
	}
	return total
}

// RequiredCashToday computes the cash-on-hand breakdowns for two windows:
// through the bill due day of the next month, and through the next income
// anchor day. Both windows include their end dates.
func RequiredCashToday(cfg config.Config, asOf time.Time) (primary, anchor model.RequiredFunds) {
	day := model.Day(asOf)
	dueDate := BillDueDate(day, cfg)
	anchorDate, hasAnchor := UpcomingAnchor(day, cfg)
	if !hasAnchor {
		anchorDate = dueDate
	}

	primary = requiredWindow(cfg, day, dueDate, dueDate)
	anchor = requiredWindow(cfg, day, anchorDate, dueDate)
	return primary, anchor
}

// requiredWindow tallies bills due within [start, end] plus default daily
// spend across the window.
func requiredWindow(cfg config.Config, start, end, billDue time.Time) model.RequiredFunds {
	rf := model.RequiredFunds{
		Start:               start,
		End:                 end,
		TiffinWeekdayMeals:  cfg.FixedBills.TiffinWeekdayCount,
		TiffinSaturdayMeals: cfg.FixedBills.TiffinSaturdayCount,
		ElectricityDue:      billDue,
		Rent:                decimal.Zero,
		Tiffin:              decimal.Zero,
		Electricity:         decimal.Zero,
		DailyBreakdown:      make(map[string]model.ItemTally),
	}

	if !billDue.After(end) {
		rf.Rent = rupees(cfg.FixedBills.Rent)
		rf.Tiffin = rupees(cfg.FixedBills.TiffinTotal())
		if cfg.FixedBills.ElectricityDueIn(billDue.Month()) {
			rf.Electricity = rupees(cfg.FixedBills.ElectricityAmount)
		}
	}

	rf.DailySpendTotal = decimal.Zero
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		md := cfg.DailyDefaults.ForDate(d)
		rf.DailySpendTotal = rf.DailySpendTotal.Add(rupees(md.Total()))
		rf.DayCount++
		tallyItem(rf.DailyBreakdown, "Breakfast", md.Breakfast)
		tallyItem(rf.DailyBreakdown, "Lunch", md.Lunch)
		tallyItem(rf.DailyBreakdown, "Dinner", md.Dinner)
		tallyItem(rf.DailyBreakdown, "Other", md.Other)
	}

	rf.Total = rf.Rent.Add(rf.Tiffin).Add(rf.Electricity).Add(rf.DailySpendTotal)
	return rf
}

func tallyItem(m map[string]model.ItemTally, item string, amount int64) {
	t := m[item]
	t.Total = t.Total.Add(rupees(amount))
	t.Count++
	m[item] = t
}
