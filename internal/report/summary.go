// Package report aggregates logged spends into cycle summaries.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/finance"
	"github.com/rsinha/cashguard/internal/model"
)

// CycleSummary is the aggregated view of one cycle's spending.
type CycleSummary struct {
	CycleID       string
	Start         time.Time
	End           time.Time
	DaysElapsed   int
	DaysLogged    int
	AutoFilled    int
	TotalSpent    decimal.Decimal
	AveragePerDay decimal.Decimal
	Breakfast     decimal.Decimal
	Lunch         decimal.Decimal
	Dinner        decimal.Decimal
	Other         decimal.Decimal
	Extra         decimal.Decimal
	DefaultPace   decimal.Decimal
	VsDefaults    decimal.Decimal
}

// DayTotal is one day's spend for charts and tables.
type DayTotal struct {
	Date       time.Time
	Total      decimal.Decimal
	AutoFilled bool
	Logged     bool
}

// DayTypeStats aggregates spends by day type (weekday, saturday, sunday).
type DayTypeStats struct {
	DayType      string
	Days         int
	Total        decimal.Decimal
	Average      decimal.Decimal
	SharePercent float64
}

// Summarize computes summary statistics for a cycle through asOf. Days
// after asOf are ignored so an in-flight cycle reports only elapsed days.
func Summarize(cfg config.Config, c *model.Cycle, asOf time.Time) CycleSummary {
	limit := model.Day(asOf)
	if limit.After(model.Day(c.EndDate)) {
		limit = model.Day(c.EndDate)
	}

	sum := CycleSummary{
		CycleID: c.ID(),
		Start:   c.StartDate,
		End:     c.EndDate,
	}

	for d := model.Day(c.StartDate); !d.After(limit); d = d.AddDate(0, 0, 1) {
		sum.DaysElapsed++
		sp, ok := c.Spend(d)
		if !ok {
			continue
		}
		sum.DaysLogged++
		if sp.AutoFilled {
			sum.AutoFilled++
		}
		sum.TotalSpent = sum.TotalSpent.Add(sp.Total())
		sum.Breakfast = sum.Breakfast.Add(sp.Breakfast)
		sum.Lunch = sum.Lunch.Add(sp.Lunch)
		sum.Dinner = sum.Dinner.Add(sp.Dinner)
		sum.Other = sum.Other.Add(sp.Other)
		sum.Extra = sum.Extra.Add(sp.Extra)

		sum.DefaultPace = sum.DefaultPace.Add(finance.DefaultTotal(d, cfg))
	}

	if sum.DaysElapsed > 0 {
		sum.AveragePerDay = sum.TotalSpent.DivRound(decimal.NewFromInt(int64(sum.DaysElapsed)), 2)
	}
	sum.VsDefaults = sum.TotalSpent.Sub(sum.DefaultPace)
	return sum
}

// DailySeries returns one entry per day from the cycle start through asOf,
// most recent first. Unlogged days appear with a zero total so charts show
// gaps rather than skipping them.
func DailySeries(c *model.Cycle, asOf time.Time) []DayTotal {
	limit := model.Day(asOf)
	if limit.After(model.Day(c.EndDate)) {
		limit = model.Day(c.EndDate)
	}

	var days []DayTotal
	for d := model.Day(c.StartDate); !d.After(limit); d = d.AddDate(0, 0, 1) {
		dt := DayTotal{Date: d}
		if sp, ok := c.Spend(d); ok {
			dt.Total = sp.Total()
			dt.AutoFilled = sp.AutoFilled
			dt.Logged = true
		}
		days = append(days, dt)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// ByDayType aggregates logged spends into weekday, saturday, and sunday
// buckets, with each bucket's share of the cycle total.
func ByDayType(c *model.Cycle, asOf time.Time) []DayTypeStats {
	buckets := map[string]*DayTypeStats{
		"weekday":  {DayType: "weekday"},
		"saturday": {DayType: "saturday"},
		"sunday":   {DayType: "sunday"},
	}

	limit := model.Day(asOf)
	total := decimal.Zero
	for _, sp := range c.Spends {
		if model.Day(sp.Date).After(limit) {
			continue
		}
		st := buckets[dayType(sp.Date)]
		st.Days++
		st.Total = st.Total.Add(sp.Total())
		total = total.Add(sp.Total())
	}

	out := []DayTypeStats{*buckets["weekday"], *buckets["saturday"], *buckets["sunday"]}
	for i := range out {
		if out[i].Days > 0 {
			out[i].Average = out[i].Total.DivRound(decimal.NewFromInt(int64(out[i].Days)), 2)
		}
		if total.Sign() > 0 {
			f, _ := out[i].Total.Div(total).Float64()
			out[i].SharePercent = f * 100
		}
	}
	return out
}

func dayType(d time.Time) string {
	switch d.Weekday() {
	case time.Saturday:
		return "saturday"
	case time.Sunday:
		return "sunday"
	default:
		return "weekday"
	}
}
