package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testCycle runs 2025-05-10 (Saturday) onward with three logged days:
// Sunday the 11th auto-filled, Monday the 12th on defaults, Tuesday the
// 13th logged explicitly with an extra.
func testCycle(t *testing.T) *model.Cycle {
	t.Helper()
	c := &model.Cycle{
		StartDate:      mustDate(t, "2025-05-10"),
		EndDate:        mustDate(t, "2025-06-08"),
		OpeningBalance: dec("15000"),
		Spends:         make(map[string]model.DaySpend),
	}
	c.PutSpend(model.DaySpend{
		Date: mustDate(t, "2025-05-11"), Lunch: dec("120"), AutoFilled: true,
	})
	c.PutSpend(model.DaySpend{
		Date: mustDate(t, "2025-05-12"), Breakfast: dec("35"), Lunch: dec("50"), Dinner: dec("90"),
	})
	c.PutSpend(model.DaySpend{
		Date: mustDate(t, "2025-05-13"), Breakfast: dec("40"), Lunch: dec("60"), Dinner: dec("100"), Extra: dec("50"),
	})
	return c
}

func TestSummarize(t *testing.T) {
	cfg := config.DefaultConfig()
	c := testCycle(t)
	sum := Summarize(cfg, c, mustDate(t, "2025-05-13"))

	if sum.CycleID != "2025-05-10" {
		t.Errorf("CycleID = %q, want 2025-05-10", sum.CycleID)
	}
	if sum.DaysElapsed != 4 {
		t.Errorf("DaysElapsed = %d, want 4", sum.DaysElapsed)
	}
	if sum.DaysLogged != 3 {
		t.Errorf("DaysLogged = %d, want 3", sum.DaysLogged)
	}
	if sum.AutoFilled != 1 {
		t.Errorf("AutoFilled = %d, want 1", sum.AutoFilled)
	}
	if !sum.TotalSpent.Equal(dec("545")) {
		t.Errorf("TotalSpent = %s, want 545", sum.TotalSpent)
	}
	if !sum.AveragePerDay.Equal(dec("136.25")) {
		t.Errorf("AveragePerDay = %s, want 136.25", sum.AveragePerDay)
	}
	if !sum.Extra.Equal(dec("50")) {
		t.Errorf("Extra = %s, want 50", sum.Extra)
	}
	// Defaults for the logged days: Sunday 120 + two weekdays at 175.
	if !sum.DefaultPace.Equal(dec("470")) {
		t.Errorf("DefaultPace = %s, want 470", sum.DefaultPace)
	}
	if !sum.VsDefaults.Equal(dec("75")) {
		t.Errorf("VsDefaults = %s, want 75", sum.VsDefaults)
	}
}

func TestSummarizeClampsToCycleEnd(t *testing.T) {
	cfg := config.DefaultConfig()
	c := testCycle(t)
	sum := Summarize(cfg, c, mustDate(t, "2025-07-01"))

	if sum.DaysElapsed != 30 {
		t.Errorf("DaysElapsed = %d, want 30", sum.DaysElapsed)
	}
}

func TestDailySeriesFillsGaps(t *testing.T) {
	c := testCycle(t)
	days := DailySeries(c, mustDate(t, "2025-05-13"))

	if len(days) != 4 {
		t.Fatalf("len(days) = %d, want 4", len(days))
	}
	if !days[0].Date.Equal(mustDate(t, "2025-05-13")) {
		t.Errorf("days[0].Date = %s, want 2025-05-13", days[0].Date)
	}
	last := days[len(days)-1]
	if last.Logged {
		t.Error("start day should be unlogged")
	}
	if !last.Total.IsZero() {
		t.Errorf("unlogged day total = %s, want 0", last.Total)
	}
	if !days[1].AutoFilled && !days[2].AutoFilled {
		t.Error("expected an auto-filled day in the series")
	}
}

func TestByDayType(t *testing.T) {
	c := testCycle(t)
	stats := ByDayType(c, mustDate(t, "2025-05-13"))

	if len(stats) != 3 {
		t.Fatalf("len(stats) = %d, want 3", len(stats))
	}
	byType := map[string]DayTypeStats{}
	for _, st := range stats {
		byType[st.DayType] = st
	}

	wd := byType["weekday"]
	if wd.Days != 2 || !wd.Total.Equal(dec("425")) {
		t.Errorf("weekday = %d days / %s, want 2 / 425", wd.Days, wd.Total)
	}
	if !wd.Average.Equal(dec("212.5")) {
		t.Errorf("weekday average = %s, want 212.5", wd.Average)
	}
	if byType["saturday"].Days != 0 {
		t.Errorf("saturday days = %d, want 0", byType["saturday"].Days)
	}
	sun := byType["sunday"]
	if sun.Days != 1 || !sun.Total.Equal(dec("120")) {
		t.Errorf("sunday = %d days / %s, want 1 / 120", sun.Days, sun.Total)
	}

	var share float64
	for _, st := range stats {
		share += st.SharePercent
	}
	if share < 99.9 || share > 100.1 {
		t.Errorf("shares sum to %.2f, want ~100", share)
	}
}
