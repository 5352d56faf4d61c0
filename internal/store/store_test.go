package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/model"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func sampleState(t *testing.T) *model.State {
	t.Helper()
	state := model.NewState()
	cycle := model.Cycle{
		StartDate:      mustDate(t, "2025-05-10"),
		EndDate:        mustDate(t, "2025-06-08"),
		OpeningBalance: decimal.NewFromInt(15000),
		Incomes: []model.Income{
			{Date: mustDate(t, "2025-05-10"), Amount: decimal.NewFromInt(15000), Label: "Salary"},
			{Date: mustDate(t, "2025-05-20"), Amount: decimal.NewFromInt(2000), Label: "Freelance"},
		},
	}
	cycle.PutSpend(model.DaySpend{
		Date:      mustDate(t, "2025-05-11"),
		Breakfast: decimal.NewFromInt(35),
		Lunch:     decimal.NewFromInt(50),
		Dinner:    decimal.NewFromInt(90),
		Extra:     decimal.NewFromInt(120),
		Note:      "movie night",
	})
	cycle.PutSpend(model.DaySpend{
		Date:       mustDate(t, "2025-05-12"),
		Breakfast:  decimal.NewFromInt(35),
		Lunch:      decimal.NewFromInt(50),
		Dinner:     decimal.NewFromInt(90),
		AutoFilled: true,
	})
	state.PutCycle(cycle)
	state.PutCheckIn(model.CheckIn{
		Date:           mustDate(t, "2025-05-11"),
		PromptIssuedAt: time.Date(2025, time.May, 11, 16, 0, 0, 0, time.UTC),
		Resolved:       true,
		Resolution:     model.ResolutionUserConfirmed,
	})
	state.PutCheckIn(model.CheckIn{
		Date:           mustDate(t, "2025-05-12"),
		PromptIssuedAt: time.Date(2025, time.May, 12, 16, 0, 0, 0, time.UTC),
	})
	state.SetOverride(model.Override{Category: "sunday", Item: "lunch", Amount: 150})
	return state
}

func assertStateEqual(t *testing.T, got, want *model.State) {
	t.Helper()
	if len(got.Cycles) != len(want.Cycles) {
		t.Fatalf("cycles = %d, want %d", len(got.Cycles), len(want.Cycles))
	}
	for i := range want.Cycles {
		w, g := want.Cycles[i], got.Cycles[i]
		if g.ID() != w.ID() {
			t.Fatalf("cycle[%d] id = %q, want %q", i, g.ID(), w.ID())
		}
		if !g.OpeningBalance.Equal(w.OpeningBalance) {
			t.Errorf("cycle %s opening = %s, want %s", w.ID(), g.OpeningBalance, w.OpeningBalance)
		}
		if model.DateKey(g.EndDate) != model.DateKey(w.EndDate) {
			t.Errorf("cycle %s end = %s, want %s", w.ID(), model.DateKey(g.EndDate), model.DateKey(w.EndDate))
		}
		if len(g.Incomes) != len(w.Incomes) {
			t.Fatalf("cycle %s incomes = %d, want %d", w.ID(), len(g.Incomes), len(w.Incomes))
		}
		for j := range w.Incomes {
			if !g.Incomes[j].Amount.Equal(w.Incomes[j].Amount) || g.Incomes[j].Label != w.Incomes[j].Label {
				t.Errorf("cycle %s income[%d] = %+v, want %+v", w.ID(), j, g.Incomes[j], w.Incomes[j])
			}
		}
		if len(g.Spends) != len(w.Spends) {
			t.Fatalf("cycle %s spends = %d, want %d", w.ID(), len(g.Spends), len(w.Spends))
		}
		for key, wsp := range w.Spends {
			gsp, ok := g.Spends[key]
			if !ok {
				t.Fatalf("cycle %s missing spend %s", w.ID(), key)
			}
			if !gsp.Total().Equal(wsp.Total()) || gsp.AutoFilled != wsp.AutoFilled || gsp.Note != wsp.Note {
				t.Errorf("cycle %s spend %s = %+v, want %+v", w.ID(), key, gsp, wsp)
			}
		}
	}
	if len(got.CheckIns) != len(want.CheckIns) {
		t.Fatalf("checkins = %d, want %d", len(got.CheckIns), len(want.CheckIns))
	}
	for key, wci := range want.CheckIns {
		gci, ok := got.CheckIns[key]
		if !ok {
			t.Fatalf("missing checkin %s", key)
		}
		if gci.Resolved != wci.Resolved || gci.Resolution != wci.Resolution {
			t.Errorf("checkin %s = %+v, want %+v", key, gci, wci)
		}
		if !gci.PromptIssuedAt.Equal(wci.PromptIssuedAt) {
			t.Errorf("checkin %s issued = %v, want %v", key, gci.PromptIssuedAt, wci.PromptIssuedAt)
		}
	}
	if len(got.Overrides) != len(want.Overrides) {
		t.Fatalf("overrides = %d, want %d", len(got.Overrides), len(want.Overrides))
	}
	for i := range want.Overrides {
		if got.Overrides[i] != want.Overrides[i] {
			t.Errorf("override[%d] = %+v, want %+v", i, got.Overrides[i], want.Overrides[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T) Store
	}{
		{"sqlite", func(t *testing.T) Store {
			db, err := OpenDB(filepath.Join(t.TempDir(), "cashguard.db"), time.UTC)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return db
		}},
		{"jsonfile", func(t *testing.T) Store {
			st, err := OpenJSONFile(filepath.Join(t.TempDir(), "state.json"))
			if err != nil {
				t.Fatalf("open json file: %v", err)
			}
			return st
		}},
	}
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			st := backend.open(t)
			defer func() { _ = st.Close() }()

			want := sampleState(t)
			if err := st.Save(want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := st.Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			assertStateEqual(t, got, want)

			// Second save replaces, never appends.
			want.Latest().PutSpend(model.DaySpend{
				Date:  mustDate(t, "2025-05-13"),
				Lunch: decimal.NewFromInt(80),
			})
			if err := st.Save(want); err != nil {
				t.Fatalf("second save: %v", err)
			}
			got, err = st.Load()
			if err != nil {
				t.Fatalf("second load: %v", err)
			}
			assertStateEqual(t, got, want)
		})
	}
}

// Day columns carry no zone, so the sqlite store re-attaches the cycle
// timezone on load. A reloaded cycle must still contain its own start date
// and count same-day incomes when queried with locally built times.
func TestSQLiteReloadKeepsCycleWindowInZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	db, err := OpenDB(filepath.Join(t.TempDir(), "cashguard.db"), loc)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()

	start := time.Date(2025, time.May, 10, 0, 0, 0, 0, loc)
	state := model.NewState()
	state.PutCycle(model.Cycle{
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 29),
		OpeningBalance: decimal.NewFromInt(15000),
		Incomes: []model.Income{
			{Date: start, Amount: decimal.NewFromInt(15000), Label: "Salary"},
		},
	})
	if err := db.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := got.Latest()
	if c == nil {
		t.Fatal("cycle missing after reload")
	}

	noon := time.Date(2025, time.May, 10, 12, 0, 0, 0, loc)
	if !c.Contains(noon) {
		t.Fatalf("reloaded cycle does not contain its start day (start loaded as %v)", c.StartDate)
	}
	if got := c.IncomesThrough(noon); !got.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("incomes through start day = %s, want 15000", got)
	}
	if !c.Contains(time.Date(2025, time.June, 8, 0, 0, 0, 0, loc)) {
		t.Fatal("reloaded cycle does not contain its end day")
	}
}

func TestJSONFileLoadMissing(t *testing.T) {
	st, err := OpenJSONFile(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	state, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Cycles) != 0 || len(state.CheckIns) != 0 {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestJSONFileSaveLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	st, err := OpenJSONFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Save(sampleState(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state.json")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}
}
