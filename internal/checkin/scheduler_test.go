package checkin

import (
	"errors"
	"testing"
	"time"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/model"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Cycle.Timezone = "UTC"
	cfg.Cycle.CheckinTime = "21:30"
	cfg.Cycle.ConfirmWindowMin = 60
	cfg.Cycle.SpendLogWindowMin = 120
	return cfg
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.May, 14, hour, min, 0, 0, time.UTC)
}

func TestDueTransitionsBeforePromptTime(t *testing.T) {
	got := DueTransitions(at(21, 29), testConfig(), time.UTC, nil)
	if len(got) != 0 {
		t.Fatalf("expected no transitions before check-in time, got %v", got)
	}
}

func TestDueTransitionsIssuesPrompt(t *testing.T) {
	got := DueTransitions(at(21, 30), testConfig(), time.UTC, nil)
	if len(got) != 1 {
		t.Fatalf("expected one transition, got %v", got)
	}
	if got[0].Kind != KindIssuePrompt {
		t.Fatalf("kind = %q, want %q", got[0].Kind, KindIssuePrompt)
	}
	if !got[0].Date.Equal(time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got[0].Date)
	}
}

func TestDueTransitionsPromptIsIdempotent(t *testing.T) {
	ci, created := Issue(nil, at(21, 30), at(21, 30))
	if !created {
		t.Fatal("expected a new record")
	}
	checkins := map[string]model.CheckIn{model.DateKey(ci.Date): ci}

	got := DueTransitions(at(21, 45), testConfig(), time.UTC, checkins)
	if len(got) != 0 {
		t.Fatalf("expected no transitions while prompt is pending, got %v", got)
	}

	if _, created := Issue(checkins, at(21, 45), at(21, 45)); created {
		t.Fatal("second issue for the same date must be a no-op")
	}
}

// A prompt issued at 21:30 and still unconfirmed at 22:31 is past the
// sixty-minute confirm window, so the evaluator reports an auto-fill.
func TestDueTransitionsAutoFillAfterConfirmWindow(t *testing.T) {
	ci, _ := Issue(nil, at(21, 30), at(21, 30))
	checkins := map[string]model.CheckIn{model.DateKey(ci.Date): ci}

	got := DueTransitions(at(22, 31), testConfig(), time.UTC, checkins)
	if len(got) != 1 {
		t.Fatalf("expected one transition, got %v", got)
	}
	if got[0].Kind != KindAutoFill {
		t.Fatalf("kind = %q, want %q", got[0].Kind, KindAutoFill)
	}
	if !got[0].Due.Equal(at(22, 30)) {
		t.Fatalf("due = %v, want %v", got[0].Due, at(22, 30))
	}
}

func TestDueTransitionsAutoFillExactDeadline(t *testing.T) {
	ci, _ := Issue(nil, at(21, 30), at(21, 30))
	checkins := map[string]model.CheckIn{model.DateKey(ci.Date): ci}

	if got := DueTransitions(at(22, 29), testConfig(), time.UTC, checkins); len(got) != 0 {
		t.Fatalf("expected nothing before the deadline, got %v", got)
	}
	if got := DueTransitions(at(22, 30), testConfig(), time.UTC, checkins); len(got) != 1 || got[0].Kind != KindAutoFill {
		t.Fatalf("expected auto-fill at the deadline, got %v", got)
	}
}

func TestDueTransitionsResolvedDayIsQuiet(t *testing.T) {
	ci, _ := Issue(nil, at(21, 30), at(21, 30))
	ci, err := Resolve(ci, model.ResolutionUserConfirmed)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	checkins := map[string]model.CheckIn{model.DateKey(ci.Date): ci}

	if got := DueTransitions(at(23, 59), testConfig(), time.UTC, checkins); len(got) != 0 {
		t.Fatalf("expected no transitions for a resolved day, got %v", got)
	}
}

// An auto-fill that could not be persisted reappears on the next tick.
func TestDueTransitionsAutoFillRetries(t *testing.T) {
	ci, _ := Issue(nil, at(21, 30), at(21, 30))
	checkins := map[string]model.CheckIn{model.DateKey(ci.Date): ci}

	first := DueTransitions(at(22, 31), testConfig(), time.UTC, checkins)
	second := DueTransitions(at(22, 36), testConfig(), time.UTC, checkins)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected the transition on both ticks, got %v then %v", first, second)
	}
	if first[0].Kind != KindAutoFill || second[0].Kind != KindAutoFill {
		t.Fatalf("expected auto-fill transitions, got %v then %v", first, second)
	}
}

func TestResolveTerminalStatesAreSticky(t *testing.T) {
	cases := []struct {
		name  string
		first model.Resolution
		next  model.Resolution
	}{
		{"confirmed then auto", model.ResolutionUserConfirmed, model.ResolutionAutoFilled},
		{"auto then confirmed", model.ResolutionAutoFilled, model.ResolutionUserConfirmed},
		{"confirmed twice", model.ResolutionUserConfirmed, model.ResolutionUserConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ci, _ := Issue(nil, at(21, 30), at(21, 30))
			ci, err := Resolve(ci, tc.first)
			if err != nil {
				t.Fatalf("first resolve: %v", err)
			}
			if _, err := Resolve(ci, tc.next); !errors.Is(err, model.ErrAlreadyResolved) {
				t.Fatalf("err = %v, want ErrAlreadyResolved", err)
			}
			if ci.Resolution != tc.first {
				t.Fatalf("resolution changed to %q", ci.Resolution)
			}
		})
	}
}

func TestSpendLogDeadline(t *testing.T) {
	ci, _ := Issue(nil, at(21, 30), at(21, 30))
	if got := SpendLogDeadline(ci, testConfig()); !got.Equal(at(23, 30)) {
		t.Fatalf("deadline = %v, want %v", got, at(23, 30))
	}
}
