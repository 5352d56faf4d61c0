// Package checkin implements the nightly check-in state machine. Each
// calendar date moves NoPrompt -> PromptIssued -> {UserConfirmed |
// AutoFilled}; terminal states are immutable. The decision logic is pure so
// the timer loop that drives it stays trivial and the transitions stay
// testable without a clock.
package checkin

import (
	"sort"
	"time"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/model"
)

// Kind identifies a due transition.
type Kind string

const (
	// KindIssuePrompt fires once local time reaches the configured check-in
	// time for a date with no prompt record yet.
	KindIssuePrompt Kind = "issue_prompt"

	// KindAutoFill fires once the confirm window elapses after an
	// unresolved prompt; applying it logs the day-type defaults with zero
	// extras.
	KindAutoFill Kind = "auto_fill"
)

// Transition is one state change that is due at or before "now".
type Transition struct {
	Kind Kind
	Date time.Time
	Due  time.Time
}

// DueTransitions returns every transition due as of now, in date order. It
// never mutates anything; callers apply the results and persist them, and
// re-invoke on the next tick. An applied-but-unsaved transition simply
// shows up again, which is what makes auto-fill retry safe.
func DueTransitions(now time.Time, cfg config.Config, loc *time.Location, checkins map[string]model.CheckIn) []Transition {
	var due []Transition

	localNow := now.In(loc)
	today := model.Day(localNow)
	promptAt, err := cfg.Cycle.CheckinAt(today, loc)
	if err == nil && !localNow.Before(promptAt) {
		if _, ok := checkins[model.DateKey(today)]; !ok {
			due = append(due, Transition{Kind: KindIssuePrompt, Date: today, Due: promptAt})
		}
	}

	for _, ci := range checkins {
		if ci.Resolved {
			continue
		}
		deadline := ci.PromptIssuedAt.Add(cfg.Cycle.ConfirmWindow())
		if !now.Before(deadline) {
			due = append(due, Transition{Kind: KindAutoFill, Date: model.Day(ci.Date), Due: deadline})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].Date.Equal(due[j].Date) {
			return due[i].Date.Before(due[j].Date)
		}
		return due[i].Kind < due[j].Kind
	})
	return due
}

// Issue creates the pending check-in record for a date. Issuing twice for
// the same date is a no-op; the original prompt time is kept.
func Issue(existing map[string]model.CheckIn, date, now time.Time) (model.CheckIn, bool) {
	if ci, ok := existing[model.DateKey(date)]; ok {
		return ci, false
	}
	return model.CheckIn{Date: model.Day(date), PromptIssuedAt: now}, true
}

// Resolve moves a pending check-in to a terminal state. Terminal states are
// sticky: resolving an already-resolved check-in fails with
// ErrAlreadyResolved regardless of the requested resolution.
func Resolve(ci model.CheckIn, resolution model.Resolution) (model.CheckIn, error) {
	if ci.Resolved {
		return ci, model.ErrAlreadyResolved
	}
	ci.Resolved = true
	ci.Resolution = resolution
	return ci, nil
}

// SpendLogDeadline is the end of the grace window during which an explicit
// spend log may still replace auto-filled amounts for the date.
func SpendLogDeadline(ci model.CheckIn, cfg config.Config) time.Time {
	return ci.PromptIssuedAt.Add(cfg.Cycle.SpendLogWindow())
}
