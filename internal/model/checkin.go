package model

import "time"

// Resolution states a check-in can terminate in. Terminal states are
// immutable once reached.
type Resolution string

const (
	ResolutionUserConfirmed Resolution = "user_confirmed"
	ResolutionAutoFilled    Resolution = "auto_filled"
)

// CheckIn tracks the nightly prompt lifecycle for one calendar date:
// NoPrompt -> PromptIssued -> {UserConfirmed | AutoFilled}.
// The absence of a record means NoPrompt. PromptIssuedAt is persisted so an
// unresolved check-in can still auto-fill after a process restart.
type CheckIn struct {
	Date           time.Time  `json:"date"`
	PromptIssuedAt time.Time  `json:"prompt_issued_at"`
	Resolved       bool       `json:"resolved"`
	Resolution     Resolution `json:"resolution,omitempty"`
}
