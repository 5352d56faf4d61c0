package model

import "sort"

// Override is one runtime adjustment to a daily default amount, applied on
// top of the immutable base configuration.
type Override struct {
	Category string `json:"category"` // weekday | saturday | sunday
	Item     string `json:"item"`     // breakfast | lunch | dinner | other
	Amount   int64  `json:"amount"`
}

// State is the full persisted document: cycle history, pending check-ins,
// and configuration overrides. It is sufficient to reconstruct everything
// after a restart, including in-flight check-ins.
type State struct {
	Cycles    []Cycle            `json:"cycles"`
	CheckIns  map[string]CheckIn `json:"checkins"`
	Overrides []Override         `json:"overrides,omitempty"`
}

// NewState returns an empty state document.
func NewState() *State {
	return &State{CheckIns: make(map[string]CheckIn)}
}

// Clone returns a deep copy of the state document, used to roll back a
// mutation whose save failed.
func (s *State) Clone() *State {
	out := &State{
		Cycles:    make([]Cycle, len(s.Cycles)),
		CheckIns:  make(map[string]CheckIn, len(s.CheckIns)),
		Overrides: append([]Override(nil), s.Overrides...),
	}
	for i, c := range s.Cycles {
		c.Incomes = append([]Income(nil), c.Incomes...)
		spends := make(map[string]DaySpend, len(c.Spends))
		for k, v := range c.Spends {
			spends[k] = v
		}
		c.Spends = spends
		out.Cycles[i] = c
	}
	for k, v := range s.CheckIns {
		out.CheckIns[k] = v
	}
	return out
}

// CycleByID returns the cycle with the given start-date ID, if present.
func (s *State) CycleByID(id string) (*Cycle, bool) {
	for i := range s.Cycles {
		if s.Cycles[i].ID() == id {
			return &s.Cycles[i], true
		}
	}
	return nil, false
}

// PutCycle inserts or replaces a cycle in the history, keeping the history
// ordered by start date. Superseded cycles are never removed.
func (s *State) PutCycle(c Cycle) {
	for i := range s.Cycles {
		if s.Cycles[i].ID() == c.ID() {
			s.Cycles[i] = c
			return
		}
	}
	s.Cycles = append(s.Cycles, c)
	sort.Slice(s.Cycles, func(i, j int) bool {
		return s.Cycles[i].StartDate.Before(s.Cycles[j].StartDate)
	})
}

// Latest returns the most recently started cycle, or nil.
func (s *State) Latest() *Cycle {
	if len(s.Cycles) == 0 {
		return nil
	}
	return &s.Cycles[len(s.Cycles)-1]
}

// PutCheckIn inserts or replaces the check-in record for its date.
func (s *State) PutCheckIn(ci CheckIn) {
	if s.CheckIns == nil {
		s.CheckIns = make(map[string]CheckIn)
	}
	s.CheckIns[DateKey(ci.Date)] = ci
}

// SetOverride upserts an override keyed by category+item.
func (s *State) SetOverride(ov Override) {
	for i := range s.Overrides {
		if s.Overrides[i].Category == ov.Category && s.Overrides[i].Item == ov.Item {
			s.Overrides[i] = ov
			return
		}
	}
	s.Overrides = append(s.Overrides, ov)
}
