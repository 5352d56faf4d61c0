// Package cycle orchestrates the budgeting cycle lifecycle: starting
// cycles, recording incomes and spends, resolving check-ins, and producing
// status snapshots. All mutations go through the Manager, which persists
// after every change.
package cycle

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rsinha/cashguard/internal/checkin"
	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/finance"
	"github.com/rsinha/cashguard/internal/model"
	"github.com/rsinha/cashguard/internal/store"
)

// Manager owns the persisted state and serializes access to it.
type Manager struct {
	cfg   config.Config
	store store.Store
	log   *logrus.Logger

	mu    sync.Mutex
	state *model.State
}

// New loads the persisted state and returns a manager over it.
func New(cfg config.Config, st store.Store, log *logrus.Logger) (*Manager, error) {
	state, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return &Manager{cfg: cfg, store: st, log: log, state: state}, nil
}

// Config returns the effective configuration with stored overrides applied.
func (m *Manager) Config() config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.effectiveConfig()
}

func (m *Manager) effectiveConfig() config.Config {
	return m.cfg.WithOverrides(m.state.Overrides)
}

// persist saves the state. On failure the in-memory state is rolled back to
// prev, the snapshot taken before the mutation, so a failed mutation can be
// retried cleanly even when the store is unreadable.
func (m *Manager) persist(prev *model.State) error {
	if err := m.store.Save(m.state); err != nil {
		m.state = prev
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// resolveActive returns the cycle governing today. An explicitly started
// cycle whose window contains today wins; otherwise the cycle is
// auto-detected from the most recent salary anchor on or before today and
// materialized with a zero opening balance. Materialized cycles live in
// memory until the next mutation persists them. Must be called with the
// lock held.
func (m *Manager) resolveActive(today time.Time) (*model.Cycle, error) {
	for i := len(m.state.Cycles) - 1; i >= 0; i-- {
		if m.state.Cycles[i].Contains(today) {
			return &m.state.Cycles[i], nil
		}
	}

	cfg := m.effectiveConfig()
	start, err := finance.CycleStart(today, cfg)
	if err != nil {
		return nil, model.ErrNoActiveCycle
	}
	id := model.DateKey(start)

	// Months longer than the cycle leave gap days before the next anchor.
	// The stored cycle for the current anchor stays authoritative there,
	// so spends on gap days report OutOfCycleDate instead of opening a
	// phantom cycle.
	if c, ok := m.state.CycleByID(id); ok {
		return c, nil
	}
	// History only rolls forward: a date resolving to an anchor at or
	// before recorded history never materializes a cycle retroactively.
	if last := m.state.Latest(); last != nil && id <= last.ID() {
		return nil, model.ErrNoActiveCycle
	}

	c := model.Cycle{
		StartDate:      start,
		EndDate:        finance.CycleEnd(start, cfg),
		OpeningBalance: decimal.Zero,
		Incomes:        finance.PlannedIncomes(start, cfg),
		Spends:         make(map[string]model.DaySpend),
	}
	m.state.PutCycle(c)
	m.log.WithField("cycle", id).Debug("cycle auto-detected from salary anchor")
	resolved, _ := m.state.CycleByID(id)
	return resolved, nil
}

// cycleForDate resolves the cycle a dated mutation lands in. prev is the
// pre-mutation snapshot; when the date falls outside the resolved window,
// any cycle materialized during resolution is discarded so the state stays
// untouched.
func (m *Manager) cycleForDate(date time.Time, prev *model.State) (*model.Cycle, error) {
	c, err := m.resolveActive(date)
	if err != nil {
		return nil, fmt.Errorf("%w: no cycle covers %s", model.ErrOutOfCycleDate, model.DateKey(date))
	}
	if !c.Contains(date) {
		m.state = prev
		return nil, fmt.Errorf("%w: %s is outside cycle %s", model.ErrOutOfCycleDate, model.DateKey(date), c.ID())
	}
	return c, nil
}

// ActiveCycle returns a copy of the cycle governing today, auto-detecting
// one from the salary anchor when nothing explicit covers it.
func (m *Manager) ActiveCycle(today time.Time) (model.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.resolveActive(today)
	if err != nil {
		return model.Cycle{}, err
	}
	return *c, nil
}

// StartCycle opens a new cycle with the given opening balance. A zero
// startDate anchors the cycle to the most recent salary day on or before
// today. Planned incomes from configuration are seeded into the cycle.
// Starting a cycle that already exists replaces it; older cycles stay in
// the history untouched.
func (m *Manager) StartCycle(openingBalance decimal.Decimal, startDate, today time.Time) (model.Cycle, error) {
	if openingBalance.Sign() <= 0 {
		return model.Cycle{}, fmt.Errorf("%w: opening balance must be positive", model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.effectiveConfig()
	start := model.Day(startDate)
	if startDate.IsZero() {
		resolved, err := finance.CycleStart(today, cfg)
		if err != nil {
			return model.Cycle{}, err
		}
		start = resolved
	}

	// The opening balance is cash on hand at cycle start and already
	// includes the anchor-day credit, so only later planned incomes are
	// seeded.
	var incomes []model.Income
	for _, in := range finance.PlannedIncomes(start, cfg) {
		if model.SameDay(in.Date, start) {
			continue
		}
		incomes = append(incomes, in)
	}

	prev := m.state.Clone()
	c := model.Cycle{
		StartDate:      start,
		EndDate:        finance.CycleEnd(start, cfg),
		OpeningBalance: openingBalance,
		Incomes:        incomes,
		Spends:         make(map[string]model.DaySpend),
	}
	m.state.PutCycle(c)
	if err := m.persist(prev); err != nil {
		return model.Cycle{}, err
	}
	m.log.WithFields(logrus.Fields{
		"cycle":   c.ID(),
		"end":     model.DateKey(c.EndDate),
		"opening": openingBalance.String(),
	}).Info("cycle started")
	return c, nil
}

// RecordIncome adds or updates an income entry in the active cycle, keyed
// by date and label.
func (m *Manager) RecordIncome(date time.Time, amount decimal.Decimal, label string) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: income must be positive", model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()
	c, err := m.cycleForDate(date, prev)
	if err != nil {
		return err
	}

	day := model.Day(date)
	replaced := false
	for i := range c.Incomes {
		if model.SameDay(c.Incomes[i].Date, day) && c.Incomes[i].Label == label {
			c.Incomes[i].Amount = amount
			replaced = true
			break
		}
	}
	if !replaced {
		c.Incomes = append(c.Incomes, model.Income{Date: day, Amount: amount, Label: label})
	}
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"cycle":  c.ID(),
		"date":   model.DateKey(day),
		"amount": amount.String(),
		"label":  label,
	}).Info("income recorded")
	return nil
}

// LogSpend records the meal spends for a date, replacing any existing
// record including an auto-filled one. The extra amount already logged for
// the date is preserved.
func (m *Manager) LogSpend(date time.Time, breakfast, lunch, dinner, other decimal.Decimal, note string) error {
	for _, v := range []decimal.Decimal{breakfast, lunch, dinner, other} {
		if v.Sign() < 0 {
			return fmt.Errorf("%w: spend amounts must be >= 0", model.ErrInvalidAmount)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()
	c, err := m.cycleForDate(date, prev)
	if err != nil {
		return err
	}

	day := model.Day(date)
	sp := model.DaySpend{
		Date:      day,
		Breakfast: breakfast,
		Lunch:     lunch,
		Dinner:    dinner,
		Other:     other,
		Note:      note,
	}
	if prev, ok := c.Spend(day); ok {
		sp.Extra = prev.Extra
		if note == "" {
			sp.Note = prev.Note
		}
	}
	c.PutSpend(sp)
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"cycle": c.ID(),
		"date":  model.DateKey(day),
		"total": sp.Total().String(),
	}).Info("spend logged")
	return nil
}

// LogExtra adds an extra expense on top of the day's spend record. Extras
// accumulate; each call adds to the running total for the date.
func (m *Manager) LogExtra(date time.Time, amount decimal.Decimal, note string) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: extra must be positive", model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()
	c, err := m.cycleForDate(date, prev)
	if err != nil {
		return err
	}

	day := model.Day(date)
	sp, ok := c.Spend(day)
	if !ok {
		sp = model.DaySpend{Date: day}
	}
	sp.Extra = sp.Extra.Add(amount)
	if note != "" {
		if sp.Note != "" {
			sp.Note = sp.Note + "; " + note
		} else {
			sp.Note = note
		}
	}
	c.PutSpend(sp)
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"cycle":  c.ID(),
		"date":   model.DateKey(day),
		"amount": amount.String(),
	}).Info("extra logged")
	return nil
}

// Confirm resolves the pending check-in for a date as user-confirmed. If no
// spend was logged for the date, the day-type defaults are recorded as the
// confirmed spend. An extra amount and note supplied with the confirmation
// fold into the day's record the same way LogExtra does.
func (m *Manager) Confirm(date time.Time, extra decimal.Decimal, note string) error {
	if extra.Sign() < 0 {
		return fmt.Errorf("%w: extra must be >= 0", model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.DateKey(model.Day(date))
	ci, ok := m.state.CheckIns[key]
	if !ok {
		return fmt.Errorf("no check-in pending for %s", key)
	}
	ci, err := checkin.Resolve(ci, model.ResolutionUserConfirmed)
	if err != nil {
		return err
	}

	prev := m.state.Clone()
	cfg := m.effectiveConfig()
	if c, cerr := m.resolveActive(date); cerr == nil && c.Contains(date) {
		sp, logged := c.Spend(date)
		if !logged {
			sp = finance.DefaultSpend(date, cfg, false)
		}
		sp.AutoFilled = false
		sp.Extra = sp.Extra.Add(extra)
		if note != "" {
			if sp.Note != "" {
				sp.Note = sp.Note + "; " + note
			} else {
				sp.Note = note
			}
		}
		c.PutSpend(sp)
	}

	m.state.PutCheckIn(ci)
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithField("date", key).Info("check-in confirmed")
	return nil
}

// ApplyDue runs the check-in state machine for now: issues the day's
// prompt once the check-in time passes and auto-fills any prompt whose
// confirm window has elapsed. It returns the transitions applied. A failed
// save leaves the transition pending for the next tick.
func (m *Manager) ApplyDue(now time.Time) ([]checkin.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.effectiveConfig()
	loc, err := cfg.Cycle.Location()
	if err != nil {
		return nil, err
	}

	due := checkin.DueTransitions(now, cfg, loc, m.state.CheckIns)
	if len(due) == 0 {
		return nil, nil
	}

	prev := m.state.Clone()
	var applied []checkin.Transition
	for _, tr := range due {
		switch tr.Kind {
		case checkin.KindIssuePrompt:
			ci, created := checkin.Issue(m.state.CheckIns, tr.Date, now)
			if !created {
				continue
			}
			m.state.PutCheckIn(ci)
			m.log.WithField("date", model.DateKey(tr.Date)).Info("check-in prompt issued")

		case checkin.KindAutoFill:
			ci := m.state.CheckIns[model.DateKey(tr.Date)]
			ci, rerr := checkin.Resolve(ci, model.ResolutionAutoFilled)
			if rerr != nil {
				continue
			}
			if c, cerr := m.resolveActive(tr.Date); cerr == nil && c.Contains(tr.Date) {
				if _, logged := c.Spend(tr.Date); !logged {
					c.PutSpend(finance.DefaultSpend(tr.Date, cfg, true))
				}
			}
			m.state.PutCheckIn(ci)
			m.log.WithField("date", model.DateKey(tr.Date)).Info("check-in auto-filled with defaults")
		}
		applied = append(applied, tr)
	}

	if len(applied) == 0 {
		return nil, nil
	}
	if err := m.persist(prev); err != nil {
		return nil, err
	}
	return applied, nil
}

// SetBalance corrects the active cycle to match a counted cash balance.
// The opening balance is adjusted so that opening + incomes - spends
// through today equals the given amount, absorbing unlogged drift.
func (m *Manager) SetBalance(today time.Time, balance decimal.Decimal) error {
	if balance.Sign() < 0 {
		return fmt.Errorf("%w: balance must be >= 0", model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()
	c, err := m.resolveActive(today)
	if err != nil {
		return err
	}

	day := model.Day(today)
	computed := c.OpeningBalance.Add(c.IncomesThrough(day)).Sub(c.SpendsThrough(day))
	drift := balance.Sub(computed)
	if drift.IsZero() {
		return nil
	}

	c.OpeningBalance = c.OpeningBalance.Add(drift)
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"cycle":   c.ID(),
		"balance": balance.String(),
		"drift":   drift.String(),
	}).Info("balance corrected")
	return nil
}

// SetDefault stores a runtime override for one daily default amount.
func (m *Manager) SetDefault(category, item string, amount int64) error {
	ov := model.Override{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Item:     strings.ToLower(strings.TrimSpace(item)),
		Amount:   amount,
	}
	if err := config.ValidateOverride(ov); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()
	m.state.SetOverride(ov)
	if err := m.persist(prev); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"category": ov.Category,
		"item":     ov.Item,
		"amount":   ov.Amount,
	}).Info("daily default overridden")
	return nil
}

// History returns a copy of all cycles, oldest first.
func (m *Manager) History() []model.Cycle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Cycle, len(m.state.Cycles))
	copy(out, m.state.Cycles)
	return out
}

// Status assembles the full figure set for today.
func (m *Manager) Status(today time.Time) (model.StatusSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.effectiveConfig()
	c, err := m.resolveActive(today)
	if err != nil {
		return model.StatusSnapshot{}, err
	}

	day := model.Day(today)
	sinking := finance.SinkingFundTarget(cfg, c, day)
	primary, anchor := finance.RequiredCashToday(cfg, day)

	snap := model.StatusSnapshot{
		AsOf:            day,
		CycleID:         c.ID(),
		CycleStart:      c.StartDate,
		CycleEnd:        c.EndDate,
		DaysLeft:        finance.DaysRemaining(c, day),
		OpeningBalance:  c.OpeningBalance,
		IncomesToDate:   c.IncomesThrough(day),
		SpendsToDate:    c.SpendsThrough(day),
		SinkingFund:     sinking,
		SinkingTotal:    sinking.Total(),
		DailyAllowance:  finance.DailyWalletAllowance(cfg, c, day),
		RollingAverage:  finance.RollingAverage(cfg, c, day),
		WiggleRoom:      finance.WiggleRoom(cfg, c, day),
		RequiredPrimary: primary,
		RequiredAnchor:  anchor,
	}
	if ci, ok := m.state.CheckIns[model.DateKey(day)]; ok && !ci.Resolved {
		pending := ci
		snap.PendingCheckIn = &pending
	}
	return snap, nil
}
