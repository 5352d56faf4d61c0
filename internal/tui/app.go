// Package tui implements the interactive cashguard dashboard: wallet and
// sinking fund figures, the recent day log, and the nightly check-in
// confirmation, refreshed on a timer.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/cycle"
	"github.com/rsinha/cashguard/internal/model"
	"github.com/rsinha/cashguard/internal/tui/components"
	"github.com/rsinha/cashguard/internal/tui/theme"
)

const (
	minTerminalWidth = 70
	maxContentWidth  = 110
	refreshInterval  = 30 * time.Second
	dayLogRows       = 8
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// App is the bubbletea model for the dashboard.
type App struct {
	mgr *cycle.Manager
	now func() time.Time

	width  int
	height int

	snap      model.StatusSnapshot
	active    model.Cycle
	statusErr error

	confirmForm  *huh.Form
	confirmVal   bool
	confirmExtra string
	confirmNote  string
	flash        string
}

// NewApp creates the dashboard model over a cycle manager.
func NewApp(mgr *cycle.Manager) App {
	a := App{mgr: mgr, now: time.Now}
	a.refresh()
	return a
}

// Run starts the dashboard in the alternate screen.
func Run(mgr *cycle.Manager) error {
	p := tea.NewProgram(NewApp(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) refresh() {
	now := a.now()
	snap, err := a.mgr.Status(now)
	if err != nil {
		a.statusErr = err
		return
	}
	a.statusErr = nil
	a.snap = snap
	if c, cerr := a.mgr.ActiveCycle(now); cerr == nil {
		a.active = c
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.confirmForm != nil {
		return a.updateConfirmForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		a.refresh()
		return a, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.flash = ""
			a.refresh()
			return a, nil
		case "c":
			if a.snap.PendingCheckIn != nil {
				a.confirmVal = true
				a.confirmExtra = ""
				a.confirmNote = ""
				a.confirmForm = newConfirmForm(&a.confirmVal, &a.confirmExtra, &a.confirmNote)
				return a, a.confirmForm.Init()
			}
			a.flash = "No check-in pending."
			return a, nil
		}
	}

	return a, nil
}

func newConfirmForm(value *bool, extra, note *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Did today stay on the usual amounts?").
				Description("Confirming logs the day-type defaults as today's spend.").
				Affirmative("Yes, defaults").
				Negative("No, I'll log it").
				Value(value),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Anything extra today?").
				Placeholder("0").
				Validate(validExtraAmount).
				Value(extra),
			huh.NewInput().
				Title("Note").
				Placeholder("optional").
				Value(note),
		),
	)
}

func validExtraAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.Sign() < 0 {
		return fmt.Errorf("enter a non-negative amount")
	}
	return nil
}

func (a App) updateConfirmForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirmForm = f
	}

	switch a.confirmForm.State {
	case huh.StateCompleted:
		a.confirmForm = nil
		if a.confirmVal {
			extra := decimal.Zero
			if s := strings.TrimSpace(a.confirmExtra); s != "" {
				if v, err := decimal.NewFromString(s); err == nil {
					extra = v
				}
			}
			if err := a.mgr.Confirm(a.now(), extra, strings.TrimSpace(a.confirmNote)); err != nil {
				a.flash = fmt.Sprintf("Confirm failed: %v", err)
			} else {
				a.flash = "Check-in confirmed with defaults."
			}
		} else {
			a.flash = "Log today with: cashguard spend <breakfast> <lunch> <dinner>"
		}
		a.refresh()
		return a, nil
	case huh.StateAborted:
		a.confirmForm = nil
		return a, nil
	}

	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	t := theme.Active

	if a.width > 0 && a.width < minTerminalWidth {
		return lipgloss.NewStyle().Foreground(t.Orange).
			Render(fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d).\n", a.width, minTerminalWidth))
	}

	width := a.width
	if width <= 0 {
		width = minTerminalWidth
	}
	if width > maxContentWidth {
		width = maxContentWidth
	}

	if a.statusErr != nil {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted)
		return "\n" + lipgloss.NewStyle().Foreground(t.Orange).Render("  No active cycle.") +
			"\n\n" + hint.Render("  Start one with: cashguard cycle start <opening-balance>") +
			"\n" + hint.Render("  Press q to quit.") + "\n"
	}

	if a.confirmForm != nil {
		return "\n" + a.confirmForm.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderMetrics(width))
	b.WriteString("\n")
	b.WriteString(a.renderToday(width))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{
		a.renderDayLog(width / 2),
		a.renderSinking(width - width/2),
	}))
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a App) renderHeader() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	title := titleStyle.Render("  cashguard")
	span := mutedStyle.Render(fmt.Sprintf("%s to %s",
		cli.FormatDate(a.snap.CycleStart), cli.FormatDate(a.snap.CycleEnd)))

	total := int(a.snap.CycleEnd.Sub(a.snap.CycleStart).Hours()/24) + 1
	dayNum := total - a.snap.DaysLeft + 1
	bar := components.CycleBar(dayNum, total, 24)

	return title + "  " + span + "\n  " + bar + "\n"
}

func (a App) renderMetrics(width int) string {
	t := theme.Active

	walletColor := t.Green
	if a.snap.DailyAllowance.IsZero() {
		walletColor = t.Red
	}
	wiggleColor := t.Green
	if a.snap.WiggleRoom.Sign() < 0 {
		wiggleColor = t.Red
	}

	return components.MetricCardRow([]components.Metric{
		{
			Label: "Daily Wallet",
			Value: cli.FormatMoney(a.snap.DailyAllowance),
			Hint:  cli.FormatDays(a.snap.DaysLeft) + " left",
			Color: walletColor,
		},
		{
			Label: "Sinking Fund",
			Value: cli.FormatMoney(a.snap.SinkingTotal),
			Hint:  "set aside",
			Color: t.Blue,
		},
		{
			Label: "Wiggle Room",
			Value: cli.FormatSigned(a.snap.WiggleRoom),
			Hint:  "vs " + cli.FormatMoney(a.snap.RollingAverage) + " avg",
			Color: wiggleColor,
		},
		{
			Label: "Spent So Far",
			Value: cli.FormatMoney(a.snap.SpendsToDate),
			Hint:  "of " + cli.FormatMoney(a.snap.OpeningBalance.Add(a.snap.IncomesToDate)),
			Color: t.Yellow,
		},
	}, width)
}

func (a App) renderToday(width int) string {
	spentToday := decimal.Zero
	if sp, ok := a.active.Spend(a.snap.AsOf); ok {
		spentToday = sp.Total()
	}

	pct := 0.0
	if a.snap.DailyAllowance.Sign() > 0 {
		f, _ := spentToday.Div(a.snap.DailyAllowance).Float64()
		pct = f
	} else if spentToday.Sign() > 0 {
		pct = 1
	}

	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	return "  " + components.BudgetBar("Today", pct, 7, barWidth) + "\n"
}

func (a App) renderDayLog(width int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	spends := make([]model.DaySpend, 0, len(a.active.Spends))
	for _, sp := range a.active.Spends {
		if !model.Day(sp.Date).After(a.snap.AsOf) {
			spends = append(spends, sp)
		}
	}
	sort.Slice(spends, func(i, j int) bool {
		return spends[i].Date.After(spends[j].Date)
	})
	if len(spends) > dayLogRows {
		spends = spends[:dayLogRows]
	}

	var b strings.Builder
	if len(spends) == 0 {
		b.WriteString(dim.Render("nothing logged yet"))
	}
	for i, sp := range spends {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := " "
		if sp.AutoFilled {
			marker = dim.Render("a")
		}
		b.WriteString(fmt.Sprintf("%s %s %s  %s",
			muted.Render(cli.FormatDayOfWeek(sp.Date)),
			cli.FormatDateShort(sp.Date),
			marker,
			cli.FormatMoney(sp.Total())))
	}

	return components.ContentCard("Day log", b.String(), width)
}

func (a App) renderSinking(width int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	row := func(label string, v decimal.Decimal) string {
		return fmt.Sprintf("%s %s", muted.Render(fmt.Sprintf("%-12s", label)), cli.FormatMoney(v))
	}

	lines := []string{
		row("Rent", a.snap.SinkingFund.Rent),
		row("Tiffin", a.snap.SinkingFund.Tiffin),
		row("Electricity", a.snap.SinkingFund.Electricity),
		row("Survival", a.snap.SinkingFund.Survival),
		row("Total", a.snap.SinkingTotal),
	}

	return components.ContentCard("Sinking fund", strings.Join(lines, "\n"), width)
}

func (a App) renderFooter() string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	warn := lipgloss.NewStyle().Foreground(t.Orange)

	var b strings.Builder
	if a.snap.PendingCheckIn != nil {
		b.WriteString(warn.Render("  Check-in pending, press c to confirm today"))
		b.WriteString("\n")
	}
	if a.flash != "" {
		b.WriteString(dim.Render("  " + a.flash))
		b.WriteString("\n")
	}
	b.WriteString(dim.Render("  r refresh · c check-in · q quit"))
	b.WriteString("\n")
	return b.String()
}
