package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/rsinha/cashguard/internal/tui/theme"
)

// CycleBar renders progress through the budgeting cycle as a filled bar
// with a day counter.
func CycleBar(elapsed, total, width int) string {
	t := theme.Active
	if total <= 0 {
		return ""
	}

	pct := float64(elapsed) / float64(total)
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(labelStyle.Render(fmt.Sprintf(" day %d of %d", elapsed, total)))
	return b.String()
}

// ColorForUsage returns green/yellow/orange/red as spending approaches the
// allowance.
func ColorForUsage(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1.0:
		return string(t.Red)
	case pct >= 0.8:
		return string(t.Orange)
	case pct >= 0.5:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// BudgetBar renders a labeled allowance-usage bar: how much of today's
// wallet has been spent.
func BudgetBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	capped := pct
	if capped > 1 {
		capped = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForUsage(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForUsage(pct))).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(capped) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
