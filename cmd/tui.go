package cmd

import (
	"github.com/rsinha/cashguard/internal/tui"
	"github.com/rsinha/cashguard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive wallet dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive("flexoki-dark")

	// Force TrueColor profile so all background styling produces ANSI codes.
	// Without this, lipgloss may default to Ascii profile (no colors).
	lipgloss.SetColorProfile(termenv.TrueColor)

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	return tui.Run(mgr)
}
