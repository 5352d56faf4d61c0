package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rsinha/cashguard/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues mirrors the config fields the wizard edits. huh binds string
// inputs, so numbers round-trip through these.
type setupValues struct {
	SalaryDay    string
	SalaryAmount string
	Rent         string
	TiffinDaily  string
	CheckinTime  string
	Timezone     string
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	vals := setupValues{
		SalaryDay:    "10",
		SalaryAmount: "15000",
		Rent:         strconv.FormatInt(cfg.FixedBills.Rent, 10),
		TiffinDaily:  strconv.FormatInt(cfg.FixedBills.TiffinDailyCost, 10),
		CheckinTime:  cfg.Cycle.CheckinTime,
		Timezone:     cfg.Cycle.Timezone,
	}
	if len(cfg.IncomeSources) > 0 {
		vals.SalaryDay = strconv.Itoa(cfg.IncomeSources[0].Day)
		vals.SalaryAmount = strconv.FormatInt(cfg.IncomeSources[0].Amount, 10)
	}

	intInRange := func(lo, hi int) func(string) error {
		return func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < lo || n > hi {
				return fmt.Errorf("enter a number between %d and %d", lo, hi)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Salary day of month").
				Description("The day your salary lands. Cycles anchor to this day.").
				Value(&vals.SalaryDay).
				Validate(intInRange(1, 31)),
			huh.NewInput().
				Title("Salary amount (₹)").
				Value(&vals.SalaryAmount).
				Validate(intInRange(0, 10_000_000)),
			huh.NewInput().
				Title("Monthly rent (₹)").
				Value(&vals.Rent).
				Validate(intInRange(0, 10_000_000)),
			huh.NewInput().
				Title("Tiffin cost per meal (₹)").
				Value(&vals.TiffinDaily).
				Validate(intInRange(0, 100_000)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Nightly check-in time").
				Description("HH:MM, 24-hour clock. Defaults auto-fill an hour after this.").
				Value(&vals.CheckinTime).
				Validate(func(s string) error {
					probe := cfg.Cycle
					probe.CheckinTime = s
					_, _, err := probe.CheckinClock()
					return err
				}),
			huh.NewInput().
				Title("Timezone").
				Value(&vals.Timezone).
				Validate(func(s string) error {
					_, err := time.LoadLocation(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	salaryDay, _ := strconv.Atoi(vals.SalaryDay)
	salaryAmount, _ := strconv.ParseInt(vals.SalaryAmount, 10, 64)
	cfg.FixedBills.Rent, _ = strconv.ParseInt(vals.Rent, 10, 64)
	cfg.FixedBills.TiffinDailyCost, _ = strconv.ParseInt(vals.TiffinDaily, 10, 64)
	cfg.Cycle.CheckinTime = vals.CheckinTime
	cfg.Cycle.Timezone = vals.Timezone

	if len(cfg.IncomeSources) > 0 {
		cfg.IncomeSources[0].Day = salaryDay
		cfg.IncomeSources[0].Amount = salaryAmount
	} else {
		cfg.IncomeSources = []config.IncomeSourceConfig{
			{Day: salaryDay, Amount: salaryAmount, Label: "Salary"},
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Start your first cycle on salary day:")
	fmt.Println("    cashguard cycle start <cash-in-hand>")
	fmt.Println()

	return nil
}
