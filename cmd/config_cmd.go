// Package cmd implements the cashguard CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/rsinha/cashguard/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Data dir: %s\n", dataDir())
	fmt.Println()

	fmt.Println("  [Fixed bills]")
	fmt.Printf("    Rent:         ₹%d (due day %d)\n", cfg.FixedBills.Rent, cfg.FixedBills.DueDay)
	fmt.Printf("    Tiffin:       ₹%d x %d meals = ₹%d\n",
		cfg.FixedBills.TiffinDailyCost,
		cfg.FixedBills.TiffinWeekdayCount+cfg.FixedBills.TiffinSaturdayCount,
		cfg.FixedBills.TiffinTotal())
	months := make([]string, 0, len(cfg.FixedBills.ElectricityDueMonths))
	for _, m := range cfg.FixedBills.ElectricityDueMonths {
		months = append(months, fmt.Sprintf("%d", m))
	}
	fmt.Printf("    Electricity:  ₹%d (months %s)\n", cfg.FixedBills.ElectricityAmount, strings.Join(months, ","))
	fmt.Println()

	fmt.Println("  [Income sources]")
	for _, src := range cfg.IncomeSources {
		fmt.Printf("    Day %2d: ₹%d (%s)\n", src.Day, src.Amount, src.Label)
	}
	fmt.Println()

	fmt.Println("  [Cycle]")
	fmt.Printf("    Length:          %d days\n", cfg.Cycle.LengthDays)
	fmt.Printf("    Timezone:        %s\n", cfg.Cycle.Timezone)
	fmt.Printf("    Check-in:        %s\n", cfg.Cycle.CheckinTime)
	fmt.Printf("    Confirm window:  %d min\n", cfg.Cycle.ConfirmWindowMin)
	fmt.Printf("    Spend-log grace: %d min\n", cfg.Cycle.SpendLogWindowMin)
	fmt.Println()

	fmt.Println("  Run `cashguard setup` to reconfigure, `cashguard defaults` for daily amounts.")
	return nil
}
