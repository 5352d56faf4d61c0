package cmd

import (
	"fmt"
	"strconv"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/config"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show the effective daily default amounts",
	RunE:  runDefaults,
}

var setDefaultCmd = &cobra.Command{
	Use:   "set-default <category> <item> <amount>",
	Short: "Override one daily default amount",
	Long: "Override a default spend amount used by auto-fill and confirm. " +
		"Category is weekday, saturday, or sunday; item is breakfast, lunch, " +
		"dinner, or other. Amount is whole rupees.",
	Args: cobra.ExactArgs(3),
	RunE: runSetDefault,
}

func init() {
	defaultsCmd.AddCommand(setDefaultCmd)
	rootCmd.AddCommand(defaultsCmd)
}

func runDefaults(_ *cobra.Command, _ []string) error {
	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := mgr.Config()
	row := func(name string, md config.MealDefaults) []string {
		return []string{
			name,
			cli.FormatMoney(decimal.NewFromInt(md.Breakfast)),
			cli.FormatMoney(decimal.NewFromInt(md.Lunch)),
			cli.FormatMoney(decimal.NewFromInt(md.Dinner)),
			cli.FormatMoney(decimal.NewFromInt(md.Other)),
			cli.FormatMoney(decimal.NewFromInt(md.Total())),
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daily Defaults",
		Headers: []string{"Day type", "Breakfast", "Lunch", "Dinner", "Other", "Total"},
		Rows: [][]string{
			row("Weekday", cfg.DailyDefaults.Weekday),
			row("Saturday", cfg.DailyDefaults.Saturday),
			row("Sunday", cfg.DailyDefaults.Sunday),
		},
	}))
	fmt.Println("  Change one with: cashguard defaults set-default <category> <item> <amount>")
	fmt.Println()
	return nil
}

func runSetDefault(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q, expected whole rupees", args[2])
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := mgr.SetDefault(args[0], args[1], amount); err != nil {
		return err
	}
	fmt.Printf("  Set %s %s default to %s\n",
		args[0], args[1], cli.FormatMoney(decimal.NewFromInt(amount)))
	return nil
}
