package cmd

import (
	"fmt"

	"github.com/rsinha/cashguard/internal/cli"

	"github.com/spf13/cobra"
)

var flagIncomeDate string

var incomeCmd = &cobra.Command{
	Use:   "income <amount> [label]",
	Short: "Record an income received in the active cycle",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runIncome,
}

func init() {
	incomeCmd.Flags().StringVar(&flagIncomeDate, "date", "", "Income date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(incomeCmd)
}

func runIncome(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	label := "Income"
	if len(args) == 2 {
		label = args[1]
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	date, err := resolveDate(mgr, flagIncomeDate)
	if err != nil {
		return err
	}

	if err := mgr.RecordIncome(date, amount, label); err != nil {
		return err
	}
	fmt.Printf("  Recorded %s (%s) on %s\n", cli.FormatMoney(amount), label, cli.FormatDate(date))
	return nil
}
