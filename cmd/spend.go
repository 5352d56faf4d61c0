package cmd

import (
	"fmt"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/cycle"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSpendDate   string
	flagSpendNote   string
	flagExtraDate   string
	flagConfirmDate string
)

var spendCmd = &cobra.Command{
	Use:   "spend <breakfast> <lunch> <dinner> [other]",
	Short: "Log the day's meal spends",
	Long: "Log the actual meal spends for a date, replacing any auto-filled " +
		"defaults. Extras already logged for the date are kept.",
	Args: cobra.RangeArgs(3, 4),
	RunE: runSpend,
}

var extraCmd = &cobra.Command{
	Use:   "extra <amount> [note]",
	Short: "Log an extra expense on top of the day's spends",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExtra,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm [extra] [note]",
	Short: "Answer the nightly check-in",
	Long: "Confirm the day's check-in. If nothing was logged for the date, " +
		"the day-type default amounts are recorded as the confirmed spend. " +
		"An extra amount and note are added on top of the day's record.",
	Args: cobra.RangeArgs(0, 2),
	RunE: runConfirm,
}

func init() {
	spendCmd.Flags().StringVar(&flagSpendDate, "date", "", "Spend date (YYYY-MM-DD, default today)")
	spendCmd.Flags().StringVar(&flagSpendNote, "note", "", "Note attached to the day's record")
	extraCmd.Flags().StringVar(&flagExtraDate, "date", "", "Expense date (YYYY-MM-DD, default today)")
	confirmCmd.Flags().StringVar(&flagConfirmDate, "date", "", "Check-in date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(spendCmd)
	rootCmd.AddCommand(extraCmd)
	rootCmd.AddCommand(confirmCmd)
}

func runSpend(_ *cobra.Command, args []string) error {
	amounts := make([]decimal.Decimal, 4)
	for i, arg := range args {
		v, err := parseAmount(arg)
		if err != nil {
			return err
		}
		amounts[i] = v
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	date, err := resolveDate(mgr, flagSpendDate)
	if err != nil {
		return err
	}

	if err := mgr.LogSpend(date, amounts[0], amounts[1], amounts[2], amounts[3], flagSpendNote); err != nil {
		return err
	}

	total := amounts[0].Add(amounts[1]).Add(amounts[2]).Add(amounts[3])
	fmt.Printf("  Logged %s for %s\n", cli.FormatMoney(total), cli.FormatDate(date))
	printAllowanceAfter(mgr)
	return nil
}

func runExtra(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	note := ""
	if len(args) == 2 {
		note = args[1]
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	date, err := resolveDate(mgr, flagExtraDate)
	if err != nil {
		return err
	}

	if err := mgr.LogExtra(date, amount, note); err != nil {
		return err
	}
	fmt.Printf("  Logged extra %s for %s\n", cli.FormatMoney(amount), cli.FormatDate(date))
	printAllowanceAfter(mgr)
	return nil
}

func runConfirm(_ *cobra.Command, args []string) error {
	extra := decimal.Zero
	note := ""
	if len(args) >= 1 {
		v, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		extra = v
	}
	if len(args) == 2 {
		note = args[1]
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	date, err := resolveDate(mgr, flagConfirmDate)
	if err != nil {
		return err
	}

	if err := mgr.Confirm(date, extra, note); err != nil {
		return err
	}
	if extra.Sign() > 0 {
		fmt.Printf("  Check-in confirmed for %s with extra %s\n", cli.FormatDate(date), cli.FormatMoney(extra))
	} else {
		fmt.Printf("  Check-in confirmed for %s\n", cli.FormatDate(date))
	}
	printAllowanceAfter(mgr)
	return nil
}

// printAllowanceAfter shows the recomputed daily allowance after a mutation
// so every log command doubles as a quick wallet check.
func printAllowanceAfter(mgr *cycle.Manager) {
	snap, err := mgr.Status(localNow(mgr))
	if err != nil {
		return
	}
	fmt.Printf("  Daily allowance is now %s (%s left)\n",
		cli.FormatMoney(snap.DailyAllowance), cli.FormatDays(snap.DaysLeft))
}
