package cmd

import (
	"fmt"

	"github.com/rsinha/cashguard/internal/cli"

	"github.com/spf13/cobra"
)

var setBalanceCmd = &cobra.Command{
	Use:   "set-balance <amount>",
	Short: "Correct the cycle to match counted cash",
	Long: "Set the wallet balance to the cash you actually hold. The cycle's " +
		"opening balance absorbs the difference, so unlogged spending stops " +
		"skewing the daily allowance.",
	Args: cobra.ExactArgs(1),
	RunE: runSetBalance,
}

func init() {
	rootCmd.AddCommand(setBalanceCmd)
}

func runSetBalance(_ *cobra.Command, args []string) error {
	balance, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := mgr.SetBalance(localNow(mgr), balance); err != nil {
		return err
	}
	fmt.Printf("  Balance set to %s\n", cli.FormatMoney(balance))
	printAllowanceAfter(mgr)
	return nil
}
