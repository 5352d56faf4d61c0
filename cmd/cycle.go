package cmd

import (
	"fmt"
	"time"

	"github.com/rsinha/cashguard/internal/cli"

	"github.com/spf13/cobra"
)

var flagCycleDate string

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Manage budgeting cycles",
}

var cycleStartCmd = &cobra.Command{
	Use:   "start <opening-balance>",
	Short: "Start a new cycle anchored to the salary day",
	Long: "Start a new 30-day cycle with the cash you hold right now, salary included. " +
		"Without --date the cycle anchors to the most recent salary day.",
	Args: cobra.ExactArgs(1),
	RunE: runCycleStart,
}

var cycleHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List all recorded cycles",
	RunE:  runCycleHistory,
}

func init() {
	cycleStartCmd.Flags().StringVar(&flagCycleDate, "date", "", "Cycle start date (YYYY-MM-DD)")
	cycleCmd.AddCommand(cycleStartCmd)
	cycleCmd.AddCommand(cycleHistoryCmd)
	rootCmd.AddCommand(cycleCmd)
}

func runCycleStart(_ *cobra.Command, args []string) error {
	opening, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	var start time.Time
	if flagCycleDate != "" {
		start, err = resolveDate(mgr, flagCycleDate)
		if err != nil {
			return err
		}
	}

	c, err := mgr.StartCycle(opening, start, localNow(mgr))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Started cycle %s to %s\n", cli.FormatDate(c.StartDate), cli.FormatDate(c.EndDate))
	fmt.Printf("  Opening balance: %s\n", cli.FormatMoney(c.OpeningBalance))
	for _, in := range c.Incomes {
		fmt.Printf("  Expecting %s (%s) on %s\n",
			cli.FormatMoney(in.Amount), in.Label, cli.FormatDate(in.Date))
	}
	fmt.Println()
	return nil
}

func runCycleHistory(_ *cobra.Command, _ []string) error {
	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	cycles := mgr.History()
	if len(cycles) == 0 {
		fmt.Println("  No cycles recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		spent := c.SpendsThrough(c.EndDate)
		rows = append(rows, []string{
			c.ID(),
			cli.FormatDate(c.StartDate),
			cli.FormatDate(c.EndDate),
			cli.FormatMoney(c.OpeningBalance),
			cli.FormatMoney(spent),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cycle History",
		Headers: []string{"Cycle", "Start", "End", "Opening", "Spent"},
		Rows:    rows,
	}))
	return nil
}
