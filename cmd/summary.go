package cmd

import (
	"fmt"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize spending in the active cycle",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	now := localNow(mgr)
	c, err := mgr.ActiveCycle(now)
	if err != nil {
		return err
	}

	cfg := mgr.Config()
	sum := report.Summarize(cfg, &c, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CYCLE SUMMARY"))
	fmt.Println()
	fmt.Printf("  Cycle %s to %s, day %d\n\n",
		cli.FormatDate(sum.Start), cli.FormatDate(sum.End), sum.DaysElapsed)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Spending",
		Headers: []string{"Figure", "Value"},
		Rows: [][]string{
			{"Total spent", cli.FormatMoney(sum.TotalSpent)},
			{"Average per day", cli.FormatMoney(sum.AveragePerDay)},
			{"Days logged", fmt.Sprintf("%d of %d", sum.DaysLogged, sum.DaysElapsed)},
			{"Auto-filled days", fmt.Sprintf("%d", sum.AutoFilled)},
			{"Vs defaults", cli.FormatSigned(sum.VsDefaults)},
		},
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Item",
		Headers: []string{"Item", "Total"},
		Rows: [][]string{
			{"Breakfast", cli.FormatMoney(sum.Breakfast)},
			{"Lunch", cli.FormatMoney(sum.Lunch)},
			{"Dinner", cli.FormatMoney(sum.Dinner)},
			{"Other", cli.FormatMoney(sum.Other)},
			{"Extras", cli.FormatMoney(sum.Extra)},
		},
	}))

	rows := make([][]string, 0, 3)
	for _, st := range report.ByDayType(&c, now) {
		rows = append(rows, []string{
			st.DayType,
			fmt.Sprintf("%d", st.Days),
			cli.FormatMoney(st.Total),
			cli.FormatMoney(st.Average),
			cli.FormatPercent(st.SharePercent / 100),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Day Type",
		Headers: []string{"Day type", "Days", "Total", "Average", "Share"},
		Rows:    rows,
	}))

	series := report.DailySeries(&c, now)
	totals := make([]decimal.Decimal, 0, len(series))
	for i := len(series) - 1; i >= 0; i-- {
		totals = append(totals, series[i].Total)
	}
	fmt.Printf("  Daily trend: %s\n\n", cli.RenderSparkline(totals))
	return nil
}
