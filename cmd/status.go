package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cycle status: daily wallet, sinking fund, and check-in",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	mgr, closeStore, err := newManager()
	if err != nil {
		return err
	}
	defer closeStore()

	now := localNow(mgr)
	snap, err := mgr.Status(now)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveCycle) {
			fmt.Println()
			fmt.Println("  No active cycle.")
			fmt.Println()
			fmt.Println("  Start one on salary day with your cash in hand:")
			fmt.Println("    cashguard cycle start <opening-balance>")
			fmt.Println()
			return nil
		}
		return err
	}

	cyc, err := mgr.ActiveCycle(now)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHGUARD STATUS"))
	fmt.Println()

	totalDays := int(snap.CycleEnd.Sub(snap.CycleStart).Hours()/24) + 1
	dayNum := totalDays - snap.DaysLeft + 1
	fmt.Printf("  Cycle %s to %s\n", cli.FormatDate(snap.CycleStart), cli.FormatDate(snap.CycleEnd))
	fmt.Printf("  %s\n\n", cli.RenderProgressBar(dayNum, totalDays, 30))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Wallet",
		Headers: []string{"Figure", "Amount"},
		Rows: [][]string{
			{"Opening balance", cli.FormatMoney(snap.OpeningBalance)},
			{"Incomes to date", cli.FormatMoney(snap.IncomesToDate)},
			{"Spent to date", cli.FormatMoney(snap.SpendsToDate)},
			{"Sinking fund", cli.FormatMoney(snap.SinkingTotal)},
			{"Daily allowance", cli.FormatMoney(snap.DailyAllowance)},
			{"Rolling average", cli.FormatMoney(snap.RollingAverage)},
			{"Wiggle room", cli.FormatSigned(snap.WiggleRoom)},
		},
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Sinking Fund",
		Headers: []string{"Component", "Amount"},
		Rows: [][]string{
			{"Rent", cli.FormatMoney(snap.SinkingFund.Rent)},
			{"Tiffin", cli.FormatMoney(snap.SinkingFund.Tiffin)},
			{"Electricity", cli.FormatMoney(snap.SinkingFund.Electricity)},
			{"Survival cushion", cli.FormatMoney(snap.SinkingFund.Survival)},
			{"Total", cli.FormatMoney(snap.SinkingTotal)},
		},
	}))

	if rows := recentSpendRows(cyc, 7); len(rows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Recent Days",
			Headers: []string{"Date", "Total", "Note"},
			Rows:    rows,
		}))
	}

	if ci := snap.PendingCheckIn; ci != nil {
		fmt.Printf("  %s\n\n", cli.Warn(fmt.Sprintf(
			"Check-in pending since %s. Confirm with: cashguard confirm",
			ci.PromptIssuedAt.In(now.Location()).Format("15:04"),
		)))
	}

	fmt.Printf("  %s left in cycle\n\n", cli.FormatDays(snap.DaysLeft))
	return nil
}

func recentSpendRows(c model.Cycle, max int) [][]string {
	spends := make([]model.DaySpend, 0, len(c.Spends))
	for _, sp := range c.Spends {
		spends = append(spends, sp)
	}
	sort.Slice(spends, func(i, j int) bool { return spends[i].Date.After(spends[j].Date) })
	if len(spends) > max {
		spends = spends[:max]
	}

	rows := make([][]string, 0, len(spends))
	for _, sp := range spends {
		note := sp.Note
		if sp.AutoFilled {
			note = "auto-filled"
			if sp.Note != "" {
				note = "auto-filled; " + sp.Note
			}
		}
		rows = append(rows, []string{
			cli.FormatDateShort(sp.Date),
			cli.FormatMoney(sp.Total()),
			note,
		})
	}
	return rows
}
