package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rsinha/cashguard/internal/cli"
	"github.com/rsinha/cashguard/internal/daemon"

	"github.com/spf13/cobra"
)

var flagWatchAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream check-in events from the running daemon",
	Long: "Subscribe to the daemon's event stream and print each check-in " +
		"prompt and auto-fill as it happens, with the refreshed daily allowance.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchAddr, "addr", "127.0.0.1:8764", "Daemon HTTP address")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := daemon.NewClient(flagWatchAddr)
	if !client.Healthy(ctx) {
		return fmt.Errorf("no daemon at %s; start one with: cashguard daemon", flagWatchAddr)
	}

	fmt.Printf("  Watching daemon at %s (ctrl-c to stop)\n\n", flagWatchAddr)

	err := client.Stream(ctx, func(ev daemon.Event) error {
		printEvent(ev)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printEvent(ev daemon.Event) {
	ts := ev.Timestamp.Local().Format("15:04:05")
	switch ev.Type {
	case "snapshot":
		fmt.Printf("  %s connected\n", ts)
	case "checkin_prompt":
		fmt.Printf("  %s %s\n", ts, cli.Warn("check-in prompt issued for "+ev.Date))
	case "checkin_autofill":
		fmt.Printf("  %s defaults auto-filled for %s\n", ts, ev.Date)
	default:
		fmt.Printf("  %s %s %s\n", ts, ev.Type, ev.Date)
	}
	if snap := ev.Snapshot; snap != nil {
		fmt.Printf("           allowance %s, sinking fund %s, %s left\n",
			cli.FormatMoney(snap.DailyAllowance),
			cli.FormatMoney(snap.SinkingTotal),
			cli.FormatDays(snap.DaysLeft))
	}
}
