package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rsinha/cashguard/internal/config"
	"github.com/rsinha/cashguard/internal/cycle"
	"github.com/rsinha/cashguard/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagQuiet   bool
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "cashguard",
	Short: "Salary-cycle budgeting assistant",
	Long:  "Track a 30-day salary cycle: sinking fund, daily wallet, and nightly spend check-ins.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress log output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug log output")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "State directory (default: XDG data dir)")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case flagQuiet:
		log.SetLevel(logrus.ErrorLevel)
	case flagVerbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir()
}

// newManager is the shared bootstrap path used by all commands: load config,
// open the store, and hand both to a cycle manager. The returned closer
// releases the store.
func newManager() (*cycle.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Cycle.Location()
	if err != nil {
		return nil, nil, err
	}

	log := newLogger()
	st, err := store.Open(dataDir(), loc, log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	mgr, err := cycle.New(cfg, st, log)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return mgr, func() { _ = st.Close() }, nil
}

// localNow returns the current instant in the configured cycle timezone.
func localNow(mgr *cycle.Manager) time.Time {
	loc, err := mgr.Config().Cycle.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// resolveDate parses a --date flag value, falling back to today in the
// cycle timezone when the flag is empty.
func resolveDate(mgr *cycle.Manager, flagValue string) (time.Time, error) {
	if flagValue == "" {
		return localNow(mgr), nil
	}
	loc, err := mgr.Config().Cycle.Location()
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.ParseInLocation("2006-01-02", flagValue, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", flagValue)
	}
	return d, nil
}

func parseAmount(arg string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", arg)
	}
	return d, nil
}
