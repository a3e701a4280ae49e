// fitcli parses, fetches and analyzes Garmin fitness exports from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/fitassist/internal/logging"
	"github.com/2beens/fitassist/internal/storage"
	"github.com/2beens/fitassist/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// flags shared by every subcommand
type options struct {
	storageDir string
	userID     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "fitcli",
		Short: "Garmin fitness assistant command line tools",
		Long: `fitcli ingests Garmin Connect exports into the snapshot storage
and runs the analyses over what is stored.

Examples:
  fitcli parse --data-dir ./export --analyze
  fitcli parse --data-dir ./export --full --user-id alice
  fitcli fetch --start 2024-03-01 --end 2024-03-07
  fitcli analyze --distance 10K --days 180
  fitcli list --user-id alice`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    opts.logLevel,
			})
			userID, err := storage.NormalizeUserID(opts.userID)
			if err != nil {
				return err
			}
			opts.userID = userID
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.storageDir, "storage-dir", "./data/storage", "directory of the stored snapshots")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user-id", "", "user the data belongs to (default user when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))

	return rootCmd
}

func newMetricsManager() *metrics.Manager {
	return metrics.NewManager("fitassist", "cli", prometheus.NewRegistry())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
