package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/storage"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		distance string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the latest stored snapshots",
		Long: `Print race predictions, training status and heat/altitude
acclimatization computed from the latest stored snapshot of each family.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return errors.New("--days must be positive")
			}
			repo, err := storage.NewDiskRepo(opts.storageDir)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), analysis.NewAnalyzer(repo), opts.userID, distance, days)
		},
	}

	cmd.Flags().StringVar(&distance, "distance", analysis.Distance5K, "race distance (5K|10K|Half|Marathon)")
	cmd.Flags().IntVar(&days, "days", 90, "days to look back")

	return cmd
}

// missing is true for errors meaning there is nothing stored to analyze.
func missing(err error) bool {
	return errors.Is(err, storage.ErrSnapshotNotFound) || errors.Is(err, analysis.ErrNoData)
}

func runAnalyze(ctx context.Context, out io.Writer, analyzer *analysis.Analyzer, userID, distance string, days int) error {
	fmt.Fprintf(out, "=== Race Times (%s, last %d days) ===\n", distance, days)
	raceTimes, err := analyzer.RaceTimes(ctx, userID, distance, days)
	switch {
	case missing(err):
		fmt.Fprintln(out, "no race predictions data")
	case err != nil:
		return err
	default:
		printPredictions(out, raceTimes.LatestPredictions)
		printImprovement(out, raceTimes.Improvement)
		if raceTimes.Synthesized {
			fmt.Fprintln(out, "(estimated from activities)")
		}
	}

	fmt.Fprintf(out, "\n=== Training Status (last %d days) ===\n", days)
	status, err := analyzer.TrainingStatus(ctx, userID, days)
	switch {
	case missing(err):
		fmt.Fprintln(out, "no training history data")
	case err != nil:
		return err
	default:
		printCounts(out, status.StatusCounts)
	}

	fmt.Fprintf(out, "\n=== Heat / Altitude (last %d days) ===\n", days)
	heat, err := analyzer.HeatAltitude(ctx, userID, days)
	switch {
	case missing(err):
		fmt.Fprintln(out, "no heat and altitude data")
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "average heat: %.1f, average altitude: %.1f over %d days\n",
			heat.AverageHeat, heat.AverageAltitude, len(heat.Points))
		if heat.Latest != nil {
			fmt.Fprintf(out, "latest (%s): heat %.1f, altitude %.1f\n", heat.Latest.Date, heat.Latest.Heat, heat.Latest.Altitude)
		}
	}

	return nil
}
