package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/pipeline"
	"github.com/2beens/fitassist/internal/storage"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("either --data-dir or specific file paths must be provided")

type parseParams struct {
	dataDir string
	// explicit file per family, overriding the located one
	files   map[ingest.Family]string
	full    bool
	analyze bool
}

func newParseCmd(opts *options) *cobra.Command {
	var params parseParams
	var predictionsFile, trainingFile, metricsFile, activitiesFile string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse export files and store them as snapshots",
		Long: `Parse the Garmin export files found under --data-dir, or the files
given explicitly, and save one snapshot per family.

By default only the most recent file of each family is parsed.
With --full all files of a family are merged and deduplicated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.files = map[ingest.Family]string{
				ingest.FamilyRacePredictions: predictionsFile,
				ingest.FamilyTrainingHistory: trainingFile,
				ingest.FamilyHeatAltitude:    metricsFile,
				ingest.FamilyActivities:      activitiesFile,
			}
			return runParse(cmd.Context(), cmd.OutOrStdout(), opts, params)
		},
	}

	cmd.Flags().StringVar(&params.dataDir, "data-dir", "", "directory containing Garmin export files")
	cmd.Flags().StringVar(&predictionsFile, "predictions-file", "", "path to a race predictions file")
	cmd.Flags().StringVar(&trainingFile, "training-file", "", "path to a training history file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "path to a heat and altitude metrics file")
	cmd.Flags().StringVar(&activitiesFile, "activities-file", "", "path to an activities file")
	cmd.Flags().BoolVar(&params.full, "full", false, "merge all files of a family instead of the most recent one")
	cmd.Flags().BoolVar(&params.analyze, "analyze", false, "print the race time analysis after parsing")

	return cmd
}

func runParse(ctx context.Context, out io.Writer, opts *options, params parseParams) error {
	explicit := 0
	for _, path := range params.files {
		if path != "" {
			explicit++
		}
	}
	if params.dataDir == "" && explicit == 0 {
		return errNoInput
	}

	metricsManager := newMetricsManager()
	tables := map[ingest.Family]*ingest.Table{}
	if params.dataDir != "" {
		parsed, err := pipeline.ParseDir(ctx, params.dataDir, params.full, metricsManager)
		if err != nil {
			return fmt.Errorf("parse %s: %w", params.dataDir, err)
		}
		tables = parsed
	}

	parser := ingest.NewParser(params.dataDir, metricsManager)
	for family, path := range params.files {
		if path == "" {
			continue
		}
		t, err := parser.ParseFile(ctx, family, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		tables[family] = t
	}

	if params.dataDir != "" {
		for _, family := range ingest.ExportFamilies {
			if _, ok := tables[family]; !ok {
				fmt.Fprintf(out, "%s: no file found\n", family)
			}
		}
	}

	repo, err := storage.NewDiskRepo(opts.storageDir)
	if err != nil {
		return err
	}
	ingestor := pipeline.NewIngestor(repo, nil, nil, metricsManager)
	defer ingestor.Close()

	run, err := ingestor.SaveTables(ctx, pipeline.SourceLocal, opts.userID, tables)
	if err != nil {
		return err
	}
	if run.Err != nil {
		log.Warnf("some families were not saved: %s", run.Err)
	}

	fmt.Fprintln(out, "\n=== Garmin Fitness Assistant ===")
	printRunSummary(out, run, tables)

	predictions := tables[ingest.FamilyRacePredictions]
	if params.analyze && predictions != nil {
		printPredictionsAnalysis(out, predictions)
	}
	return nil
}

// printPredictionsAnalysis compares the first and the last prediction of every distance.
func printPredictionsAnalysis(out io.Writer, predictions *ingest.Table) {
	fmt.Fprintln(out, "\n=== Latest Race Predictions ===")
	latest, err := analysis.LatestPredictions(predictions)
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
	} else {
		printPredictions(out, latest)
	}

	fmt.Fprintln(out, "\n=== Improvement Analysis ===")
	for _, distance := range analysis.Distances {
		improvement, err := analysis.CalculateImprovement(predictions, distance, time.Time{}, time.Time{})
		if err != nil {
			fmt.Fprintf(out, "%s: error analyzing - %s\n", distance, err)
			continue
		}
		printImprovement(out, improvement)
	}
}
