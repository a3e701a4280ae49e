package analysis

import (
	"context"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=analysis_test

type snapshotLoader interface {
	Load(ctx context.Context, family ingest.Family, userID, timestamp string) (*ingest.Table, error)
}

type RaceTimesReport struct {
	LatestPredictions map[string]string `json:"latest_predictions"`
	Improvement       *Improvement      `json:"improvement"`
	PlotData          *PlotData         `json:"plot_data"`
	Synthesized       bool              `json:"synthesized"`
}

type TrainingStatusReport struct {
	*TrainingStatusAnalysis
	Synthesized bool `json:"synthesized"`
}

// Analyzer runs the analyses over the latest stored snapshot of a user.
type Analyzer struct {
	repo snapshotLoader
	now  func() time.Time
}

func NewAnalyzer(repo snapshotLoader) *Analyzer {
	return &Analyzer{
		repo: repo,
		now:  time.Now,
	}
}

func (a *Analyzer) RaceTimes(ctx context.Context, userID, distance string, days int) (*RaceTimesReport, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.raceTimes")
	defer span.End()
	span.SetAttributes(attribute.String("distance", distance))
	span.SetAttributes(attribute.Int("days", days))

	if _, err := DistanceColumn(distance); err != nil {
		return nil, err
	}

	predictions, err := a.repo.Load(ctx, ingest.FamilyRacePredictions, userID, "")
	if err != nil {
		return nil, err
	}

	latest, err := LatestPredictions(predictions)
	if err != nil {
		return nil, err
	}

	now := a.now()
	improvement, err := CalculateImprovement(predictions, distance, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}
	plot, err := RaceTimeTrend(predictions, distance, days, now)
	if err != nil {
		return nil, err
	}

	return &RaceTimesReport{
		LatestPredictions: latest,
		Improvement:       improvement,
		PlotData:          plot,
		Synthesized:       predictions.Synthesized,
	}, nil
}

func (a *Analyzer) TrainingStatus(ctx context.Context, userID string, days int) (*TrainingStatusReport, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.trainingStatus")
	defer span.End()
	span.SetAttributes(attribute.Int("days", days))

	history, err := a.repo.Load(ctx, ingest.FamilyTrainingHistory, userID, "")
	if err != nil {
		return nil, err
	}

	return &TrainingStatusReport{
		TrainingStatusAnalysis: AnalyzeTrainingStatus(history, days, a.now()),
		Synthesized:            history.Synthesized,
	}, nil
}

func (a *Analyzer) HeatAltitude(ctx context.Context, userID string, days int) (*HeatAltitudeAnalysis, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.heatAltitude")
	defer span.End()
	span.SetAttributes(attribute.Int("days", days))

	metrics, err := a.repo.Load(ctx, ingest.FamilyHeatAltitude, userID, "")
	if err != nil {
		return nil, err
	}

	return HeatAltitudeTrend(metrics, days, a.now()), nil
}
