package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitassist/internal/garmin"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=pipeline_test

type Source string

const (
	SourceUpload Source = "upload"
	SourceLocal  Source = "local"
	SourceFetch  Source = "fetch"
)

var ErrNoFetcher = errors.New("remote fetching is not configured")

type tableSaver interface {
	Save(ctx context.Context, family ingest.Family, userID string, table *ingest.Table) (string, error)
}

type remoteFetcher interface {
	FetchAll(ctx context.Context, r garmin.DateRange) (map[ingest.Family]*ingest.Table, error)
}

type statusRecorder interface {
	Put(ctx context.Context, status RunStatus) error
}

// Run describes one finished ingestion.
type Run struct {
	ID       string
	Source   Source
	UserID   string
	Started  time.Time
	Duration time.Duration
	// Snapshots maps every saved family to its snapshot name.
	Snapshots map[ingest.Family]string
	Rows      map[ingest.Family]int
	// Err joins the per family failures; families in Snapshots made it regardless.
	Err error
}

func (r *Run) outcome() string {
	switch {
	case r.Err == nil:
		return StateSuccess
	case len(r.Snapshots) > 0:
		return StatePartial
	default:
		return StateFailure
	}
}

// Ingestor turns export directories or remote fetches into stored snapshots.
type Ingestor struct {
	repo     tableSaver
	fetcher  remoteFetcher
	statuses statusRecorder
	metrics  *metrics.Manager

	// background runs are bound to this context, canceled on Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewIngestor creates an ingestor. A nil fetcher disables remote runs,
// a nil statuses recorder disables run status tracking.
func NewIngestor(
	repo tableSaver,
	fetcher remoteFetcher,
	statuses statusRecorder,
	metricsManager *metrics.Manager,
) *Ingestor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Ingestor{
		repo:     repo,
		fetcher:  fetcher,
		statuses: statuses,
		metrics:  metricsManager,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (i *Ingestor) CanFetch() bool {
	return i.fetcher != nil
}

// IngestDir parses the export files under dir and saves one snapshot per
// family found. With full set, every file of a family is aggregated instead
// of only the most preferred one.
func (i *Ingestor) IngestDir(ctx context.Context, source Source, dir, userID string, full bool) (*Run, error) {
	return i.run(ctx, source, userID, func(ctx context.Context) (map[ingest.Family]*ingest.Table, error) {
		return ParseDir(ctx, dir, full, i.metrics)
	})
}

// Fetch pulls every metric of the range from the remote source and saves the resulting tables.
func (i *Ingestor) Fetch(ctx context.Context, userID string, r garmin.DateRange) (*Run, error) {
	if i.fetcher == nil {
		return nil, ErrNoFetcher
	}
	return i.run(ctx, SourceFetch, userID, func(ctx context.Context) (map[ingest.Family]*ingest.Table, error) {
		return i.fetcher.FetchAll(ctx, r)
	})
}

// SaveTables stores already parsed tables as one run.
func (i *Ingestor) SaveTables(ctx context.Context, source Source, userID string, tables map[ingest.Family]*ingest.Table) (*Run, error) {
	return i.run(ctx, source, userID, func(context.Context) (map[ingest.Family]*ingest.Table, error) {
		return tables, nil
	})
}

// StartUpload ingests dir in the background and removes it afterwards.
// It returns the id of the run.
func (i *Ingestor) StartUpload(dir, userID string, full bool) string {
	id := uuid.NewString()
	i.background(id, func(ctx context.Context) {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Errorf("ingest run %s: remove upload dir %s: %s", id, dir, err)
			}
		}()
		ctx = withRunID(ctx, id)
		if _, err := i.IngestDir(ctx, SourceUpload, dir, userID, full); err != nil {
			log.Errorf("ingest run %s: %s", id, err)
		}
	})
	return id
}

// StartFetch runs a remote fetch in the background and returns the id of the run.
func (i *Ingestor) StartFetch(userID string, r garmin.DateRange) (string, error) {
	if i.fetcher == nil {
		return "", ErrNoFetcher
	}
	id := uuid.NewString()
	i.background(id, func(ctx context.Context) {
		ctx = withRunID(ctx, id)
		if _, err := i.Fetch(ctx, userID, r); err != nil {
			log.Errorf("ingest run %s: %s", id, err)
		}
	})
	return id, nil
}

func (i *Ingestor) background(id string, f func(ctx context.Context)) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("ingest run %s: panic: %v", id, r)
			}
		}()
		f(i.ctx)
	}()
}

// Wait blocks until every background run has finished.
func (i *Ingestor) Wait() {
	i.wg.Wait()
}

// Close cancels the background runs still in flight and waits for them.
func (i *Ingestor) Close() {
	i.cancel()
	i.wg.Wait()
}

func (i *Ingestor) run(
	ctx context.Context,
	source Source,
	userID string,
	produce func(ctx context.Context) (map[ingest.Family]*ingest.Table, error),
) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ingestor.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	run := &Run{
		ID:        runIDFrom(ctx),
		Source:    source,
		UserID:    userID,
		Started:   time.Now(),
		Snapshots: map[ingest.Family]string{},
		Rows:      map[ingest.Family]int{},
	}
	span.SetAttributes(
		attribute.String("run.id", run.ID),
		attribute.String("run.source", string(source)),
		attribute.String("user.id", userID),
	)

	i.recordStatus(ctx, run.status(StateRunning))
	i.metrics.GaugeIngestionsRunning.Inc()
	defer func() {
		i.metrics.GaugeIngestionsRunning.Dec()
		run.Duration = time.Since(run.Started)
		outcome := run.outcome()
		i.metrics.HistogramIngestionDuration.WithLabelValues(string(source)).Observe(run.Duration.Seconds())
		i.metrics.CounterIngestionRuns.WithLabelValues(string(source), outcome).Inc()
		// canceled runs still get their final state recorded
		i.recordStatus(context.WithoutCancel(ctx), run.status(outcome))
	}()

	tables, produceErr := produce(ctx)
	if produceErr != nil && len(tables) == 0 {
		run.Err = produceErr
		return run, fmt.Errorf("ingest run %s: %w", run.ID, produceErr)
	}
	run.Err = produceErr

	for _, family := range sortedFamilies(tables) {
		if err := ctx.Err(); err != nil {
			run.Err = multierr.Append(run.Err, err)
			break
		}
		table := tables[family]
		if table == nil {
			continue
		}
		name, err := i.repo.Save(ctx, family, userID, table)
		if err != nil {
			log.Errorf("ingest run %s: save %s: %s", run.ID, family, err)
			run.Err = multierr.Append(run.Err, fmt.Errorf("save %s: %w", family, err))
			continue
		}
		run.Snapshots[family] = name
		run.Rows[family] = table.Len()
		i.metrics.CounterRowsIngested.WithLabelValues(string(family)).Add(float64(table.Len()))
	}

	log.Infof("ingest run %s [%s] for %s: %d snapshots saved in %s",
		run.ID, source, userID, len(run.Snapshots), time.Since(run.Started))

	if len(run.Snapshots) == 0 && run.Err != nil {
		return run, fmt.Errorf("ingest run %s: %w", run.ID, run.Err)
	}
	return run, nil
}

func (i *Ingestor) recordStatus(ctx context.Context, status RunStatus) {
	if i.statuses == nil {
		return
	}
	if err := i.statuses.Put(ctx, status); err != nil {
		log.Warnf("ingest run %s: record status %s: %s", status.ID, status.State, err)
	}
}

// ParseDir parses dir the way an ingestion does: the most preferred file
// per family, or all of them aggregated when full is set.
func ParseDir(ctx context.Context, dir string, full bool, metricsManager *metrics.Manager) (map[ingest.Family]*ingest.Table, error) {
	parser := ingest.NewParser(dir, metricsManager)
	if !full {
		return parser.ParseAllAvailable(ctx)
	}

	aggregations, err := ingest.NewAggregator(parser).AggregateAll(ctx, dir)
	if err != nil {
		return nil, err
	}
	tables := make(map[ingest.Family]*ingest.Table, len(aggregations))
	for family, agg := range aggregations {
		if agg.Skipped != nil {
			log.Warnf("parse dir %s: %s: %d files skipped", dir, family, len(multierr.Errors(agg.Skipped)))
		}
		tables[family] = agg.Table
	}
	return tables, nil
}

func sortedFamilies(tables map[ingest.Family]*ingest.Table) []ingest.Family {
	families := make([]ingest.Family, 0, len(tables))
	for family := range tables {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i] < families[j]
	})
	return families
}

type runIDKey struct{}

func withRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func runIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return uuid.NewString()
}
