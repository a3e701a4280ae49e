package garmin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// metric names, used for cache keys and metrics labels
const (
	MetricActivities      = "activities"
	MetricHeartRate       = "heart_rate"
	MetricSleep           = "sleep"
	MetricSleepLevels     = "sleep_levels"
	MetricStress          = "stress"
	MetricBodyComposition = "body_composition"
	MetricMaxMetrics      = "max_metrics"
)

// default lookback per metric, in days
const (
	DefaultActivitiesDays      = 90
	DefaultDailyMetricDays     = 7
	DefaultBodyCompositionDays = 30
)

// DateRange is a range of whole days, both ends included.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Days returns every day of the range, in order.
func (r DateRange) Days() []time.Time {
	start, end := truncateDay(r.Start), truncateDay(r.End)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fetcher produces the same normalized tables as the export file parser,
// sourced from the cloud API instead.
type Fetcher struct {
	source  DataSource
	cache   *Cache
	metrics *metrics.Manager
	now     func() time.Time
}

// NewFetcher creates a fetcher; a nil cache disables caching.
func NewFetcher(source DataSource, cache *Cache, metricsManager *metrics.Manager) *Fetcher {
	return &Fetcher{
		source:  source,
		cache:   cache,
		metrics: metricsManager,
		now:     time.Now,
	}
}

// resolve fills a missing end with today and a missing start with end
// minus the default lookback.
func (f *Fetcher) resolve(r DateRange, defaultDays int) DateRange {
	if r.End.IsZero() {
		r.End = f.now()
	}
	if r.Start.IsZero() {
		r.Start = r.End.AddDate(0, 0, -defaultDays)
	}
	return DateRange{Start: truncateDay(r.Start), End: truncateDay(r.End)}
}

func (f *Fetcher) Activities(ctx context.Context, r DateRange, limit int) (*ingest.Table, error) {
	r = f.resolve(r, DefaultActivitiesDays)
	key := CacheKey{Metric: MetricActivities, Start: r.Start, End: r.End, Limit: limit}
	return f.cached(ctx, ingest.FamilyActivities, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		data, err := f.source.Activities(ctx, r.Start, r.End, limit)
		if errors.Is(err, ErrNoData) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return ingest.NormalizeRecords(decodePayload(data)), nil
	})
}

func (f *Fetcher) HeartRates(ctx context.Context, r DateRange) (*ingest.Table, error) {
	r = f.resolve(r, DefaultDailyMetricDays)
	key := CacheKey{Metric: MetricHeartRate, Start: r.Start, End: r.End}
	return f.cached(ctx, ingest.FamilyHeartRate, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		return f.daily(ctx, MetricHeartRate, r, f.source.HeartRates, ingest.HeartRateNestedKeys), nil
	})
}

func (f *Fetcher) Stress(ctx context.Context, r DateRange) (*ingest.Table, error) {
	r = f.resolve(r, DefaultDailyMetricDays)
	key := CacheKey{Metric: MetricStress, Start: r.Start, End: r.End}
	return f.cached(ctx, ingest.FamilyStress, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		return f.daily(ctx, MetricStress, r, f.source.Stress, ingest.StressNestedKeys), nil
	})
}

// Sleep returns one summary row per night, with the duration of every sleep
// level type as a sleep_<type>_seconds column.
func (f *Fetcher) Sleep(ctx context.Context, r DateRange) (*ingest.Table, error) {
	r = f.resolve(r, DefaultDailyMetricDays)
	key := CacheKey{Metric: MetricSleep, Start: r.Start, End: r.End}
	return f.cached(ctx, ingest.FamilySleep, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		rows := f.daily(ctx, MetricSleep, r, f.source.Sleep, nil)
		for _, row := range rows {
			addSleepLevelSeconds(row)
		}
		return rows, nil
	})
}

// SleepLevels returns the individual sleep level intervals of every night.
func (f *Fetcher) SleepLevels(ctx context.Context, r DateRange) (*ingest.Table, error) {
	r = f.resolve(r, DefaultDailyMetricDays)
	key := CacheKey{Metric: MetricSleepLevels, Start: r.Start, End: r.End}
	return f.cached(ctx, ingest.FamilySleepLevels, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		return f.daily(ctx, MetricSleepLevels, r, f.source.Sleep, ingest.SleepLevelsNestedKeys), nil
	})
}

func (f *Fetcher) BodyComposition(ctx context.Context, r DateRange) (*ingest.Table, error) {
	r = f.resolve(r, DefaultBodyCompositionDays)
	key := CacheKey{Metric: MetricBodyComposition, Start: r.Start, End: r.End}
	return f.cached(ctx, ingest.FamilyBodyComposition, key, func(ctx context.Context) ([]*jsonvalue.Map, error) {
		data, err := f.source.BodyComposition(ctx, r.Start, r.End)
		if errors.Is(err, ErrNoData) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return ingest.NormalizeRecords(decodePayload(data), ingest.BodyCompositionNestedKeys...), nil
	})
}

// RacePredictions projects race times from the running activities of the
// range. The result is a heuristic, marked Synthesized.
func (f *Fetcher) RacePredictions(ctx context.Context, r DateRange) (*ingest.Table, error) {
	activities, err := f.Activities(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	return SynthesizeRacePredictions(activities, f.now()), nil
}

// HeatAltitudeMetrics approximates acclimatization from the temperature and
// elevation of the range's activities. The result is marked Synthesized.
func (f *Fetcher) HeatAltitudeMetrics(ctx context.Context, r DateRange) (*ingest.Table, error) {
	activities, err := f.Activities(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	return SynthesizeHeatAltitude(activities, f.now()), nil
}

// TrainingHistory derives training status rows from today's max metrics
// (VO2 max). The result is marked Synthesized.
func (f *Fetcher) TrainingHistory(ctx context.Context) (*ingest.Table, error) {
	today := truncateDay(f.now())
	data, err := f.source.MaxMetrics(ctx, today)
	if err != nil && !errors.Is(err, ErrNoData) {
		log.Warnf("max metrics for %s: %s", today.Format(dateLayout), err)
		f.metrics.CounterRemoteDayFailures.WithLabelValues(MetricMaxMetrics).Inc()
		data = nil
	}
	return SynthesizeTrainingHistory(decodePayload(data), today), nil
}

// FetchAll fetches every metric over the range. A metric that fails is left
// out of the result and its error joined into the returned one.
func (f *Fetcher) FetchAll(ctx context.Context, r DateRange) (map[ingest.Family]*ingest.Table, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fetcher.fetchAll")
	defer span.End()

	tables := map[ingest.Family]*ingest.Table{}
	var errs error
	add := func(family ingest.Family, t *ingest.Table, err error) {
		if err != nil {
			log.Errorf("fetch %s: %s", family, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", family, err))
			return
		}
		tables[family] = t
	}

	activities, err := f.Activities(ctx, r, 0)
	add(ingest.FamilyActivities, activities, err)
	if err == nil {
		tables[ingest.FamilyRacePredictions] = SynthesizeRacePredictions(activities, f.now())
		tables[ingest.FamilyHeatAltitude] = SynthesizeHeatAltitude(activities, f.now())
	}

	training, err := f.TrainingHistory(ctx)
	add(ingest.FamilyTrainingHistory, training, err)

	heartRates, err := f.HeartRates(ctx, r)
	add(ingest.FamilyHeartRate, heartRates, err)

	sleep, err := f.Sleep(ctx, r)
	add(ingest.FamilySleep, sleep, err)

	stress, err := f.Stress(ctx, r)
	add(ingest.FamilyStress, stress, err)

	bodyComposition, err := f.BodyComposition(ctx, r)
	add(ingest.FamilyBodyComposition, bodyComposition, err)

	if errs != nil {
		span.RecordError(errs)
	}
	return tables, errs
}

type dayAccessor func(ctx context.Context, day time.Time) ([]byte, error)

// daily calls get once per day of the range and normalizes every payload.
// A failing day is logged, counted and skipped.
func (f *Fetcher) daily(ctx context.Context, metric string, r DateRange, get dayAccessor, nestedKeys []string) []*jsonvalue.Map {
	days := r.Days()
	var rows []*jsonvalue.Map
	for i, day := range days {
		date := day.Format(dateLayout)
		log.Tracef("fetch %s for day %d/%d: %s", metric, i+1, len(days), date)

		data, err := get(ctx, day)
		if errors.Is(err, ErrNoData) {
			log.Debugf("no %s data for %s", metric, date)
			continue
		}
		if err != nil {
			log.Warnf("fetch %s for %s: %s", metric, date, err)
			f.metrics.CounterRemoteDayFailures.WithLabelValues(metric).Inc()
			continue
		}

		rows = append(rows, ingest.NormalizeDay(decodePayload(data), date, nestedKeys...)...)
	}

	log.Debugf("fetched %s for %d days, %d rows", metric, len(days), len(rows))
	return rows
}

// cached reads key through the cache, calling fetch on a miss.
func (f *Fetcher) cached(
	ctx context.Context,
	family ingest.Family,
	key CacheKey,
	fetch func(ctx context.Context) ([]*jsonvalue.Map, error),
) (_ *ingest.Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fetcher."+key.Metric)
	span.SetAttributes(
		attribute.String("start", key.Start.Format(dateLayout)),
		attribute.String("end", key.End.Format(dateLayout)),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if f.cache != nil {
		if rows, ok := f.cache.Get(key); ok {
			return toTable(family, rows), nil
		}
	}

	rows, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key.Metric, err)
	}

	t := toTable(family, rows)
	if f.cache != nil {
		if err := f.cache.Set(key, t); err != nil {
			log.Errorf("cache %s: %s", key.Metric, err)
		}
	}
	return t, nil
}

func toTable(family ingest.Family, rows []*jsonvalue.Map) *ingest.Table {
	t := ingest.NewTable(family, rows...)
	ingest.CoerceTimeColumns(t, true)
	return t
}

// decodePayload decodes a response body. Bodies that are not JSON are kept
// as a string payload, which the normalizer previews.
func decodePayload(data []byte) jsonvalue.Value {
	if len(data) == 0 {
		return jsonvalue.Value{}
	}
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return jsonvalue.FromString(string(data))
	}
	return v
}

func addSleepLevelSeconds(row *jsonvalue.Map) {
	levelsValue, ok := row.Get("sleepLevels")
	if !ok {
		return
	}
	levels, ok := levelsValue.List()
	if !ok {
		return
	}

	totals := jsonvalue.NewMap()
	for _, level := range levels {
		m, ok := level.Map()
		if !ok {
			continue
		}
		name := "unknown"
		if v, ok := m.Get("nameType"); ok {
			if s, ok := v.Str(); ok && s != "" {
				name = s
			}
		}
		seconds, _ := m.Get("seconds")
		s, ok := seconds.Float()
		if !ok {
			continue
		}
		column := "sleep_" + name + "_seconds"
		prev, _ := totals.Get(column)
		p, _ := prev.Float()
		totals.Set(column, jsonvalue.FromFloat(p+s))
	}
	totals.Each(func(column string, v jsonvalue.Value) {
		row.Set(column, v)
	})
}
