package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const activitiesWrapperKey = "summarizedActivitiesExport"

// Parser turns the export file of one metric family into a normalized table.
type Parser struct {
	dataDir  string
	metrics  *metrics.Manager
	readFile func(path string) ([]byte, error)
}

func NewParser(dataDir string, metricsManager *metrics.Manager) *Parser {
	return &Parser{
		dataDir:  dataDir,
		metrics:  metricsManager,
		readFile: readFile,
	}
}

// Parse parses the family's export file at path, or the most preferred file
// under the data dir when path is empty.
func (p *Parser) Parse(ctx context.Context, family Family, path string) (*Table, error) {
	patterns, err := PatternsFor(family)
	if err != nil {
		return nil, err
	}

	if path == "" {
		located := Locate(p.dataDir, patterns)
		if len(located) == 0 {
			return nil, &NotFoundError{Family: family, Root: p.dataDir}
		}
		path = located[0]
		if len(located) > 1 {
			log.Debugf("parse %s: using %s out of %d candidates", family, path, len(located))
		}
	}

	return p.ParseFile(ctx, family, path)
}

func (p *Parser) RacePredictions(ctx context.Context, path string) (*Table, error) {
	return p.Parse(ctx, FamilyRacePredictions, path)
}

func (p *Parser) TrainingHistory(ctx context.Context, path string) (*Table, error) {
	return p.Parse(ctx, FamilyTrainingHistory, path)
}

func (p *Parser) HeatAltitudeMetrics(ctx context.Context, path string) (*Table, error) {
	return p.Parse(ctx, FamilyHeatAltitude, path)
}

func (p *Parser) Activities(ctx context.Context, path string) (*Table, error) {
	return p.Parse(ctx, FamilyActivities, path)
}

// ParseAllAvailable parses the most preferred file of every export family.
// Families without any file are left out of the result, and so are families
// whose file could not be read. Only a done context stops it early.
func (p *Parser) ParseAllAvailable(ctx context.Context) (map[Family]*Table, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "parser.parseAllAvailable")
	defer span.End()

	tables := map[Family]*Table{}
	for _, family := range ExportFamilies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := p.Parse(ctx, family, "")
		if errors.Is(err, ErrNotFound) {
			log.Debugf("parse all: %s", err)
			continue
		}
		if err != nil {
			log.Errorf("parse all: skipping %s: %s", family, err)
			continue
		}
		tables[family] = t
	}
	return tables, nil
}

// ParseFile parses one export file. A file that exists but cannot be
// interpreted yields an empty table, not an error.
func (p *Parser) ParseFile(ctx context.Context, family Family, path string) (*Table, error) {
	t, err := p.parseFile(ctx, family, path)
	var malformedErr *MalformedError
	if errors.As(err, &malformedErr) {
		return NewTable(family), nil
	}
	return t, err
}

func (p *Parser) parseFile(ctx context.Context, family Family, path string) (_ *Table, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "parser.parseFile")
	span.SetAttributes(
		attribute.String("family", string(family)),
		attribute.String("path", path),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := p.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Family: family, Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t, err := decodeTable(family, path, data)
	if err != nil {
		log.Errorf("parse %s: %s", family, err)
		p.metrics.CounterFilesFailed.WithLabelValues(string(family)).Inc()
		return nil, err
	}

	p.metrics.CounterFilesParsed.WithLabelValues(string(family)).Inc()
	log.Debugf("parse %s: %d rows from %s", family, t.Len(), path)
	return t, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close %s: %s", path, err)
		}
	}()
	return io.ReadAll(f)
}

func decodeTable(family Family, path string, data []byte) (*Table, error) {
	doc, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, &MalformedError{Family: family, Path: path, Reason: err.Error()}
	}

	records, err := recordsOf(family, doc)
	if err != nil {
		return nil, &MalformedError{Family: family, Path: path, Reason: err.Error()}
	}

	t := NewTable(family, tabulateRecords(records)...)
	switch family {
	case FamilyRacePredictions:
		FormatRaceTimes(t)
	case FamilyTrainingHistory:
		deriveTrainingHistory(t, path)
	case FamilyHeatAltitude:
		deriveHeatAltitude(t, path)
	}
	CoerceTimeColumns(t, family == FamilyActivities)
	return t, nil
}

// recordsOf extracts the list of records from a decoded export document.
func recordsOf(family Family, doc jsonvalue.Value) ([]jsonvalue.Value, error) {
	switch doc.Kind() {
	case jsonvalue.List:
		items, _ := doc.List()
		if family == FamilyActivities && len(items) == 1 {
			if inner, ok := unwrapActivities(items[0]); ok {
				return inner, nil
			}
		}
		return items, nil
	case jsonvalue.Object:
		if family == FamilyActivities {
			if inner, ok := unwrapActivities(doc); ok {
				return inner, nil
			}
		}
		return []jsonvalue.Value{doc}, nil
	default:
		return nil, fmt.Errorf("expected a list of records, got %s", doc.Kind())
	}
}

func unwrapActivities(v jsonvalue.Value) ([]jsonvalue.Value, bool) {
	m, ok := v.Map()
	if !ok {
		return nil, false
	}
	wrapped, ok := m.Get(activitiesWrapperKey)
	if !ok {
		return nil, false
	}
	return wrapped.List()
}
