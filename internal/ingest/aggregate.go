package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// Aggregation is the canonical table of one family across all its export files.
type Aggregation struct {
	Table *Table
	// Files are the files that were parsed, in aggregation order.
	Files []string
	// Skipped holds one error per file that was left out or degraded to empty.
	Skipped error
}

// Aggregator merges every export file of a family into one deduplicated table.
type Aggregator struct {
	parser *Parser
}

func NewAggregator(parser *Parser) *Aggregator {
	return &Aggregator{parser: parser}
}

// Aggregate parses every file of family under root. It fails with
// ErrNotFound only when no file of the family exists at all; files that
// fail on their own are skipped and reported in Aggregation.Skipped.
func (a *Aggregator) Aggregate(ctx context.Context, root string, family Family) (*Aggregation, error) {
	patterns, err := PatternsFor(family)
	if err != nil {
		return nil, err
	}

	files := LocateAll(root, patterns)
	if len(files) == 0 {
		return nil, &NotFoundError{Family: family, Root: root}
	}
	return a.AggregateFiles(ctx, family, files), nil
}

// AggregateFiles concatenates the tables parsed from files, in order, and deduplicates the result.
func (a *Aggregator) AggregateFiles(ctx context.Context, family Family, files []string) *Aggregation {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.aggregate")
	span.SetAttributes(
		attribute.String("family", string(family)),
		attribute.Int("files", len(files)),
	)
	defer span.End()

	agg := &Aggregation{Table: NewTable(family)}
	for _, path := range files {
		t, err := a.parser.parseFile(ctx, family, path)
		if err != nil {
			log.Warnf("aggregate %s: skipping %s: %s", family, path, err)
			agg.Skipped = multierr.Append(agg.Skipped, fmt.Errorf("%s: %w", path, err))
			continue
		}
		agg.Files = append(agg.Files, path)
		if t.Empty() {
			continue
		}
		agg.Table.AppendTable(t)
	}

	AlignTimeColumns(agg.Table, family == FamilyActivities)
	before := agg.Table.Len()
	agg.Table = Dedup(agg.Table)
	log.Debugf("aggregate %s: %d files, %d rows, %d duplicates dropped",
		family, len(agg.Files), agg.Table.Len(), before-agg.Table.Len())

	return agg
}

// AggregateAll aggregates every export family under root. Families without
// any file are omitted from the result, which tells them apart from
// families whose files yielded no rows.
func (a *Aggregator) AggregateAll(ctx context.Context, root string) (map[Family]*Aggregation, error) {
	result := map[Family]*Aggregation{}
	for _, family := range ExportFamilies {
		agg, err := a.Aggregate(ctx, root, family)
		if errors.Is(err, ErrNotFound) {
			log.Debugf("aggregate all: %s", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", family, err)
		}
		result[family] = agg
	}
	return result, nil
}

// Dedup drops repeated rows keeping the first occurrence. Activities are
// keyed by activityId; every other family by full row equality.
func Dedup(t *Table) *Table {
	out := NewTable(t.Family)
	out.Synthesized = t.Synthesized
	out.addColumns(t.Columns...)
	for _, c := range t.TimeColumns {
		out.markTimeColumn(c)
	}

	seen := map[string]bool{}
	for _, row := range t.Rows {
		key := dedupKey(t, row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Append(row)
	}
	return out
}

func dedupKey(t *Table, row *jsonvalue.Map) string {
	if t.Family == FamilyActivities {
		if id, ok := row.Get(ColumnActivityID); ok && !id.IsNull() {
			return "id:" + jsonvalue.Canonical(id)
		}
	}
	return "row:" + jsonvalue.CanonicalRow(row, t.Columns)
}
