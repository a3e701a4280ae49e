package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/pipeline"
)

var predictionLabels = []string{"5K", "10K", "Half Marathon", "Marathon"}

func printRunSummary(out io.Writer, run *pipeline.Run, tables map[ingest.Family]*ingest.Table) {
	families := make([]ingest.Family, 0, len(tables))
	for family := range tables {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tRECORDS\tFROM\tTO\tSNAPSHOT")
	for _, family := range families {
		from, to := dateSpan(tables[family])
		snapshot, ok := run.Snapshots[family]
		if !ok {
			snapshot = "(not saved)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", family, tables[family].Len(), from, to, snapshot)
	}
	_ = w.Flush()

	if len(tables) > 0 {
		fmt.Fprintf(out, "%d of %d families saved in %s\n", len(run.Snapshots), len(tables), run.Duration.Round(time.Millisecond))
	}
}

// dateSpan returns the first and the last day found in the timestamp column.
func dateSpan(t *ingest.Table) (string, string) {
	var first, last time.Time
	for _, v := range t.Column(ingest.ColumnTimestamp) {
		at, ok := v.Time()
		if !ok {
			continue
		}
		if first.IsZero() || at.Before(first) {
			first = at
		}
		if last.IsZero() || at.After(last) {
			last = at
		}
	}
	if first.IsZero() {
		return "-", "-"
	}
	return first.Format(time.DateOnly), last.Format(time.DateOnly)
}

func printPredictions(out io.Writer, latest map[string]string) {
	for _, label := range predictionLabels {
		if v, ok := latest[label]; ok {
			fmt.Fprintf(out, "%s: %s\n", label, v)
		}
	}
}

func printImprovement(out io.Writer, improvement *analysis.Improvement) {
	if improvement.InsufficientData {
		fmt.Fprintf(out, "%s: %s\n", improvement.Distance, improvement.Message)
		return
	}
	change := "worsened"
	if improvement.Improved {
		change = "improved"
	}
	fmt.Fprintf(out, "%s: %s (%.2f%%) %s\n",
		improvement.Distance, improvement.TimeDifference, improvement.PercentImprovement, change)
	fmt.Fprintf(out, "  From %s to %s\n", improvement.StartTime, improvement.EndTime)
}

func printCounts(out io.Writer, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[k])
	}
	_ = w.Flush()
}
