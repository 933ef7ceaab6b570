package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
)

// Compile-time interface check.
var _ Writer = (*CSVWriter)(nil)

// UTF-8 BOM so Excel detects the encoding.
const utf8BOM = "\xEF\xBB\xBF"

// Leaderboard column order.
var csvColumns = []string{
	"rank",
	"warden",
	"score",
	"high",
	"medium",
	"issues",
	"contests",
	"avg_issues_per_contest",
}

// CSVWriter writes the leaderboard as CSV rows followed by a summary
// block and, when a comparison ran, per-category counts. Fields are
// sanitized against spreadsheet formula injection since warden handles
// are attacker-chosen strings.
type CSVWriter struct {
	w   io.WriteCloser
	csv *csv.Writer
}

// NewCSVWriter creates a CSV writer targeting w.
func NewCSVWriter(w io.WriteCloser) *CSVWriter {
	w.Write([]byte(utf8BOM))
	return &CSVWriter{w: w, csv: csv.NewWriter(w)}
}

// sanitizeForCSV prefixes characters that spreadsheets execute as
// formulas.
func sanitizeForCSV(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// Write renders the outcome.
func (cw *CSVWriter) Write(o *pipeline.Outcome) error {
	if err := cw.csv.Write(csvColumns); err != nil {
		return fmt.Errorf("output: csv header: %w", err)
	}
	for _, row := range o.Leaderboard {
		record := []string{
			strconv.Itoa(row.Rank),
			sanitizeForCSV(row.Submitter),
			formatScore(row.Score),
			strconv.Itoa(row.High),
			strconv.Itoa(row.Medium),
			strconv.Itoa(row.Issues),
			strconv.Itoa(row.Participations),
			formatScore(row.AvgPerContest),
		}
		if err := cw.csv.Write(record); err != nil {
			return fmt.Errorf("output: csv row: %w", err)
		}
	}

	cw.summary(o)
	if o.Comparison != nil {
		cw.comparison(o.Comparison)
	}

	cw.csv.Flush()
	if err := cw.csv.Error(); err != nil {
		return fmt.Errorf("output: csv flush: %w", err)
	}
	return nil
}

func (cw *CSVWriter) summary(o *pipeline.Outcome) {
	cw.csv.Write([]string{})
	cw.csv.Write([]string{"# SUMMARY"})
	cw.csv.Write([]string{"Contests", strconv.Itoa(o.Contests)})
	cw.csv.Write([]string{"Issues", strconv.Itoa(o.TotalIssues)})
	cw.csv.Write([]string{"Wardens", strconv.Itoa(o.Wardens)})
	cw.csv.Write([]string{"Skipped Records", strconv.Itoa(o.Skipped)})
	cw.csv.Write([]string{"Percentile", formatScore(o.Percentile)})
	cw.csv.Write([]string{"Top Wardens", strconv.Itoa(len(o.TopWardens))})
}

func (cw *CSVWriter) comparison(res *compare.Result) {
	cw.csv.Write([]string{})
	cw.csv.Write([]string{"# COMPARISON", sanitizeForCSV(res.BaselineID)})
	cw.csv.Write([]string{"category", "count", "ratio"})
	for _, cat := range compare.Categories() {
		cw.csv.Write([]string{
			string(cat),
			strconv.Itoa(res.Aggregate.Get(cat)),
			formatPct(ratioFor(res.AggregateRatios, cat)),
		})
	}
	cw.csv.Write([]string{"baseline_coverage", "", formatPct(res.AggregateRatios.BaselineCoverage)})
	cw.csv.Write([]string{"top_warden_coverage", "", formatPct(res.AggregateRatios.TopCoverage)})
}

// Close flushes buffered rows and releases the sink.
func (cw *CSVWriter) Close() error {
	cw.csv.Flush()
	if err := cw.csv.Error(); err != nil {
		return fmt.Errorf("output: csv flush: %w", err)
	}
	return cw.w.Close()
}
