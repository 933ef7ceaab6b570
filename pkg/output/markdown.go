package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
)

// Compile-time interface check.
var _ Writer = (*MarkdownWriter)(nil)

// MarkdownConfig configures the markdown report.
type MarkdownConfig struct {
	// Title is the document heading. Default "Warden Benchmark Report".
	Title string

	// MaxRows caps the leaderboard table. Zero renders every row.
	MaxRows int
}

// MarkdownWriter writes the outcome as a GitHub-flavored markdown
// document with a leaderboard table and comparison breakdown.
type MarkdownWriter struct {
	w      io.WriteCloser
	config MarkdownConfig
}

// NewMarkdownWriter creates a markdown writer targeting w.
func NewMarkdownWriter(w io.WriteCloser, config MarkdownConfig) *MarkdownWriter {
	if config.Title == "" {
		config.Title = "Warden Benchmark Report"
	}
	return &MarkdownWriter{w: w, config: config}
}

// Write renders the outcome.
func (mw *MarkdownWriter) Write(o *pipeline.Outcome) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", mw.config.Title)
	fmt.Fprintf(&b, "Generated %s in %s.\n\n",
		o.GeneratedAt.Format(time.RFC3339), o.Duration.Round(time.Millisecond))

	fmt.Fprintf(&b, "| Contests | Issues | Wardens | Skipped records |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n\n", o.Contests, o.TotalIssues, o.Wardens, o.Skipped)

	mw.leaderboard(&b, o)
	mw.topWardens(&b, o)
	if o.Comparison != nil {
		mw.comparison(&b, o.Comparison)
	}
	mw.issueIndex(&b, o)

	if _, err := io.WriteString(mw.w, b.String()); err != nil {
		return fmt.Errorf("output: write markdown: %w", err)
	}
	return nil
}

func (mw *MarkdownWriter) leaderboard(b *strings.Builder, o *pipeline.Outcome) {
	fmt.Fprintf(b, "## Leaderboard\n\n")
	if len(o.Leaderboard) == 0 {
		fmt.Fprintf(b, "No scored wardens.\n\n")
		return
	}

	rows := o.Leaderboard
	if mw.config.MaxRows > 0 && len(rows) > mw.config.MaxRows {
		rows = rows[:mw.config.MaxRows]
	}

	fmt.Fprintf(b, "| Rank | Warden | Score | High | Medium | Issues | Contests | Avg/Contest |\n")
	fmt.Fprintf(b, "|---:|---|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %d | %s | %s | %d | %d | %d | %d | %s |\n",
			row.Rank, escapeMarkdown(row.Submitter), formatScore(row.Score),
			row.High, row.Medium, row.Issues, row.Participations,
			formatScore(row.AvgPerContest))
	}
	if len(rows) < len(o.Leaderboard) {
		fmt.Fprintf(b, "\n_%d further wardens omitted._\n", len(o.Leaderboard)-len(rows))
	}
	fmt.Fprintf(b, "\n")
}

func (mw *MarkdownWriter) topWardens(b *strings.Builder, o *pipeline.Outcome) {
	fmt.Fprintf(b, "## Top %s\n\n", formatPct(1-o.Percentile))
	if len(o.TopWardens) == 0 {
		fmt.Fprintf(b, "Empty selection.\n\n")
		return
	}
	for _, w := range o.TopWardens {
		fmt.Fprintf(b, "- %s\n", escapeMarkdown(w))
	}
	fmt.Fprintf(b, "\n")
}

func (mw *MarkdownWriter) comparison(b *strings.Builder, res *compare.Result) {
	fmt.Fprintf(b, "## Baseline comparison\n\n")
	fmt.Fprintf(b, "`%s` against %d top wardens.\n\n", res.BaselineID, len(res.TopWardens))

	fmt.Fprintf(b, "| Category | Count | Ratio |\n")
	fmt.Fprintf(b, "|---|---:|---:|\n")
	for _, cat := range compare.Categories() {
		fmt.Fprintf(b, "| %s | %d | %s |\n",
			cat, res.Aggregate.Get(cat), formatPct(ratioFor(res.AggregateRatios, cat)))
	}
	fmt.Fprintf(b, "\nBaseline coverage %s, top warden coverage %s.\n\n",
		formatPct(res.AggregateRatios.BaselineCoverage),
		formatPct(res.AggregateRatios.TopCoverage))

	if len(res.ContestOrder) < 2 {
		return
	}
	fmt.Fprintf(b, "### Per contest\n\n")
	fmt.Fprintf(b, "| Contest | Baseline only | Top only | Both | Neither | Total |\n")
	fmt.Fprintf(b, "|---|---:|---:|---:|---:|---:|\n")
	for _, id := range res.ContestOrder {
		counts := res.PerContest[id]
		if counts == nil {
			continue
		}
		fmt.Fprintf(b, "| %s | %d | %d | %d | %d | %d |\n",
			escapeMarkdown(id), counts.BaselineOnly, counts.TopOnly,
			counts.Both, counts.Neither, counts.Total)
	}
	fmt.Fprintf(b, "\n")
}

// issueIndex renders every deduplicated issue in a collapsible block,
// so the appendix never dominates the document on large corpora. The
// fingerprint column stays stable across runs over the same snapshot.
func (mw *MarkdownWriter) issueIndex(b *strings.Builder, o *pipeline.Outcome) {
	if len(o.Issues) == 0 {
		return
	}
	fmt.Fprintf(b, "## Issue index\n\n")
	fmt.Fprintf(b, "<details>\n<summary>%d deduplicated issues</summary>\n\n", len(o.Issues))
	fmt.Fprintf(b, "| ID | Contest | Group | Severity | Finders |\n")
	fmt.Fprintf(b, "|---|---|---|---|---:|\n")
	for _, iss := range o.Issues {
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %d |\n",
			iss.Fingerprint(), escapeMarkdown(iss.ContestID),
			escapeMarkdown(iss.GroupKey), iss.Severity, len(iss.Submitters))
	}
	fmt.Fprintf(b, "\n</details>\n\n")
}

// escapeMarkdown neutralizes table and emphasis syntax inside
// attacker-chosen handles.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return r.Replace(s)
}

// Close releases the sink.
func (mw *MarkdownWriter) Close() error {
	return mw.w.Close()
}
