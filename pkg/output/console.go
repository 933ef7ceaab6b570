package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
	"github.com/wardenbench/wardenbench/pkg/strutil"
	"github.com/wardenbench/wardenbench/pkg/ui"
)

// maxNameWidth caps the WARDEN column. Handles are user-chosen and
// occasionally absurd; one long handle must not widen every row.
const maxNameWidth = 28

// Compile-time interface check.
var _ Writer = (*ConsoleWriter)(nil)

// ConsoleWriter renders a colored terminal report: leaderboard, top
// percentile callout and the baseline comparison when one was run.
type ConsoleWriter struct {
	w     io.WriteCloser
	limit int
}

// NewConsoleWriter creates a console writer. limit caps leaderboard
// rows, zero shows everything.
func NewConsoleWriter(w io.WriteCloser, limit int) *ConsoleWriter {
	return &ConsoleWriter{w: w, limit: limit}
}

// Write renders the outcome.
func (cw *ConsoleWriter) Write(o *pipeline.Outcome) error {
	cw.header(o)
	cw.leaderboard(o)
	cw.topWardens(o)
	if o.Comparison != nil {
		cw.comparison(o.Comparison)
	}
	if o.Skipped > 0 {
		fmt.Fprintf(cw.w, "\n%s %d malformed records skipped\n",
			ui.WarningStyle.Render("[!]"), o.Skipped)
	}
	return nil
}

// Close releases the sink.
func (cw *ConsoleWriter) Close() error {
	return cw.w.Close()
}

func (cw *ConsoleWriter) header(o *pipeline.Outcome) {
	title := fmt.Sprintf("Warden leaderboard: %d wardens, %d issues, %d contests",
		o.Wardens, o.TotalIssues, o.Contests)
	fmt.Fprintf(cw.w, "\n%s\n", ui.TitleStyle.Render(title))
	meta := fmt.Sprintf("run %s, finished in %s", o.RunID, o.Duration.Round(time.Millisecond))
	fmt.Fprintf(cw.w, "%s\n\n", ui.SubtitleStyle.Render(meta))
}

func (cw *ConsoleWriter) leaderboard(o *pipeline.Outcome) {
	rows := o.Leaderboard
	if cw.limit > 0 && len(rows) > cw.limit {
		rows = rows[:cw.limit]
	}
	if len(rows) == 0 {
		fmt.Fprintf(cw.w, "%s\n", ui.SubtitleStyle.Render("no scored wardens"))
		return
	}

	nameW := len("WARDEN")
	for _, row := range rows {
		if n := utf8.RuneCountInString(row.Submitter); n > nameW {
			nameW = n
		}
	}
	if nameW > maxNameWidth {
		nameW = maxNameWidth
	}

	headFmt := fmt.Sprintf("%%5s  %%-%ds  %%8s  %%5s  %%5s  %%7s  %%9s  %%12s\n", nameW)
	fmt.Fprintf(cw.w, headFmt, "RANK", "WARDEN", "SCORE", "HIGH", "MED", "ISSUES", "CONTESTS", "AVG/CONTEST")

	rowFmt := fmt.Sprintf("%%s  %%-%ds  %%8s  %%5d  %%5d  %%7d  %%9d  %%12s\n", nameW)
	for _, row := range rows {
		rank := ui.RankStyle(row.Rank).Render(fmt.Sprintf("%5d", row.Rank))
		fmt.Fprintf(cw.w, rowFmt,
			rank, strutil.Truncate(row.Submitter, nameW), formatScore(row.Score),
			row.High, row.Medium, row.Issues, row.Participations,
			formatScore(row.AvgPerContest))
	}
	if cw.limit > 0 && len(o.Leaderboard) > cw.limit {
		fmt.Fprintf(cw.w, "%s\n",
			ui.SubtitleStyle.Render(fmt.Sprintf("... %d more", len(o.Leaderboard)-cw.limit)))
	}
}

func (cw *ConsoleWriter) topWardens(o *pipeline.Outcome) {
	label := fmt.Sprintf("Top %s (%d)", formatPct(1-o.Percentile), len(o.TopWardens))
	names := strings.Join(o.TopWardens, ", ")
	if names == "" {
		names = "none"
	}
	fmt.Fprintf(cw.w, "\n%s: %s\n",
		ui.StatLabelStyle.Render(label), ui.StatValueStyle.Render(names))
}

func (cw *ConsoleWriter) comparison(res *compare.Result) {
	heading := fmt.Sprintf("Baseline comparison: %s vs %d top wardens",
		res.BaselineID, len(res.TopWardens))
	fmt.Fprintf(cw.w, "\n%s\n\n", ui.SectionStyle.Render(heading))

	for _, cat := range compare.Categories() {
		count := res.Aggregate.Get(cat)
		ratio := ratioFor(res.AggregateRatios, cat)
		fmt.Fprintf(cw.w, "  %-18s %5d  (%s)\n",
			ui.CategoryStyle(string(cat)).Render(string(cat)), count, formatPct(ratio))
	}
	fmt.Fprintf(cw.w, "\n  %s %s   %s %s\n",
		ui.StatLabelStyle.Render("baseline coverage"),
		ui.StatValueStyle.Render(formatPct(res.AggregateRatios.BaselineCoverage)),
		ui.StatLabelStyle.Render("top warden coverage"),
		ui.StatValueStyle.Render(formatPct(res.AggregateRatios.TopCoverage)))

	if len(res.ContestOrder) < 2 {
		return
	}
	fmt.Fprintf(cw.w, "\n%s\n", ui.SectionStyle.Render("Per contest"))
	contestW := len("CONTEST")
	for _, id := range res.ContestOrder {
		if len(id) > contestW {
			contestW = len(id)
		}
	}
	headFmt := fmt.Sprintf("  %%-%ds  %%8s  %%8s  %%6s  %%8s  %%6s\n", contestW)
	fmt.Fprintf(cw.w, headFmt, "CONTEST", "BASELINE", "TOP", "BOTH", "NEITHER", "TOTAL")
	rowFmt := fmt.Sprintf("  %%-%ds  %%8d  %%8d  %%6d  %%8d  %%6d\n", contestW)
	for _, id := range res.ContestOrder {
		counts := res.PerContest[id]
		if counts == nil {
			continue
		}
		fmt.Fprintf(cw.w, rowFmt, id,
			counts.BaselineOnly, counts.TopOnly, counts.Both, counts.Neither, counts.Total)
	}
}

func ratioFor(r compare.Ratios, cat compare.Category) float64 {
	switch cat {
	case compare.BaselineOnly:
		return r.BaselineOnly
	case compare.TopOnly:
		return r.TopOnly
	case compare.Both:
		return r.Both
	case compare.Neither:
		return r.Neither
	default:
		return 0
	}
}
