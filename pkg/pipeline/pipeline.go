// Package pipeline wires the full comparison run: normalize raw
// contest records, group duplicates, accumulate warden scores, select
// the top percentile and compare the result against the baseline.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/contest"
	"github.com/wardenbench/wardenbench/pkg/dedup"
	"github.com/wardenbench/wardenbench/pkg/finding"
	"github.com/wardenbench/wardenbench/pkg/normalize"
	"github.com/wardenbench/wardenbench/pkg/overrides"
	"github.com/wardenbench/wardenbench/pkg/scoring"
)

// Options configures a run.
type Options struct {
	// BaselineID is the submitter handle of the automated baseline.
	// Empty skips the comparison and produces a leaderboard-only
	// outcome.
	BaselineID string

	// Percentile selects the top warden set, scoring.DefaultPercentile
	// when zero. Validated before any report is touched.
	Percentile float64

	// Weights are the per-tier credits, scoring.DefaultWeights when
	// unset.
	Weights scoring.Weights

	// Overrides supplies handle corrections and known bots,
	// overrides.Default when nil.
	Overrides *overrides.Overrides

	// ExcludeZero prunes wardens without tracked findings before
	// ranking, so roster-only participants do not widen the
	// percentile population.
	ExcludeZero bool

	// Log receives skip diagnostics. Nil uses the default logger.
	Log *slog.Logger
}

// Outcome bundles everything one run produces.
type Outcome struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Duration    time.Duration         `json:"duration,format:nano"`
	BaselineID  string                `json:"baseline_id,omitempty"`
	Percentile  float64               `json:"percentile"`
	Weights     scoring.Weights       `json:"weights"`
	Contests    int                   `json:"contests"`
	TotalIssues int                   `json:"total_issues"`
	Skipped     int                   `json:"skipped_records"`
	Wardens     int                   `json:"wardens"`
	Leaderboard []scoring.WardenScore `json:"leaderboard"`
	TopWardens  []string              `json:"top_wardens"`
	Comparison  *compare.Result       `json:"comparison,omitempty"`

	// Issues carries the deduplicated issues for writers that render
	// per-issue detail. Omitted from the JSON envelope.
	Issues []finding.Issue `json:"-"`
}

// Run executes the pipeline over the given reports. Reports are
// processed in input order; together with submitter order inside each
// record that order fixes every first-seen tie-break, so a fixed
// input always yields the identical outcome apart from RunID and
// timing.
//
// Malformed records are skipped, logged and counted, never fatal. An
// invalid percentile fails before the first report is read.
func Run(reports []contest.Report, opts Options) (*Outcome, error) {
	if opts.Percentile == 0 {
		opts.Percentile = scoring.DefaultPercentile
	}
	if err := scoring.ValidatePercentile(opts.Percentile); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	ov := opts.Overrides
	if ov == nil {
		ov = overrides.Default()
	}
	weights := opts.Weights
	if weights == (scoring.Weights{}) {
		weights = scoring.DefaultWeights()
	}

	start := time.Now()
	board := scoring.NewBoard(weights)
	var all []finding.Issue
	var skipped int

	for _, rep := range reports {
		if len(rep.Wardens) == 0 {
			log.Debug("no roster parsed, accepting all submitters",
				slog.String("contest", rep.ID))
		}
		board.RecordParticipation(participants(ov, rep))

		norm := normalize.New(ov, rep.ID, rep.Wardens, log)
		findings := make([]finding.Finding, 0, len(rep.Issues))
		for _, raw := range rep.Issues {
			f, err := norm.Normalize(raw)
			if err != nil {
				skipped++
				log.Warn("skipping malformed record",
					slog.String("contest", rep.ID),
					slog.String("error", err.Error()))
				continue
			}
			findings = append(findings, f)
		}

		issues := dedup.Group(findings)
		for _, iss := range issues {
			board.Add(iss)
		}
		all = append(all, issues...)
	}

	if opts.ExcludeZero {
		board.Prune()
	}
	top, err := board.TopPercentile(opts.Percentile)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		RunID:       uuid.New().String(),
		GeneratedAt: start.UTC(),
		BaselineID:  opts.BaselineID,
		Percentile:  opts.Percentile,
		Weights:     weights,
		Contests:    len(reports),
		TotalIssues: len(all),
		Skipped:     skipped,
		Wardens:     board.Size(),
		Leaderboard: board.Leaderboard(),
		TopWardens:  top,
		Issues:      all,
	}
	if opts.BaselineID != "" {
		cmp, err := compare.Compare(all, top, opts.BaselineID)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		out.Comparison = cmp
	}
	out.Duration = time.Since(start)
	return out, nil
}

// participants returns the canonical participation handles for one
// contest: the deduplicated roster plus the contest's known bots.
func participants(ov *overrides.Overrides, rep contest.Report) []string {
	seen := make(map[string]struct{}, len(rep.Wardens))
	out := make([]string, 0, len(rep.Wardens))
	add := func(h string) {
		if h == "" {
			return
		}
		if _, dup := seen[h]; dup {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	for _, w := range rep.Wardens {
		add(ov.CanonicalHandle(rep.ID, strings.TrimSpace(w)))
	}
	for _, b := range ov.Bots(rep.ID) {
		add(b)
	}
	return out
}
