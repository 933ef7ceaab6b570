// Package scoring accumulates per-warden scores across contests and
// selects the top percentile of the resulting ranking.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wardenbench/wardenbench/pkg/finding"
)

// DefaultPercentile selects the top 10% of wardens.
const DefaultPercentile = 0.90

// ErrInvalidPercentile is returned when a percentile is outside (0,1].
var ErrInvalidPercentile = errors.New("scoring: percentile must be in (0,1]")

// Weights holds the sole-finder credit per severity tier. Shared
// findings split the same constant evenly across finders, so the total
// credit paid for an issue never depends on how many found it.
type Weights struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// DefaultWeights returns the standard tier credits.
func DefaultWeights() Weights {
	return Weights{High: 10, Medium: 3}
}

// credit returns the per-finder weight for one issue.
func (w Weights) credit(sev finding.Severity, finders int) float64 {
	if finders < 1 {
		return 0
	}
	switch sev {
	case finding.High:
		return w.High / float64(finders)
	case finding.Medium:
		return w.Medium / float64(finders)
	default:
		return 0
	}
}

// WardenScore is one row of the ranked leaderboard.
type WardenScore struct {
	Rank           int     `json:"rank"`
	Submitter      string  `json:"submitter"`
	Score          float64 `json:"score"`
	Issues         int     `json:"issues"`
	High           int     `json:"high"`
	Medium         int     `json:"medium"`
	Participations int     `json:"participations"`
	AvgPerContest  float64 `json:"avg_issues_per_contest"`
}

// Board is the single running accumulator of the pipeline: one entry
// per submitter, updated once per issue, never reset between contests.
// First-seen insertion order is retained and is the authority for
// breaking score ties, which keeps rankings reproducible for a fixed
// contest processing order.
type Board struct {
	weights Weights
	entries map[string]*entry
	order   []string
}

type entry struct {
	score          float64
	issues         int
	high           int
	medium         int
	participations int
}

// NewBoard returns an empty board using the given weights.
func NewBoard(w Weights) *Board {
	return &Board{
		weights: w,
		entries: make(map[string]*entry),
	}
}

// entry returns the record for a submitter, registering first-seen
// order on first use.
func (b *Board) entry(submitter string) *entry {
	e, ok := b.entries[submitter]
	if !ok {
		e = &entry{}
		b.entries[submitter] = e
		b.order = append(b.order, submitter)
	}
	return e
}

// Add credits every submitter of the issue with the split weight for
// its severity. It must be called exactly once per issue. An issue
// with no submitters is a no-op; upstream grouping never produces one.
func (b *Board) Add(iss finding.Issue) {
	n := len(iss.Submitters)
	if n == 0 {
		return
	}
	w := b.weights.credit(iss.Severity, n)
	for _, s := range iss.Submitters {
		e := b.entry(s)
		e.score += w
		e.issues++
		switch iss.Severity {
		case finding.High:
			e.high++
		case finding.Medium:
			e.medium++
		}
	}
}

// RecordParticipation notes that the given handles took part in one
// contest, registering them with zero score when unseen. Call once
// per contest with the report's roster.
func (b *Board) RecordParticipation(handles []string) {
	for _, h := range handles {
		b.entry(h).participations++
	}
}

// Prune drops zero-score submitters from the board. Used by the
// exclude-zero mode so wardens without tracked findings do not dilute
// the percentile population.
func (b *Board) Prune() {
	kept := b.order[:0]
	for _, s := range b.order {
		if b.entries[s].score > 0 {
			kept = append(kept, s)
		} else {
			delete(b.entries, s)
		}
	}
	b.order = kept
}

// Size returns the number of registered submitters.
func (b *Board) Size() int {
	return len(b.order)
}

// Score returns the running total for a submitter.
func (b *Board) Score(submitter string) float64 {
	if e, ok := b.entries[submitter]; ok {
		return e.score
	}
	return 0
}

// Leaderboard returns every registered submitter ranked by score
// descending. Equal scores keep first-seen order.
func (b *Board) Leaderboard() []WardenScore {
	rows := make([]WardenScore, 0, len(b.order))
	for _, s := range b.order {
		e := b.entries[s]
		row := WardenScore{
			Submitter:      s,
			Score:          e.score,
			Issues:         e.issues,
			High:           e.high,
			Medium:         e.medium,
			Participations: e.participations,
		}
		if e.participations > 0 {
			row.AvgPerContest = float64(e.issues) / float64(e.participations)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// TopPercentile returns the submitters whose score places them in the
// top (1-p) fraction of the board: p=0.90 selects the top 10%. The
// selected count is ceil((1-p) * total); ties at the cut keep
// first-seen order. An empty board yields an empty set without error.
func (b *Board) TopPercentile(p float64) ([]string, error) {
	if err := ValidatePercentile(p); err != nil {
		return nil, err
	}
	total := len(b.order)
	if total == 0 {
		return nil, nil
	}
	count := int(math.Ceil((1 - p) * float64(total)))
	if count > total {
		count = total
	}
	rows := b.Leaderboard()
	out := make([]string, 0, count)
	for _, r := range rows[:count] {
		out = append(out, r.Submitter)
	}
	return out, nil
}

// ValidatePercentile rejects percentiles outside (0,1]. Run before any
// processing so a bad threshold never wastes a full pipeline pass.
func ValidatePercentile(p float64) error {
	if p <= 0 || p > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidPercentile, p)
	}
	return nil
}
