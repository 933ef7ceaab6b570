// Package compare classifies deduplicated issues by who found them,
// an automated baseline or the top wardens, and tallies the results
// per contest and in aggregate.
package compare

import (
	"errors"
	"fmt"

	"github.com/wardenbench/wardenbench/pkg/finding"
)

// ErrEmptySubmitters is returned when an issue reaches the comparison
// with no submitters. Grouping guarantees at least one, so an empty
// set means corrupted upstream state and aborts the run.
var ErrEmptySubmitters = errors.New("compare: issue has empty submitter set")

// Category names the four disjoint outcomes of a comparison.
type Category string

const (
	BaselineOnly Category = "baseline_only"
	TopOnly      Category = "top_wardens_only"
	Both         Category = "both"
	Neither      Category = "neither"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{BaselineOnly, TopOnly, Both, Neither}
}

// Counts tallies issues per category. Total always equals the sum of
// the four buckets.
type Counts struct {
	BaselineOnly int `json:"baseline_only"`
	TopOnly      int `json:"top_wardens_only"`
	Both         int `json:"both"`
	Neither      int `json:"neither"`
	Total        int `json:"total"`
}

func (c *Counts) add(cat Category) {
	switch cat {
	case BaselineOnly:
		c.BaselineOnly++
	case TopOnly:
		c.TopOnly++
	case Both:
		c.Both++
	case Neither:
		c.Neither++
	}
	c.Total++
}

// Get returns the tally for one category.
func (c Counts) Get(cat Category) int {
	switch cat {
	case BaselineOnly:
		return c.BaselineOnly
	case TopOnly:
		return c.TopOnly
	case Both:
		return c.Both
	case Neither:
		return c.Neither
	default:
		return 0
	}
}

// Ratios expresses counts as fractions of the total. Coverage is the
// fraction of issues each side found at all, shared ones included.
type Ratios struct {
	BaselineOnly     float64 `json:"baseline_only"`
	TopOnly          float64 `json:"top_wardens_only"`
	Both             float64 `json:"both"`
	Neither          float64 `json:"neither"`
	BaselineCoverage float64 `json:"baseline_coverage"`
	TopCoverage      float64 `json:"top_coverage"`
}

// Ratios derives fractions from the counts. A zero total yields all
// zeros rather than NaN.
func (c Counts) Ratios() Ratios {
	if c.Total == 0 {
		return Ratios{}
	}
	total := float64(c.Total)
	return Ratios{
		BaselineOnly:     float64(c.BaselineOnly) / total,
		TopOnly:          float64(c.TopOnly) / total,
		Both:             float64(c.Both) / total,
		Neither:          float64(c.Neither) / total,
		BaselineCoverage: float64(c.BaselineOnly+c.Both) / total,
		TopCoverage:      float64(c.TopOnly+c.Both) / total,
	}
}

// Result is the full comparison output.
type Result struct {
	BaselineID      string             `json:"baseline_id"`
	TopWardens      []string           `json:"top_wardens"`
	PerContest      map[string]*Counts `json:"per_contest"`
	ContestOrder    []string           `json:"-"`
	Aggregate       Counts             `json:"aggregate"`
	AggregateRatios Ratios             `json:"aggregate_ratios"`
}

// Classify places one issue into exactly one category. The top set
// must not contain the baseline handle; Compare strips it before
// classifying.
func Classify(iss finding.Issue, baselineID string, top map[string]struct{}) (Category, error) {
	if len(iss.Submitters) == 0 {
		return "", fmt.Errorf("%w: contest %s group %s",
			ErrEmptySubmitters, iss.ContestID, iss.GroupKey)
	}
	byBaseline := iss.FoundBy(baselineID)
	byTop := iss.FoundByAny(top)
	switch {
	case byBaseline && byTop:
		return Both, nil
	case byBaseline:
		return BaselineOnly, nil
	case byTop:
		return TopOnly, nil
	default:
		return Neither, nil
	}
}

// Compare classifies every issue against the baseline handle and the
// top-warden set and returns per-contest and aggregate tallies. The
// baseline is removed from the top set first: comparing the baseline
// against a set containing itself would mark its every find "both".
func Compare(issues []finding.Issue, topWardens []string, baselineID string) (*Result, error) {
	top := make(map[string]struct{}, len(topWardens))
	kept := make([]string, 0, len(topWardens))
	for _, w := range topWardens {
		if w == baselineID {
			continue
		}
		if _, dup := top[w]; dup {
			continue
		}
		top[w] = struct{}{}
		kept = append(kept, w)
	}

	res := &Result{
		BaselineID: baselineID,
		TopWardens: kept,
		PerContest: make(map[string]*Counts),
	}
	for _, iss := range issues {
		cat, err := Classify(iss, baselineID, top)
		if err != nil {
			return nil, err
		}
		counts, ok := res.PerContest[iss.ContestID]
		if !ok {
			counts = &Counts{}
			res.PerContest[iss.ContestID] = counts
			res.ContestOrder = append(res.ContestOrder, iss.ContestID)
		}
		counts.add(cat)
		res.Aggregate.add(cat)
	}
	res.AggregateRatios = res.Aggregate.Ratios()
	return res, nil
}
