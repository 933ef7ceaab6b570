// Package dedup merges findings that represent the same underlying
// vulnerability within a contest into single canonical issues.
package dedup

import "github.com/wardenbench/wardenbench/pkg/finding"

// Group partitions findings by (contest, group key) and merges each
// partition into one Issue: submitter sets are unioned in first-seen
// order and a severity conflict within a group resolves to the highest
// tier observed, never dropping submitters. Findings classified as
// Ignored are excluded entirely.
//
// Output order is the first-seen order of group keys. It is stable for
// a given input sequence, but consumers aggregate issues into counts
// and must not attach meaning to positions.
func Group(findings []finding.Finding) []finding.Issue {
	groups := make(map[string]*finding.Issue, len(findings))
	order := make([]string, 0, len(findings))

	for _, f := range findings {
		if !f.Severity.Tracked() {
			continue
		}
		key := f.ContestID + "\x00" + f.GroupKey
		iss, ok := groups[key]
		if !ok {
			groups[key] = &finding.Issue{
				ContestID:  f.ContestID,
				GroupKey:   f.GroupKey,
				Title:      f.Title,
				Severity:   f.Severity,
				Submitters: finding.MergeSubmitters(nil, f.Submitters),
			}
			order = append(order, key)
			continue
		}
		iss.Submitters = finding.MergeSubmitters(iss.Submitters, f.Submitters)
		if f.Severity.Rank() > iss.Severity.Rank() {
			iss.Severity = f.Severity
		}
		if iss.Title == "" {
			iss.Title = f.Title
		}
	}

	out := make([]finding.Issue, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}
