// Package contest models audit-contest reports and parses them from
// the markdown format findings repositories publish.
package contest

// RawIssue is one issue record lifted from a report before
// normalization: the severity letter and duplicate-group number from
// the heading, the heading title, and the raw submitter handles from
// the credit line, in credit-line order.
type RawIssue struct {
	ContestID     string
	SeverityLabel string // "H" or "M", as printed in the heading
	GroupID       string // duplicate-group identifier, e.g. "H-7"
	Title         string
	Submitters    []string
}

// Report is one parsed contest report.
type Report struct {
	ID      string
	Wardens []string // roster handles, report order
	Issues  []RawIssue
}
