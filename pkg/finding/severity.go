package finding

import "strings"

// Severity represents the tracked severity tier of a contest finding.
// All values are lowercase strings.
type Severity string

const (
	// High represents high-risk findings (the "H" sections of a report).
	High Severity = "high"

	// Medium represents medium-risk findings (the "M" sections of a report).
	Medium Severity = "medium"

	// Ignored represents everything the pipeline does not track:
	// low severity, QA, gas optimizations, informational notes and
	// any label no report source is known to use.
	Ignored Severity = "ignored"
)

// Classify maps a raw severity label from a report source to a tracked
// tier. Matching is case-insensitive and tolerant of the surrounding
// whitespace and punctuation variants different sources use ("H",
// "high", "High Risk Findings" all map to High). It is total: anything
// unrecognized resolves to Ignored rather than failing, so an unknown
// label can never abort a batch.
func Classify(label string) Severity {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.Trim(s, ".:;!-_*[]() ")
	switch {
	case s == "h" || strings.HasPrefix(s, "high"):
		return High
	case s == "m" || strings.HasPrefix(s, "med"):
		return Medium
	default:
		return Ignored
	}
}

// Tracked reports whether s participates in downstream aggregation.
func (s Severity) Tracked() bool {
	return s == High || s == Medium
}

// Rank returns a numeric rank for conflict resolution and sorting.
// High=2, Medium=1, Ignored (or anything else)=0.
func (s Severity) Rank() int {
	switch s {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}

// Ordered returns the tracked severities from highest to lowest tier.
func Ordered() []Severity {
	return []Severity{High, Medium}
}
