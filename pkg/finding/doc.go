// Package finding provides the canonical finding and issue types
// shared by every pipeline stage.
//
// Raw report records are converted into Findings exactly once, at the
// normalization boundary; everything downstream (grouping, scoring,
// comparison, output) operates on the closed types defined here and
// never sees raw report data again.
package finding
