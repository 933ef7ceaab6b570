package finding

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Finding is the normalized form of one raw report issue record:
// one severity, one duplicate-group key and at least one submitter,
// all within a single contest. Findings are immutable once built.
type Finding struct {
	ContestID  string   `json:"contest_id"`
	GroupKey   string   `json:"group_key"`
	Title      string   `json:"title,omitempty"`
	Severity   Severity `json:"severity"`
	Submitters []string `json:"submitters"`
}

// Issue is the deduplicated, canonical representation of one
// vulnerability within a contest: all Findings sharing the same
// (contest, group key) merged into one record with the union of
// their submitters.
type Issue struct {
	ContestID  string   `json:"contest_id"`
	GroupKey   string   `json:"group_key"`
	Title      string   `json:"title,omitempty"`
	Severity   Severity `json:"severity"`
	Submitters []string `json:"submitters"`
}

// SoleFound reports whether exactly one submitter is credited.
func (i Issue) SoleFound() bool {
	return len(i.Submitters) == 1
}

// FoundBy reports whether the given submitter is credited on the issue.
func (i Issue) FoundBy(submitter string) bool {
	for _, s := range i.Submitters {
		if s == submitter {
			return true
		}
	}
	return false
}

// FoundByAny reports whether any credited submitter is in the given set.
func (i Issue) FoundByAny(set map[string]struct{}) bool {
	for _, s := range i.Submitters {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// Fingerprint returns a short stable identifier for the issue, derived
// from its contest and group key. Two runs over the same snapshot
// produce identical fingerprints, so report consumers can diff output
// across runs.
func (i Issue) Fingerprint() string {
	h := murmur3.Sum32([]byte(i.ContestID + "\x00" + i.GroupKey))
	return fmt.Sprintf("%08x", h)
}

// MergeSubmitters appends the given submitters to dst, dropping
// duplicates while preserving first-seen order. Used wherever
// submitter sets are unioned so ordering stays deterministic.
func MergeSubmitters(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
