// Package source loads contest reports for the pipeline, from local
// markdown files or from published findings repositories on GitHub.
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/wardenbench/wardenbench/pkg/contest"
)

// ErrNoReports is returned when a path yields no report files.
var ErrNoReports = errors.New("source: no report files found")

// A Source yields parsed contest reports in a stable order, so two
// runs over the same data produce the same ranking.
type Source interface {
	Reports(ctx context.Context) ([]contest.Report, error)
}

// ContestID derives the contest identifier from a report location.
// Findings repository URLs drop their trailing "-findings" style
// segment, markdown paths use the bare file name, anything else
// passes through unchanged.
func ContestID(input string) string {
	switch {
	case strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://"):
		seg := input[strings.LastIndex(input, "/")+1:]
		if i := strings.LastIndex(seg, "-"); i > 0 {
			return seg[:i]
		}
		return seg
	case strings.HasSuffix(input, ".md"):
		base := filepath.Base(input)
		return strings.TrimSuffix(base, filepath.Ext(base))
	default:
		return input
	}
}
