// Package normalize converts raw contest issue records into canonical
// findings. It is the single adapter boundary between loosely shaped
// report data and the strictly typed pipeline: severity labels are
// classified, submitter handles are corrected and deduplicated, and a
// duplicate-group key is chosen, all exactly once per record.
package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/wardenbench/wardenbench/pkg/contest"
	"github.com/wardenbench/wardenbench/pkg/finding"
	"github.com/wardenbench/wardenbench/pkg/overrides"
)

// ErrMissingSeverity is returned for records without a severity label.
var ErrMissingSeverity = errors.New("normalize: record has no severity label")

// ErrNoSubmitters is returned for records without any usable submitter.
var ErrNoSubmitters = errors.New("normalize: record has no submitters")

// titleFolder case-folds titles for group-key derivation.
var titleFolder = cases.Fold()

// Normalizer converts raw issue records from one contest into
// findings. The zero value is usable; fields customize behavior.
type Normalizer struct {
	// Overrides supplies per-contest handle corrections. Nil disables
	// correction.
	Overrides *overrides.Overrides

	// Roster restricts credited submitters to the contest's warden
	// roster plus known bots. Empty disables filtering. Handles
	// dropped by the filter are logged at debug level.
	Roster map[string]struct{}

	// Log receives diagnostics for dropped handles. Nil uses the
	// default logger.
	Log *slog.Logger
}

// New builds a Normalizer for one contest. The roster should be the
// parsed warden list; entries are canonicalized with the same
// overrides applied to submitters, and known bots for the contest are
// added so bot-credited records survive the filter.
func New(ov *overrides.Overrides, contestID string, roster []string, log *slog.Logger) *Normalizer {
	n := &Normalizer{Overrides: ov, Log: log}
	if len(roster) == 0 {
		return n
	}
	n.Roster = make(map[string]struct{}, len(roster))
	for _, w := range roster {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		n.Roster[ov.CanonicalHandle(contestID, w)] = struct{}{}
	}
	for _, b := range ov.Bots(contestID) {
		n.Roster[b] = struct{}{}
	}
	return n
}

// Normalize converts one raw record into a Finding.
//
// It fails with ErrMissingSeverity or ErrNoSubmitters when the record
// lacks required fields; callers skip the record and continue, so one
// malformed record never aborts the batch. An unrecognized severity
// label is not an error: it classifies as Ignored and the finding is
// excluded downstream.
func (n *Normalizer) Normalize(raw contest.RawIssue) (finding.Finding, error) {
	if strings.TrimSpace(raw.SeverityLabel) == "" {
		return finding.Finding{}, fmt.Errorf("%w: %s %s", ErrMissingSeverity, raw.ContestID, excerpt(raw))
	}

	subs := n.submitters(raw)
	if len(subs) == 0 {
		return finding.Finding{}, fmt.Errorf("%w: %s %s", ErrNoSubmitters, raw.ContestID, excerpt(raw))
	}

	return finding.Finding{
		ContestID:  raw.ContestID,
		GroupKey:   groupKey(raw),
		Title:      strings.TrimSpace(raw.Title),
		Severity:   finding.Classify(raw.SeverityLabel),
		Submitters: subs,
	}, nil
}

// submitters cleans, corrects and filters the record's raw handles.
func (n *Normalizer) submitters(raw contest.RawIssue) []string {
	logger := n.Log
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{}, len(raw.Submitters))
	out := make([]string, 0, len(raw.Submitters))
	for _, h := range raw.Submitters {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		h = n.Overrides.CanonicalHandle(raw.ContestID, h)
		if len(n.Roster) > 0 {
			if _, ok := n.Roster[h]; !ok {
				logger.Debug("submitter not in roster, dropping",
					"contest", raw.ContestID, "handle", h, "group", raw.GroupID)
				continue
			}
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// groupKey picks the duplicate-group key for a record: the source's
// explicit group ID when present, otherwise the case-folded,
// whitespace-collapsed title, so near-duplicate titles from the same
// source still land in one group.
func groupKey(raw contest.RawIssue) string {
	if id := strings.TrimSpace(raw.GroupID); id != "" {
		return id
	}
	return TitleKey(raw.Title)
}

// TitleKey derives a grouping key from an issue title: Unicode
// case-folded with runs of whitespace collapsed to single spaces.
func TitleKey(title string) string {
	folded := titleFolder.String(strings.TrimSpace(title))
	return strings.Join(strings.Fields(folded), " ")
}

// excerpt renders a short record identifier for log context.
func excerpt(raw contest.RawIssue) string {
	id := raw.GroupID
	if id == "" {
		id = raw.Title
	}
	if len(id) > 60 {
		id = id[:60] + "..."
	}
	return fmt.Sprintf("[%s]", id)
}
