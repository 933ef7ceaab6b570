package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenbench/wardenbench/pkg/contest"
	"github.com/wardenbench/wardenbench/pkg/finding"
	"github.com/wardenbench/wardenbench/pkg/overrides"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := &Normalizer{}
	raw := contest.RawIssue{
		ContestID:     "2024-01-demo",
		SeverityLabel: "H",
		GroupID:       "H-3",
		Title:         "  Re-entrancy in withdraw  ",
		Submitters:    []string{"alice", " bob ", "alice"},
	}

	f, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-demo", f.ContestID)
	assert.Equal(t, "H-3", f.GroupKey)
	assert.Equal(t, "Re-entrancy in withdraw", f.Title)
	assert.Equal(t, finding.High, f.Severity)
	assert.Equal(t, []string{"alice", "bob"}, f.Submitters, "handles trimmed and deduplicated")
}

func TestNormalizeMissingSeverity(t *testing.T) {
	t.Parallel()

	n := &Normalizer{}
	_, err := n.Normalize(contest.RawIssue{
		ContestID:  "c1",
		Title:      "something",
		Submitters: []string{"alice"},
	})
	assert.ErrorIs(t, err, ErrMissingSeverity)
}

func TestNormalizeNoSubmitters(t *testing.T) {
	t.Parallel()

	n := &Normalizer{}
	_, err := n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "M",
		GroupID:       "M-1",
	})
	assert.ErrorIs(t, err, ErrNoSubmitters)

	// Whitespace-only handles do not count as submitters.
	_, err = n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "M",
		GroupID:       "M-1",
		Submitters:    []string{"  ", ""},
	})
	assert.ErrorIs(t, err, ErrNoSubmitters)
}

func TestNormalizeUnknownSeverityIsIgnoredNotError(t *testing.T) {
	t.Parallel()

	n := &Normalizer{}
	f, err := n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "QA",
		GroupID:       "Q-1",
		Submitters:    []string{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, finding.Ignored, f.Severity)
}

func TestNormalizeAppliesOverrides(t *testing.T) {
	t.Parallel()

	ov, err := overrides.Parse([]byte(`
contests:
  c1:
    typos: {"al1ce": "alice"}
    bots: ["scanner"]
`))
	require.NoError(t, err)

	n := New(ov, "c1", nil, nil)
	f, err := n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "H",
		GroupID:       "H-1",
		Submitters:    []string{"al1ce", "scanner"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bot-scanner"}, f.Submitters)
}

func TestNormalizeRosterFilter(t *testing.T) {
	t.Parallel()

	ov, err := overrides.Parse([]byte("contests:\n  c1:\n    bots: [scanner]\n"))
	require.NoError(t, err)

	n := New(ov, "c1", []string{"alice", "bob"}, nil)

	f, err := n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "H",
		GroupID:       "H-1",
		Submitters:    []string{"alice", "SomeJudge", "scanner"},
	})
	require.NoError(t, err)
	// SomeJudge is neither in the roster nor a known bot; the bot
	// passes because known bots extend the roster.
	assert.Equal(t, []string{"alice", "bot-scanner"}, f.Submitters)

	// A record whose only submitter fails the filter is malformed.
	_, err = n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "H",
		GroupID:       "H-2",
		Submitters:    []string{"SomeJudge"},
	})
	assert.ErrorIs(t, err, ErrNoSubmitters)
}

func TestNormalizeEmptyRosterDisablesFilter(t *testing.T) {
	t.Parallel()

	n := New(nil, "c1", nil, nil)
	f, err := n.Normalize(contest.RawIssue{
		ContestID:     "c1",
		SeverityLabel: "M",
		GroupID:       "M-4",
		Submitters:    []string{"anyone"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"anyone"}, f.Submitters)
}

func TestGroupKeyPrefersGroupID(t *testing.T) {
	t.Parallel()

	n := &Normalizer{}

	withID, err := n.Normalize(contest.RawIssue{
		ContestID: "c1", SeverityLabel: "H", GroupID: "H-9",
		Title: "Whatever Title", Submitters: []string{"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "H-9", withID.GroupKey)

	withoutID, err := n.Normalize(contest.RawIssue{
		ContestID: "c1", SeverityLabel: "H",
		Title: "  Whatever   TITLE ", Submitters: []string{"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "whatever title", withoutID.GroupKey)
}

func TestTitleKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Re-entrancy in Withdraw", "re-entrancy in withdraw"},
		{"  RE-ENTRANCY   IN\tWITHDRAW ", "re-entrancy in withdraw"},
		{"Straße überläuft", "strasse überläuft"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TitleKey(tt.title))
		})
	}
}

func TestTitleKeyGroupsNearDuplicates(t *testing.T) {
	t.Parallel()

	a := TitleKey("Oracle price can be stale")
	b := TitleKey("ORACLE  PRICE CAN BE   STALE")
	assert.Equal(t, a, b)
}
