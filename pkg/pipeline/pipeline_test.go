package pipeline

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/contest"
	"github.com/wardenbench/wardenbench/pkg/scoring"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func raw(contestID, label, groupID, title string, subs ...string) contest.RawIssue {
	return contest.RawIssue{
		ContestID:     contestID,
		SeverityLabel: label,
		GroupID:       groupID,
		Title:         title,
		Submitters:    subs,
	}
}

// Two contests, two submitters, equal scores. alice enters the board
// first through the shared medium, wins the tie and becomes the whole
// top-50% set, so the three issues split one per category.
func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{ID: "contest-a", Issues: []contest.RawIssue{
			raw("contest-a", "M", "M-1", "Shared medium", "alice", "baseline-bot"),
			raw("contest-a", "H", "H-1", "Solo high", "baseline-bot"),
		}},
		{ID: "contest-b", Issues: []contest.RawIssue{
			raw("contest-b", "H", "H-1", "Solo high elsewhere", "alice"),
		}},
	}

	out, err := Run(reports, Options{
		BaselineID: "baseline-bot",
		Percentile: 0.5,
		Log:        quietLogger(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 2, out.Contests)
	assert.Equal(t, 3, out.TotalIssues)
	assert.Equal(t, 2, out.Wardens)
	assert.Zero(t, out.Skipped)

	require.Len(t, out.Leaderboard, 2)
	assert.Equal(t, "alice", out.Leaderboard[0].Submitter)
	assert.InDelta(t, 11.5, out.Leaderboard[0].Score, 1e-9)
	assert.Equal(t, "baseline-bot", out.Leaderboard[1].Submitter)
	assert.InDelta(t, 11.5, out.Leaderboard[1].Score, 1e-9)

	assert.Equal(t, []string{"alice"}, out.TopWardens)

	require.NotNil(t, out.Comparison)
	agg := out.Comparison.Aggregate
	assert.Equal(t, compare.Counts{BaselineOnly: 1, TopOnly: 1, Both: 1, Total: 3}, agg)

	a := out.Comparison.PerContest["contest-a"]
	require.NotNil(t, a)
	assert.Equal(t, compare.Counts{BaselineOnly: 1, Both: 1, Total: 2}, *a)
	b := out.Comparison.PerContest["contest-b"]
	require.NotNil(t, b)
	assert.Equal(t, compare.Counts{TopOnly: 1, Total: 1}, *b)
}

// Same scores, reversed issue order: the baseline enters the board
// first and takes the single top slot. Stripping it from the top set
// leaves nobody, so alice's finds fall to neither.
func TestRunTieBreakFollowsFirstSeen(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{ID: "contest-a", Issues: []contest.RawIssue{
			raw("contest-a", "H", "H-1", "Solo high", "baseline-bot"),
			raw("contest-a", "M", "M-1", "Shared medium", "alice", "baseline-bot"),
		}},
		{ID: "contest-b", Issues: []contest.RawIssue{
			raw("contest-b", "H", "H-1", "Solo high elsewhere", "alice"),
		}},
	}

	out, err := Run(reports, Options{
		BaselineID: "baseline-bot",
		Percentile: 0.5,
		Log:        quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"baseline-bot"}, out.TopWardens)
	require.NotNil(t, out.Comparison)
	assert.Empty(t, out.Comparison.TopWardens)
	assert.Equal(t,
		compare.Counts{BaselineOnly: 2, Neither: 1, Total: 3},
		out.Comparison.Aggregate)
}

func TestRunSkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{ID: "c1", Issues: []contest.RawIssue{
			raw("c1", "", "H-1", "No severity", "alice"),
			raw("c1", "H", "H-2", "No submitters"),
			raw("c1", "H", "H-3", "Fine", "alice"),
		}},
	}

	out, err := Run(reports, Options{
		BaselineID: "bot",
		Log:        quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Skipped)
	assert.Equal(t, 1, out.TotalIssues)
	require.Len(t, out.Leaderboard, 1)
	assert.Equal(t, "alice", out.Leaderboard[0].Submitter)
}

func TestRunInvalidPercentile(t *testing.T) {
	t.Parallel()

	_, err := Run(nil, Options{Percentile: 1.5, Log: quietLogger()})
	assert.ErrorIs(t, err, scoring.ErrInvalidPercentile)

	_, err = Run(nil, Options{Percentile: -0.1, Log: quietLogger()})
	assert.ErrorIs(t, err, scoring.ErrInvalidPercentile)
}

func TestRunDefaultPercentile(t *testing.T) {
	t.Parallel()

	var reports []contest.Report
	for _, w := range []string{"w0", "w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9"} {
		reports = append(reports, contest.Report{
			ID: "contest-" + w,
			Issues: []contest.RawIssue{
				raw("contest-"+w, "H", "H-1", "finding of "+w, w),
			},
		})
	}

	out, err := Run(reports, Options{Log: quietLogger()})
	require.NoError(t, err)

	assert.InDelta(t, scoring.DefaultPercentile, out.Percentile, 1e-9)
	// All ten tie at 10 points; the default top 10% keeps exactly the
	// first-seen one.
	assert.Equal(t, []string{"w0"}, out.TopWardens)
}

func TestRunNoReports(t *testing.T) {
	t.Parallel()

	out, err := Run(nil, Options{BaselineID: "bot", Log: quietLogger()})
	require.NoError(t, err)

	assert.Zero(t, out.Contests)
	assert.Zero(t, out.TotalIssues)
	assert.Empty(t, out.Leaderboard)
	assert.Empty(t, out.TopWardens)
	require.NotNil(t, out.Comparison)
	assert.Zero(t, out.Comparison.Aggregate.Total)
}

func TestRunLeaderboardOnly(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{ID: "c1", Issues: []contest.RawIssue{
			raw("c1", "H", "H-1", "t", "alice"),
		}},
	}

	out, err := Run(reports, Options{Log: quietLogger()})
	require.NoError(t, err)

	assert.Nil(t, out.Comparison)
	assert.Len(t, out.Leaderboard, 1)
}

// Roster filtering drops foreign handles and known bots join through
// the override table with the bot prefix applied everywhere.
func TestRunRosterAndBots(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{
			ID:      "2023-10-wildcat",
			Wardens: []string{"alice", "bob"},
			Issues: []contest.RawIssue{
				raw("2023-10-wildcat", "H", "H-1", "Shared", "alice", "henry"),
				raw("2023-10-wildcat", "M", "M-1", "Foreign only", "rando"),
			},
		},
	}

	out, err := Run(reports, Options{BaselineID: "bot-henry", Percentile: 1.0, Log: quietLogger()})
	require.NoError(t, err)

	// The foreign-only record loses all submitters and is skipped.
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, 1, out.TotalIssues)
	assert.Equal(t, 3, out.Wardens)

	require.Len(t, out.Leaderboard, 3)
	byName := map[string]scoring.WardenScore{}
	for _, row := range out.Leaderboard {
		byName[row.Submitter] = row
	}
	assert.InDelta(t, 5.0, byName["alice"].Score, 1e-9)
	assert.InDelta(t, 5.0, byName["bot-henry"].Score, 1e-9)
	assert.Zero(t, byName["bob"].Score)
	assert.Equal(t, 1, byName["bob"].Participations)
}

func TestRunExcludeZeroPrunes(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{
			ID:      "c1",
			Wardens: []string{"alice", "bob", "carol", "dan"},
			Issues: []contest.RawIssue{
				raw("c1", "H", "H-1", "t", "alice"),
				raw("c1", "M", "M-1", "u", "bob"),
			},
		},
	}

	out, err := Run(reports, Options{
		Percentile:  0.5,
		ExcludeZero: true,
		Log:         quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Wardens)
	assert.Equal(t, []string{"alice"}, out.TopWardens)
	require.Len(t, out.Leaderboard, 2)
}

// Records sharing a group key merge into one issue with the union of
// submitters and the highest severity, and split credit accordingly.
func TestRunMergesDuplicateGroups(t *testing.T) {
	t.Parallel()

	reports := []contest.Report{
		{ID: "c1", Issues: []contest.RawIssue{
			raw("c1", "M", "", "Reentrancy in withdraw", "alice"),
			raw("c1", "H", "", "reentrancy   in WITHDRAW", "bob"),
		}},
	}

	out, err := Run(reports, Options{Percentile: 1.0, Log: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, 1, out.TotalIssues)
	require.Len(t, out.Leaderboard, 2)
	assert.InDelta(t, 5.0, out.Leaderboard[0].Score, 1e-9)
	assert.InDelta(t, 5.0, out.Leaderboard[1].Score, 1e-9)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, []string{"alice", "bob"}, out.Issues[0].Submitters)
}
