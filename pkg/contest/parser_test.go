package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `![](banner.png)

# Overview

## About

A competitive audit.

## Wardens

5 Wardens contributed reports:

1. [0xTheC0der](https://code4rena.com/@0xTheC0der)
2. adriro
3. [bin2chen](https://code4rena.com/@bin2chen) (judge)
4. Team&#95;FliBit (0xNova, 0xSol)
5. \_paperparachute

# High Risk Findings (2)

## [[H-01] Re-entrancy in withdraw allows draining](https://github.com/code-423n4/2024-01-demo-findings/issues/12)
*Submitted by [0xTheC0der](https://code4rena.com/@0xTheC0der), also found by adriro and [bin2chen](https://code4rena.com/@bin2chen)*

Some description with a fence:

` + "```solidity\n# not a heading\nfunction withdraw() external {}\n```" + `

### Impact

Funds can be drained.

## [H-02] Oracle price can be stale
_Submitted by Team&#95;FliBit (0xNova, 0xSol)_

Stale prices accepted.

# Medium Risk Findings (1)

## Summary prose that is not an issue heading

Extra words.

## [[M-01] Missing validation of fee parameter](https://github.com/code-423n4/2024-01-demo-findings/issues/44)
*Submitted by \_paperparachute.*

Fee may exceed 100%.

# Low Risk and Non-Critical Issues

## [L-01] Unused variable
*Submitted by somebody*

# Disclosures

Nothing else.
`

func TestParseReport(t *testing.T) {
	t.Parallel()

	rep := ParseReport("2024-01-demo", []byte(sampleReport))

	assert.Equal(t, "2024-01-demo", rep.ID)
	assert.Equal(t,
		[]string{"0xTheC0der", "adriro", "bin2chen", "Team_FliBit", "_paperparachute"},
		rep.Wardens)

	require.Len(t, rep.Issues, 3)

	h1 := rep.Issues[0]
	assert.Equal(t, "H", h1.SeverityLabel)
	assert.Equal(t, "H-1", h1.GroupID)
	assert.Equal(t, "Re-entrancy in withdraw allows draining", h1.Title)
	assert.Equal(t, []string{"0xTheC0der", "adriro", "bin2chen"}, h1.Submitters)

	h2 := rep.Issues[1]
	assert.Equal(t, "H-2", h2.GroupID)
	assert.Equal(t, "Oracle price can be stale", h2.Title)
	assert.Equal(t, []string{"Team_FliBit"}, h2.Submitters)

	m1 := rep.Issues[2]
	assert.Equal(t, "M", m1.SeverityLabel)
	assert.Equal(t, "M-1", m1.GroupID)
	assert.Equal(t, []string{"_paperparachute"}, m1.Submitters)
}

func TestParseReportEmpty(t *testing.T) {
	t.Parallel()

	rep := ParseReport("empty", []byte("# Nothing here\n\nProse only.\n"))
	assert.Empty(t, rep.Issues)
	assert.Empty(t, rep.Wardens)
}

func TestParseReportIgnoresUntrackedTopics(t *testing.T) {
	t.Parallel()

	rep := ParseReport("demo", []byte(sampleReport))
	for _, iss := range rep.Issues {
		assert.NotEqual(t, "L", iss.SeverityLabel, "low-risk sections must not be extracted")
	}
}

func TestParseCredits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "single handle",
			line: "alice*",
			want: []string{"alice"},
		},
		{
			name: "also found by with and",
			line: "alice, also found by bob and carol*",
			want: []string{"alice", "bob", "carol"},
		},
		{
			name: "markdown links",
			line: "[alice](https://x.example/a), [bob](https://x.example/b)*",
			want: []string{"alice", "bob"},
		},
		{
			name: "team list in parens skipped",
			line: "TeamX (alice, bob), carol*",
			want: []string{"TeamX", "carol"},
		},
		{
			name: "escaped underscores restored",
			line: `\_141345\_, &#95;quux&lowbar;*`,
			want: []string{"_141345_", "_quux_"},
		},
		{
			name: "trailing star dot",
			line: "alice*.",
			want: []string{"alice"},
		},
		{
			name: "trailing dot star",
			line: "alice.*",
			want: []string{"alice"},
		},
		{
			name: "trailing underscore emphasis",
			line: "alice_",
			want: []string{"alice"},
		},
		{
			name: "empty entries dropped",
			line: "alice, , bob*",
			want: []string{"alice", "bob"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseCredits(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCreditsUnbalanced(t *testing.T) {
	t.Parallel()

	_, err := parseCredits("alice), bob*")
	assert.ErrorIs(t, err, ErrBadCreditLine)
}

func TestParseRosterRepeatedNumbering(t *testing.T) {
	t.Parallel()

	body := []string{
		"1. alice",
		"1. bob",
		"1. alice",
		"not a roster line",
		"1. [carol](https://x.example/c)",
	}
	got := parseRoster(body)
	assert.Equal(t, []string{"alice", "bob", "carol"}, got)
}

func TestSplitSectionsFences(t *testing.T) {
	t.Parallel()

	raw := "# Topic\n\n## Item\nbody\n```\n# fenced heading\n## fenced item\n```\ntail\n"
	secs := splitSections(raw)

	require.Len(t, secs, 2)
	assert.Equal(t, "Topic", secs[0].topic)
	assert.Equal(t, "## Item", secs[1].heading)
	assert.Contains(t, secs[1].body, "# fenced heading")
}
