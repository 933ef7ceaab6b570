package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueSoleFound(t *testing.T) {
	t.Parallel()

	sole := Issue{Submitters: []string{"alice"}}
	shared := Issue{Submitters: []string{"alice", "bob"}}

	assert.True(t, sole.SoleFound())
	assert.False(t, shared.SoleFound())
}

func TestIssueFoundBy(t *testing.T) {
	t.Parallel()

	issue := Issue{Submitters: []string{"alice", "bot-henry"}}

	assert.True(t, issue.FoundBy("alice"))
	assert.True(t, issue.FoundBy("bot-henry"))
	assert.False(t, issue.FoundBy("mallory"))
	assert.False(t, issue.FoundBy("Alice")) // handles are case-sensitive
}

func TestIssueFoundByAny(t *testing.T) {
	t.Parallel()

	issue := Issue{Submitters: []string{"alice", "bob"}}
	top := map[string]struct{}{"bob": {}, "carol": {}}

	assert.True(t, issue.FoundByAny(top))
	assert.False(t, issue.FoundByAny(map[string]struct{}{"carol": {}}))
	assert.False(t, issue.FoundByAny(nil))
}

func TestIssueFingerprintStable(t *testing.T) {
	t.Parallel()

	a := Issue{ContestID: "2023-01-demo", GroupKey: "H-1"}
	b := Issue{ContestID: "2023-01-demo", GroupKey: "H-1", Submitters: []string{"x"}}
	c := Issue{ContestID: "2023-01-demo", GroupKey: "M-1"}
	d := Issue{ContestID: "2023-02-demo", GroupKey: "H-1"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "fingerprint depends only on contest and group key")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
	assert.Len(t, a.Fingerprint(), 8)
}

func TestMergeSubmitters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  []string
		src  []string
		want []string
	}{
		{
			name: "disjoint",
			dst:  []string{"alice"},
			src:  []string{"bob"},
			want: []string{"alice", "bob"},
		},
		{
			name: "overlap keeps first-seen order",
			dst:  []string{"alice", "bob"},
			src:  []string{"bob", "carol", "alice"},
			want: []string{"alice", "bob", "carol"},
		},
		{
			name: "empty dst",
			dst:  nil,
			src:  []string{"alice", "alice"},
			want: []string{"alice"},
		},
		{
			name: "empty src",
			dst:  []string{"alice"},
			src:  nil,
			want: []string{"alice"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MergeSubmitters(tt.dst, tt.src))
		})
	}
}
