package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"findings repo url", "https://github.com/code-423n4/2022-11-size-findings", "2022-11-size"},
		{"http url", "http://github.com/org/2023-08-dopex-findings", "2023-08-dopex"},
		{"url without dash", "https://github.com/org/report", "report"},
		{"markdown path", "reports/2023-10-wildcat.md", "2023-10-wildcat"},
		{"bare markdown file", "2024-01-foo.md", "2024-01-foo"},
		{"plain id", "2023-10-wildcat", "2023-10-wildcat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ContestID(tt.input); got != tt.want {
				t.Errorf("ContestID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRawReportURL(t *testing.T) {
	t.Parallel()

	got := RawReportURL("https://github.com/code-423n4/2022-11-size-findings")
	want := "https://raw.githubusercontent.com/code-423n4/2022-11-size-findings/refs/heads/main/report.md"
	assert.Equal(t, want, got)
}

func TestParseIndex(t *testing.T) {
	t.Parallel()

	csvData := "\ufeffname,findingsRepo,sponsor\n" +
		"Size,https://github.com/code-423n4/2022-11-size-findings,Size\n" +
		"Broken,not a url,Nobody\n" +
		"Short\n" +
		"Dopex,https://github.com/code-423n4/2023-08-dopex-findings,Dopex\n"

	entries, err := ParseIndex(strings.NewReader(csvData))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ContestID: "2022-11-size", RepoURL: "https://github.com/code-423n4/2022-11-size-findings"}, entries[0])
	assert.Equal(t, "2023-08-dopex", entries[1].ContestID)
}

func TestParseIndexMissingColumn(t *testing.T) {
	t.Parallel()

	_, err := ParseIndex(strings.NewReader("name,sponsor\nSize,Size\n"))
	assert.ErrorIs(t, err, ErrBadIndex)

	_, err = ParseIndex(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestLoadIndexNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadIndex(filepath.Join(t.TempDir(), "contests.csv"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestLocalReportsFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	report := "# High Risk Findings\n\n## [H-01] Title here\n\n*Submitted by alice*\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-02-beta.md"), []byte(report), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-alpha.md"), []byte(report), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	reports, err := NewLocal(dir).Reports(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "2024-01-alpha", reports[0].ID)
	assert.Equal(t, "2024-02-beta", reports[1].ID)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, []string{"alice"}, reports[0].Issues[0].Submitters)
}

func TestLocalReportsSingleFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "2023-10-wildcat.md")
	require.NoError(t, os.WriteFile(path, []byte("# Overview\n"), 0o644))

	reports, err := NewLocal(path).Reports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "2023-10-wildcat", reports[0].ID)
}

func TestLocalReportsEmptyDir(t *testing.T) {
	t.Parallel()

	_, err := NewLocal(t.TempDir()).Reports(context.Background())
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestLocalReportsMissingPath(t *testing.T) {
	t.Parallel()

	_, err := NewLocal(filepath.Join(t.TempDir(), "nope")).Reports(context.Background())
	assert.Error(t, err)
}

func TestFetchReportSendsAuth(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("# Overview\n"))
	}))
	defer srv.Close()

	f := &Fetcher{Token: "gh_secret", Client: srv.Client()}
	body, err := f.FetchReport(context.Background(), srv.URL+"/org/2024-01-foo-findings")
	require.NoError(t, err)

	assert.Equal(t, "# Overview\n", string(body))
	assert.Equal(t, "/org/2024-01-foo-findings/refs/heads/main/report.md", gotPath)
	assert.Equal(t, "token gh_secret", gotAuth)
	assert.Equal(t, "application/vnd.github.raw+json", gotAccept)
}

func TestFetchReportNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client()}
	_, err := f.FetchReport(context.Background(), srv.URL+"/org/2024-01-foo-findings")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchAllContinuesOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("# Overview\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	var seen []string
	var cbErrs []error
	f := &Fetcher{
		CacheDir: dir,
		Client:   srv.Client(),
		OnReport: func(contestID string, err error) {
			seen = append(seen, contestID)
			cbErrs = append(cbErrs, err)
		},
	}
	entries := []Entry{
		{ContestID: "2024-01-ok", RepoURL: srv.URL + "/org/2024-01-ok-findings"},
		{ContestID: "2024-02-missing", RepoURL: srv.URL + "/org/2024-02-missing-findings"},
	}

	fetched, failed, err := f.FetchAll(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 1, fetched)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"2024-01-ok", "2024-02-missing"}, seen)
	require.Len(t, cbErrs, 2)
	assert.NoError(t, cbErrs[0])
	assert.Error(t, cbErrs[1])
	data, err := os.ReadFile(filepath.Join(dir, "2024-01-ok.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Overview\n", string(data))
	_, err = os.Stat(filepath.Join(dir, "2024-02-missing.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchAllConcurrent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("# Overview\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	var mu sync.Mutex
	var seen []string
	f := &Fetcher{
		CacheDir:    dir,
		Client:      srv.Client(),
		Concurrency: 4,
		OnReport: func(contestID string, err error) {
			mu.Lock()
			seen = append(seen, contestID)
			mu.Unlock()
		},
	}

	var entries []Entry
	for i := range 9 {
		id := fmt.Sprintf("2024-%02d-ok", i+1)
		entries = append(entries, Entry{ContestID: id, RepoURL: srv.URL + "/org/" + id + "-findings"})
	}
	for i := range 3 {
		id := fmt.Sprintf("2025-%02d-missing", i+1)
		entries = append(entries, Entry{ContestID: id, RepoURL: srv.URL + "/org/" + id + "-findings"})
	}

	fetched, failed, err := f.FetchAll(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 9, fetched)
	assert.Equal(t, 3, failed)
	assert.Len(t, seen, 12)
	for i := range 9 {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("2024-%02d-ok.md", i+1)))
		assert.NoError(t, err)
	}
}

func TestRemoteReportsUsesCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("# Overview\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-cached.md"),
		[]byte("# Overview\n"), 0o644))

	f := &Fetcher{CacheDir: dir, Client: srv.Client()}
	remote := NewRemote([]Entry{
		{ContestID: "2024-01-cached", RepoURL: srv.URL + "/org/2024-01-cached-findings"},
		{ContestID: "2024-02-fresh", RepoURL: srv.URL + "/org/2024-02-fresh-findings"},
	}, f)

	reports, err := remote.Reports(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, int32(1), hits.Load(), "cached report must not hit the network")

	// The fresh report is cached for the next run.
	_, err = os.Stat(filepath.Join(dir, "2024-02-fresh.md"))
	assert.NoError(t, err)
}

func TestRemoteReportsAllFailed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client()}
	remote := NewRemote([]Entry{
		{ContestID: "2024-01-x", RepoURL: srv.URL + "/org/2024-01-x-findings"},
	}, f)

	_, err := remote.Reports(context.Background())
	assert.ErrorIs(t, err, ErrNoReports)
}
