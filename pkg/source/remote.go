package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/wardenbench/wardenbench/pkg/contest"
	"github.com/wardenbench/wardenbench/pkg/httpclient"
	"github.com/wardenbench/wardenbench/pkg/iohelper"
	"github.com/wardenbench/wardenbench/pkg/ui"
	"github.com/wardenbench/wardenbench/pkg/workerpool"
)

// ErrFetch is returned when a findings repository does not serve its
// report.
var ErrFetch = errors.New("source: report fetch failed")

// defaultFetchRate limits requests per second against
// raw.githubusercontent.com.
const defaultFetchRate = 2

// defaultFetchConcurrency is how many downloads run at once during a
// bulk fetch. The limiter still paces the requests.
const defaultFetchConcurrency = 4

// RawReportURL converts a findings repository URL into the raw
// report.md location on the main branch.
func RawReportURL(repoURL string) string {
	raw := strings.Replace(repoURL, "github.com", "raw.githubusercontent.com", 1)
	return raw + "/refs/heads/main/report.md"
}

// Fetcher downloads findings reports, optionally caching them in
// CacheDir as <contest>.md so repeated runs skip the network.
type Fetcher struct {
	Token    string
	CacheDir string
	Client   *http.Client
	Limiter  *rate.Limiter
	Log      *slog.Logger

	// Concurrency is how many FetchAll downloads run at once. Values
	// above one complete entries out of order.
	Concurrency int

	// OnReport, when set, is called after each FetchAll entry with the
	// contest ID and the fetch error, nil on success. Called from
	// worker goroutines when Concurrency is above one.
	OnReport func(contestID string, err error)
}

// NewFetcher returns a Fetcher with the shared HTTP client and the
// default rate limit.
func NewFetcher(token, cacheDir string) *Fetcher {
	return &Fetcher{
		Token:       token,
		CacheDir:    cacheDir,
		Client:      httpclient.Default(),
		Limiter:     rate.NewLimiter(rate.Limit(defaultFetchRate), 1),
		Concurrency: defaultFetchConcurrency,
	}
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Log != nil {
		return f.Log
	}
	return slog.Default()
}

// FetchReport downloads one findings report. Anything but HTTP 200
// wraps ErrFetch; private findings repositories answer 404 without a
// valid token.
func (f *Fetcher) FetchReport(ctx context.Context, repoURL string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	rawURL := RawReportURL(repoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "token "+f.Token)
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	req.Header.Set("User-Agent", ui.UserAgentWithContext("Fetcher"))

	client := f.Client
	if client == nil {
		client = httpclient.Default()
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", rawURL, err)
	}
	defer iohelper.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrFetch, rawURL, resp.StatusCode)
	}
	body, err := iohelper.ReadReport(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", rawURL, err)
	}
	return body, nil
}

// FetchAll downloads every index entry into CacheDir. Fetch failures
// are logged and counted, never fatal, so one unpublished report does
// not abort a bulk fetch. Entries run on Concurrency workers.
func (f *Fetcher) FetchAll(ctx context.Context, entries []Entry) (fetched, failed int, err error) {
	if f.CacheDir == "" {
		return 0, 0, errors.New("source: fetcher has no cache directory")
	}
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("source: create cache dir: %w", err)
	}
	if f.Concurrency > 1 {
		return f.fetchConcurrent(ctx, entries)
	}
	log := f.logger()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return fetched, failed, err
		}
		body, err := f.FetchReport(ctx, e.RepoURL)
		if f.OnReport != nil {
			f.OnReport(e.ContestID, err)
		}
		if err != nil {
			failed++
			log.Warn("report fetch failed",
				slog.String("contest", e.ContestID),
				slog.String("error", err.Error()))
			continue
		}
		dest := filepath.Join(f.CacheDir, e.ContestID+".md")
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return fetched, failed, fmt.Errorf("source: write %s: %w", dest, err)
		}
		fetched++
		log.Info("report fetched",
			slog.String("contest", e.ContestID),
			slog.Int("bytes", len(body)))
	}
	return fetched, failed, nil
}

// fetchConcurrent is FetchAll on a worker pool. Counters match the
// sequential path; a cache write error ends the run with the first
// such error after in-flight downloads drain.
func (f *Fetcher) fetchConcurrent(ctx context.Context, entries []Entry) (int, int, error) {
	log := f.logger()

	var mu sync.Mutex
	var fetched, failed int
	var firstErr error

	pool := workerpool.New(f.Concurrency)
	for _, e := range entries {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			body, err := f.FetchReport(ctx, e.RepoURL)
			if f.OnReport != nil {
				f.OnReport(e.ContestID, err)
			}
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				log.Warn("report fetch failed",
					slog.String("contest", e.ContestID),
					slog.String("error", err.Error()))
				return
			}
			dest := filepath.Join(f.CacheDir, e.ContestID+".md")
			if err := os.WriteFile(dest, body, 0o644); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("source: write %s: %w", dest, err)
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			fetched++
			mu.Unlock()
			log.Info("report fetched",
				slog.String("contest", e.ContestID),
				slog.Int("bytes", len(body)))
		})
	}
	pool.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	return fetched, failed, firstErr
}

// Remote is a Source over contest index entries. Reports come from
// the fetcher's cache when present, from the network otherwise, and
// fetch failures skip the contest with a warning.
type Remote struct {
	Entries []Entry
	Fetcher *Fetcher
}

// NewRemote returns a Remote source for the given index entries.
func NewRemote(entries []Entry, f *Fetcher) *Remote {
	return &Remote{Entries: entries, Fetcher: f}
}

// Reports fetches and parses every entry, in index order.
func (r *Remote) Reports(ctx context.Context) ([]contest.Report, error) {
	log := r.Fetcher.logger()
	reports := make([]contest.Report, 0, len(r.Entries))
	for _, e := range r.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := r.load(ctx, e)
		if err != nil {
			log.Warn("skipping contest, report unavailable",
				slog.String("contest", e.ContestID),
				slog.String("error", err.Error()))
			continue
		}
		reports = append(reports, *contest.ParseReport(e.ContestID, raw))
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: none of %d index entries served a report",
			ErrNoReports, len(r.Entries))
	}
	return reports, nil
}

// load returns the cached report when present, fetching and caching
// it otherwise. Cache writes are best effort.
func (r *Remote) load(ctx context.Context, e Entry) ([]byte, error) {
	var cachePath string
	if r.Fetcher.CacheDir != "" {
		cachePath = filepath.Join(r.Fetcher.CacheDir, e.ContestID+".md")
		if body, err := os.ReadFile(cachePath); err == nil {
			return body, nil
		}
	}
	body, err := r.Fetcher.FetchReport(ctx, e.RepoURL)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := os.MkdirAll(r.Fetcher.CacheDir, 0o755); err == nil {
			if err := os.WriteFile(cachePath, body, 0o644); err != nil {
				r.Fetcher.logger().Warn("report cache write failed",
					slog.String("contest", e.ContestID),
					slog.String("error", err.Error()))
			}
		}
	}
	return body, nil
}
