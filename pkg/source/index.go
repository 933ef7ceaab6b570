package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// repoColumn is the only contest index column the pipeline reads.
const repoColumn = "findingsRepo"

// ErrIndexNotFound is returned when the contest index CSV is missing.
var ErrIndexNotFound = errors.New("source: contest index not found, run fetch with a scraped index first")

// ErrBadIndex is returned when the index lacks the findings repository
// column.
var ErrBadIndex = errors.New("source: contest index has no findingsRepo column")

// Entry is one row of the contest index.
type Entry struct {
	ContestID string `json:"contest_id"`
	RepoURL   string `json:"repo_url"`
}

// LoadIndex reads the contest index CSV from disk.
func LoadIndex(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("source: open index: %w", err)
	}
	defer f.Close()
	return ParseIndex(f)
}

// ParseIndex reads index rows, keeping only entries whose findings
// repository cell holds a usable URL. Ragged rows and rows without a
// repository are skipped, not errors; scraped CSVs are messy.
func ParseIndex(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBadIndex
		}
		return nil, fmt.Errorf("source: read index header: %w", err)
	}
	col := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == repoColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrBadIndex
	}

	var entries []Entry
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: read index row: %w", err)
		}
		if col >= len(rec) {
			continue
		}
		repo := strings.TrimSpace(rec[col])
		if !validRepoURL(repo) {
			continue
		}
		entries = append(entries, Entry{ContestID: ContestID(repo), RepoURL: repo})
	}
	return entries, nil
}

// validRepoURL reports whether a cell holds an absolute URL.
func validRepoURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
