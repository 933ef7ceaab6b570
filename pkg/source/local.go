package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardenbench/wardenbench/pkg/contest"
)

// Local reads reports from a single markdown file or from every
// markdown file directly inside a directory. Subdirectories are not
// descended into. Files are processed in name order.
type Local struct {
	Path string
	Log  *slog.Logger
}

// NewLocal returns a Local source for the given file or directory.
func NewLocal(path string) *Local {
	return &Local{Path: path}
}

// Reports parses every report file under the source path.
func (l *Local) Reports(ctx context.Context) ([]contest.Report, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	log := l.Log
	if log == nil {
		log = slog.Default()
	}

	reports := make([]contest.Report, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("source: read %s: %w", f, err)
		}
		rep := contest.ParseReport(ContestID(f), raw)
		log.Debug("report parsed",
			slog.String("contest", rep.ID),
			slog.Int("wardens", len(rep.Wardens)),
			slog.Int("issues", len(rep.Issues)))
		reports = append(reports, *rep)
	}
	return reports, nil
}

func (l *Local) files() ([]string, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if !info.IsDir() {
		return []string{l.Path}, nil
	}

	entries, err := os.ReadDir(l.Path)
	if err != nil {
		return nil, fmt.Errorf("source: list %s: %w", l.Path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(l.Path, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoReports, l.Path)
	}
	sort.Strings(files)
	return files, nil
}
