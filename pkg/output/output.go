// Package output renders pipeline outcomes in the supported report
// formats. Writers receive a complete outcome once, render it, and
// release the sink on Close.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wardenbench/wardenbench/pkg/pipeline"
)

// Supported output formats.
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatTemplate = "template"
	FormatPDF      = "pdf"
)

// Writer renders one outcome to its sink.
type Writer interface {
	Write(o *pipeline.Outcome) error
	Close() error
}

// Options carries format-specific settings into the factory.
type Options struct {
	// Limit caps the number of leaderboard rows in console, markdown
	// and PDF output. Zero renders every row.
	Limit int

	// Template configures the template format: a file path, an inline
	// template string, or a built-in name.
	Template TemplateConfig

	// Title overrides the report title in markdown and pdf output.
	Title string
}

// NewWriter creates the writer for format, sending output to path.
// An empty path targets stdout. Binary formats refuse stdout because
// the result is unreadable in a terminal.
func NewWriter(format, path string, opts Options) (Writer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatConsole
	}
	if format == FormatPDF && path == "" {
		return nil, fmt.Errorf("output: pdf format requires an output file")
	}

	sink, err := openSink(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatConsole:
		return NewConsoleWriter(sink, opts.Limit), nil
	case FormatJSON:
		return NewJSONWriter(sink), nil
	case FormatCSV:
		return NewCSVWriter(sink), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(sink, MarkdownConfig{Title: opts.Title, MaxRows: opts.Limit}), nil
	case FormatTemplate:
		tw, err := NewTemplateWriter(sink, opts.Template)
		if err != nil {
			sink.Close()
			return nil, err
		}
		return tw, nil
	case FormatPDF:
		return NewPDFWriter(sink, PDFConfig{Title: opts.Title, MaxRows: opts.Limit}), nil
	default:
		sink.Close()
		return nil, fmt.Errorf("output: unknown format %q", format)
	}
}

// Formats lists the supported format names for help output.
func Formats() []string {
	return []string{FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatTemplate, FormatPDF}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openSink(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output: create %s: %w", path, err)
	}
	return f, nil
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatPct(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
