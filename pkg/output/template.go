package output

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/finding"
	"github.com/wardenbench/wardenbench/pkg/jsonutil"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
	"github.com/wardenbench/wardenbench/pkg/scoring"
	"github.com/wardenbench/wardenbench/templates"
)

// Compile-time interface check.
var _ Writer = (*TemplateWriter)(nil)

// TemplateConfig selects the template to render: a file on disk, an
// inline string, or one of the bundled built-ins.
type TemplateConfig struct {
	Path    string
	String  string
	BuiltIn string
}

// TemplateWriter renders the outcome through a Go template with sprig
// functions available.
type TemplateWriter struct {
	w    io.WriteCloser
	tmpl *template.Template
}

// NewTemplateWriter creates a template writer. The template parses
// immediately so a broken template fails before any pipeline work.
func NewTemplateWriter(w io.WriteCloser, config TemplateConfig) (*TemplateWriter, error) {
	var content string
	switch {
	case config.Path != "":
		raw, err := os.ReadFile(config.Path)
		if err != nil {
			return nil, fmt.Errorf("output: read template: %w", err)
		}
		content = string(raw)
	case config.String != "":
		content = config.String
	case config.BuiltIn != "":
		raw, err := templates.FS.ReadFile("output/" + config.BuiltIn + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("output: unknown built-in template %q (available: %s)",
				config.BuiltIn, strings.Join(builtInNames(), ", "))
		}
		content = string(raw)
	default:
		return nil, fmt.Errorf("output: no template specified")
	}

	funcMap := sprig.TxtFuncMap()
	funcMap["escapeCSV"] = tmplEscapeCSV
	funcMap["json"] = tmplToJSON
	funcMap["prettyJSON"] = tmplPrettyJSON
	funcMap["pct"] = formatPct
	funcMap["score"] = formatScore

	tmpl, err := template.New("wardenbench").Funcs(funcMap).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("output: parse template: %w", err)
	}
	return &TemplateWriter{w: w, tmpl: tmpl}, nil
}

func builtInNames() []string {
	matches, _ := fs.Glob(templates.FS, "output/*.tmpl")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".tmpl"))
	}
	return names
}

// tmplData is the root object templates render against.
type tmplData struct {
	RunID       string
	GeneratedAt string
	DurationSec float64
	BaselineID  string
	Percentile  float64
	TopShare    float64
	Contests    int
	TotalIssues int
	Skipped     int
	Wardens     int
	Leaderboard []scoring.WardenScore
	TopWardens  []string
	Issues      []finding.Issue
	Comparison  *compare.Result
	Categories  []compare.Category
}

// Write renders the outcome through the template.
func (tw *TemplateWriter) Write(o *pipeline.Outcome) error {
	data := &tmplData{
		RunID:       o.RunID,
		GeneratedAt: o.GeneratedAt.Format(time.RFC3339),
		DurationSec: o.Duration.Seconds(),
		BaselineID:  o.BaselineID,
		Percentile:  o.Percentile,
		TopShare:    1 - o.Percentile,
		Contests:    o.Contests,
		TotalIssues: o.TotalIssues,
		Skipped:     o.Skipped,
		Wardens:     o.Wardens,
		Leaderboard: o.Leaderboard,
		TopWardens:  o.TopWardens,
		Issues:      o.Issues,
		Comparison:  o.Comparison,
		Categories:  compare.Categories(),
	}

	var buf bytes.Buffer
	if err := tw.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("output: execute template: %w", err)
	}
	if _, err := tw.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("output: write template: %w", err)
	}
	return nil
}

// Close releases the sink.
func (tw *TemplateWriter) Close() error {
	return tw.w.Close()
}

// tmplEscapeCSV quotes a value when it contains CSV structure.
func tmplEscapeCSV(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}

func tmplToJSON(v any) string {
	b, err := jsonutil.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func tmplPrettyJSON(v any) string {
	b, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}
