package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Progress renders a single-line counter for long-running fetch loops.
// It rewrites the line in place on interactive terminals and stays
// quiet everywhere else, so piped output is never littered with
// carriage returns.
type Progress struct {
	mu      sync.Mutex
	label   string
	total   int
	current int
	failed  int
	start   time.Time
	out     io.Writer
	active  bool
}

// NewProgress creates a progress line with a fixed total. A zero or
// negative total disables rendering.
func NewProgress(label string, total int) *Progress {
	return &Progress{
		label:  label,
		total:  total,
		start:  time.Now(),
		out:    os.Stderr,
		active: total > 0 && !IsSilent() && term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Increment advances the counter by one completed item.
func (p *Progress) Increment(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if failed {
		p.failed++
	}
	p.render()
}

// Finish terminates the progress line. Safe to call when inactive.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.render()
	fmt.Fprintln(p.out)
	p.active = false
}

func (p *Progress) render() {
	if !p.active {
		return
	}
	pct := float64(p.current) / float64(p.total) * 100
	elapsed := time.Since(p.start).Round(time.Second)
	line := fmt.Sprintf("\r :: %s : %s %s (%.1f%%)",
		ProgressLabelStyle.Render(p.label), p.bar(),
		ProgressValueStyle.Render(fmt.Sprintf("%d/%d", p.current, p.total)), pct)
	if p.failed > 0 {
		line += WarningStyle.Render(fmt.Sprintf(" %d failed", p.failed))
	}
	line += fmt.Sprintf(" [%s]", elapsed)
	fmt.Fprint(p.out, line)
}

// bar renders a fixed-width fill. Block glyphs on capable terminals,
// ASCII everywhere else.
func (p *Progress) bar() string {
	const width = 20
	fill := Icon("█", "#")
	empty := Icon("░", "-")
	n := p.current * width / p.total
	if n > width {
		n = width
	}
	return strings.Repeat(fill, n) + strings.Repeat(empty, width-n)
}
