package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	gofpdf "github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wardenbench/wardenbench/pkg/compare"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
	"github.com/wardenbench/wardenbench/pkg/strutil"
)

// pdfNameLimit keeps warden handles inside their table cell.
const pdfNameLimit = 34

// Compile-time interface check.
var _ Writer = (*PDFWriter)(nil)

// PDFConfig configures the PDF report.
type PDFConfig struct {
	// Title is the cover heading. Default "Warden Benchmark Report".
	Title string

	// PageSize is the paper format, default "A4".
	PageSize string

	// Orientation is "P" (portrait) or "L" (landscape), default "P".
	Orientation string

	// MaxRows caps the leaderboard table. Zero renders every row.
	MaxRows int
}

var pdfCategoryColors = map[compare.Category][]int{
	compare.BaselineOnly: {245, 158, 11},
	compare.TopOnly:      {77, 150, 255},
	compare.Both:         {22, 163, 74},
	compare.Neither:      {220, 38, 38},
}

// PDFWriter renders the outcome as a paginated PDF report.
type PDFWriter struct {
	w      io.WriteCloser
	config PDFConfig
}

// NewPDFWriter creates a PDF writer targeting w.
func NewPDFWriter(w io.WriteCloser, config PDFConfig) *PDFWriter {
	if config.Title == "" {
		config.Title = "Warden Benchmark Report"
	}
	if config.PageSize == "" {
		config.PageSize = "A4"
	}
	if config.Orientation == "" {
		config.Orientation = "P"
	}
	return &PDFWriter{w: w, config: config}
}

// Write renders the outcome.
func (pw *PDFWriter) Write(o *pipeline.Outcome) error {
	pdf := gofpdf.New(pw.config.Orientation, "mm", pw.config.PageSize, "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")

	pw.addCover(pdf, o)
	pw.addLeaderboard(pdf, o)
	if o.Comparison != nil {
		pw.addComparison(pdf, o.Comparison)
	}

	if err := pdf.Output(pw.w); err != nil {
		return fmt.Errorf("output: render pdf: %w", err)
	}
	return nil
}

// Close releases the sink.
func (pw *PDFWriter) Close() error {
	return pw.w.Close()
}

func (pw *PDFWriter) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(45, 212, 191)
	pdf.SetLineWidth(0.6)
	pdf.Line(10, pdf.GetY(), 80, pdf.GetY())
	pdf.Ln(4)
}

func (pw *PDFWriter) addCover(pdf *gofpdf.Fpdf, o *pipeline.Outcome) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.Ln(30)
	pdf.CellFormat(0, 12, pw.config.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s", o.GeneratedAt.Format(time.RFC1123)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Run %s", o.RunID), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	stats := []struct {
		label string
		value string
	}{
		{"Contests", fmt.Sprintf("%d", o.Contests)},
		{"Issues", fmt.Sprintf("%d", o.TotalIssues)},
		{"Wardens", fmt.Sprintf("%d", o.Wardens)},
		{"Skipped records", fmt.Sprintf("%d", o.Skipped)},
		{"Percentile", formatScore(o.Percentile)},
		{"Top wardens", fmt.Sprintf("%d", len(o.TopWardens))},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, s := range stats {
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(95, 7, s.label, "", 0, "R", false, 0, "")
		pdf.SetTextColor(30, 41, 59)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "  "+s.value, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
}

func (pw *PDFWriter) addLeaderboard(pdf *gofpdf.Fpdf, o *pipeline.Outcome) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Leaderboard")

	rows := o.Leaderboard
	if pw.config.MaxRows > 0 && len(rows) > pw.config.MaxRows {
		rows = rows[:pw.config.MaxRows]
	}
	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 7, "No scored wardens.", "", 1, "L", false, 0, "")
		return
	}

	headers := []struct {
		name  string
		width float64
		align string
	}{
		{"Rank", 14, "C"},
		{"Warden", 58, "L"},
		{"Score", 22, "R"},
		{"High", 16, "R"},
		{"Medium", 18, "R"},
		{"Issues", 16, "R"},
		{"Contests", 20, "R"},
		{"Avg", 18, "R"},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range headers {
		pdf.CellFormat(h.width, 8, h.name, "1", 0, h.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(245, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		switch row.Rank {
		case 1:
			pdf.SetTextColor(180, 140, 0)
		case 2:
			pdf.SetTextColor(120, 120, 120)
		case 3:
			pdf.SetTextColor(176, 112, 52)
		default:
			pdf.SetTextColor(60, 60, 60)
		}
		cells := []string{
			fmt.Sprintf("%d", row.Rank),
			strutil.Truncate(row.Submitter, pdfNameLimit),
			formatScore(row.Score),
			fmt.Sprintf("%d", row.High),
			fmt.Sprintf("%d", row.Medium),
			fmt.Sprintf("%d", row.Issues),
			fmt.Sprintf("%d", row.Participations),
			formatScore(row.AvgPerContest),
		}
		for j, h := range headers {
			pdf.CellFormat(h.width, 7, cells[j], "1", 0, h.align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) < len(o.Leaderboard) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d further wardens omitted.", len(o.Leaderboard)-len(rows)), "", 1, "L", false, 0, "")
	}
}

func (pw *PDFWriter) addComparison(pdf *gofpdf.Fpdf, res *compare.Result) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Baseline Comparison")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, fmt.Sprintf("Issues found by the baseline %q measured against the top %d wardens. "+
		"Each issue falls into exactly one category.", res.BaselineID, len(res.TopWardens)), "", "L", false)
	pdf.Ln(5)

	titleCase := cases.Title(language.English)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 8, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Count", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Ratio", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, cat := range compare.Categories() {
		color := pdfCategoryColors[cat]
		if color == nil {
			color = []int{60, 60, 60}
		}
		label := titleCase.String(strings.ReplaceAll(string(cat), "_", " "))
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", res.Aggregate.Get(cat)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, formatPct(ratioFor(res.AggregateRatios, cat)), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Baseline coverage %s, top warden coverage %s.",
		formatPct(res.AggregateRatios.BaselineCoverage),
		formatPct(res.AggregateRatios.TopCoverage)), "", 1, "L", false, 0, "")

	if len(res.ContestOrder) < 2 {
		return
	}

	pdf.Ln(6)
	pw.addSectionHeader(pdf, "Per Contest")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 8, "Contest", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Baseline", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Top", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Both", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Neither", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for i, id := range res.ContestOrder {
		counts := res.PerContest[id]
		if counts == nil {
			continue
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(60, 7, id, "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", counts.BaselineOnly), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", counts.TopOnly), "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", counts.Both), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", counts.Neither), "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", counts.Total), "1", 1, "C", true, 0, "")
	}
}
