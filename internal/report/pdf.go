package report

import (
	"fmt"
	"io"
	"time"

	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/phpdave11/gofpdf"
)

// Document is the content of a PDF report
type Document struct {
	Title  string
	Lines  []string // free text under the title
	Images []string // image files placed before the tables
	Tables []Table
}

// PanelDocument builds the report of a solved panel.
func PanelDocument(a *panel.Analysis) Document {
	res := a.Result
	def := a.Model.Definition
	lines := []string{
		fmt.Sprintf("Panel: %s", res.Name),
		fmt.Sprintf("Laminate: %s, %d plies, t = %.3f mm", a.Model.Laminate.Name, a.Model.Laminate.NPlies(), a.Model.Laminate.Thickness*1e3),
		fmt.Sprintf("Size: %g x %g m, %d nodes, %d elements", def.Length, def.Width, res.NNodes, res.NElements),
		fmt.Sprintf("Max displacement: %.4e m at node %d", res.MaxDisplacement, res.MaxNode),
		fmt.Sprintf("Critical failure index (tsai-wu): %s", formatCell(res.CriticalFI())),
	}
	if def.Description != "" {
		lines = append(lines, def.Description)
	}
	return Document{
		Title:  "Composite Panel Analysis",
		Lines:  lines,
		Tables: PanelTables(a),
	}
}

// LaminateDocument builds the report of a laminate and an optional load
// case.
func LaminateDocument(lam *laminate.Laminate, stress *laminate.Stress) Document {
	lines := []string{
		fmt.Sprintf("Laminate: %s", lam.Name),
		fmt.Sprintf("%d plies, t = %.3f mm", lam.NPlies(), lam.Thickness*1e3),
	}
	if stress != nil {
		e := stress.Strain
		lines = append(lines, fmt.Sprintf("Mid-plane strain: [%.4g, %.4g, %.4g], curvature: [%.4g, %.4g, %.4g]",
			e[0], e[1], e[2], e[3], e[4], e[5]))
	}
	return Document{
		Title:  "Laminate Analysis",
		Lines:  lines,
		Tables: LaminateTables(lam, stress),
	}
}

// WritePDF renders the document as A4 pages.
func WritePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, doc.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(8)
	for _, l := range doc.Lines {
		pdf.MultiCell(0, 6, l, "", "L", false)
	}
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	for _, img := range doc.Images {
		pdf.ImageOptions(img, left, 0, usable, 0, true, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.Ln(4)
	}

	for _, t := range doc.Tables {
		writeTable(pdf, t, usable)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func writeTable(pdf *gofpdf.Fpdf, t Table, usable float64) {
	n := len(t.Header)
	if n == 0 {
		return
	}
	colW := usable / float64(n)
	size := 9.0
	if n > 7 {
		size = 6.5
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, t.Title)
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", size)
	pdf.SetFillColor(221, 235, 247)
	for _, h := range t.Header {
		pdf.CellFormat(colW, 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", size)
	for _, row := range t.Rows {
		for c := 0; c < n; c++ {
			txt := ""
			if c < len(row) {
				txt = formatCell(row[c])
			}
			pdf.CellFormat(colW, 5, txt, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}
