package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfCellPad    = 4.0
	pdfEmptyLabel = "No bookable slots in this window."
)

// PDFExporter renders a Dataset as a landscape table. The header row is
// repeated on every page and pages are numbered in the footer.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the document. title is printed once above the table.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(pdf, data)
	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	writeHeader()

	if len(data.Rows) == 0 {
		pdf.CellFormat(0, pdfRowHeight, pdfEmptyLabel, "1", 1, "C", false, 0, "")
	}

	_, pageHeight := pdf.GetPageSize()
	for i := range data.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-15 {
			pdf.AddPage()
			writeHeader()
		}
		for j, value := range data.Record(i) {
			pdf.CellFormat(widths[j], pdfRowHeight, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths sizes each column to its widest cell and scales the result to
// the printable width.
func columnWidths(pdf *gofpdf.Fpdf, data Dataset) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	printable := pageWidth - 2*pdfMargin

	widths := make([]float64, len(data.Headers))
	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		widths[i] = pdf.GetStringWidth(header) + pdfCellPad
	}
	pdf.SetFont("Arial", "", 9)
	for r := range data.Rows {
		for i, value := range data.Record(r) {
			if w := pdf.GetStringWidth(value) + pdfCellPad; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for _, w := range widths {
		total += w
	}
	scale := printable / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}
