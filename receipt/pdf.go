package receipt

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	marginMM = 10
	lineMM   = 6
)

// WritePDF renders r onto one A4 portrait page with 10 mm margins.
func WritePDF(w io.Writer, r Receipt) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle(r.Number, true)
	pdf.SetCreator(Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	width := pageW - 2*marginMM

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(width, 10, tr(Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(width, 5, tr(fmt.Sprintf("Receipt • Order #%d", r.OrderID)), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	rows := [][2]string{
		{"Student", fmt.Sprintf("%s (%s)", r.Student, r.StudentID)},
		{"Phone", r.Phone},
		{"Type", r.TypeLabel()},
	}
	if r.Location != "" {
		rows = append(rows, [2]string{"Location", r.Location})
	}
	rows = append(rows,
		[2]string{"Time", r.Time},
		[2]string{"Date", r.DeliveryDate},
		[2]string{"Status", r.Status},
	)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(width/2, lineMM, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(width/2, lineMM, tr(row[1]), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(width, lineMM+1, "Items", "B", 1, "L", false, 0, "")
	for _, l := range r.Lines {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(width*0.7, lineMM, tr(l.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(width*0.3, lineMM, tr(Money(l.Subtotal)), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(width, lineMM-1, tr(fmt.Sprintf("%s × %d", Money(l.UnitPrice), l.Quantity)), "B", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(width/2, lineMM+2, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, lineMM+2, tr(Money(r.Total)), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(width, 5, tr(Footer), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "render receipt pdf")
	}
	return errors.Wrap(pdf.Output(w), "write receipt pdf")
}
