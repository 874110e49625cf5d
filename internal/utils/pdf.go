package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFImage is an embedded picture; ImageType is "PNG" or "JPG".
type PDFImage struct {
	Data      []byte
	ImageType string
}

// PDFRow is one label/value line.
type PDFRow struct {
	Label string
	Value string
}

type TeacherPDFData struct {
	InstitutionName string
	TeacherID       string
	Name            string
	Department      string
	Designation     string
	Sections        []PDFSection
	Signature       *PDFImage
	GeneratedAt     time.Time
}

type PDFSection struct {
	Title string
	Rows  []PDFRow
}

type ResultPDFData struct {
	InstitutionName string
	ResultID        string
	Student         []PDFRow
	Exam            []PDFRow
	Marks           string
	MaxMarks        string
	Grade           string
	Remarks         string
	Photo           *PDFImage
	QRCodePNG       []byte
	VerifyURL       string
	GeneratedAt     time.Time
}

const (
	pageLeft   = 20.0
	pageWidth  = 170.0
	labelWidth = 50.0
)

// ImageTypeFor maps a MIME type to the gofpdf image type, "" when gofpdf
// cannot embed it.
func ImageTypeFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func newDocument(institution, title, subtitle string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 20, 20)
	pdf.AddPage()

	// ─────────────────────────────────────────
	// HEADER
	// ─────────────────────────────────────────
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 8, institution, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(0, 51, 102)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageLeft, pdf.GetY()+3, pageLeft+pageWidth, pdf.GetY()+3)
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	if subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)
	return pdf
}

func writeRows(pdf *gofpdf.Fpdf, rows []PDFRow, valueWidth float64) {
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.SetX(pageLeft)
		pdf.CellFormat(labelWidth, 6, row.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(5, 6, ":", "", 0, "C", false, 0, "")
		pdf.CellFormat(valueWidth, 6, truncate(row.Value, 60), "", 1, "L", false, 0, "")
	}
}

func writeImage(pdf *gofpdf.Fpdf, name string, img *PDFImage, x, y, w, h float64) {
	if img == nil || len(img.Data) == 0 || img.ImageType == "" {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: img.ImageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if pdf.Ok() {
		pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	}
}

func writeFooter(pdf *gofpdf.Fpdf, text string) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, text, "", 1, "C", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateTeacherPDF renders a teacher profile with an optional signature.
func GenerateTeacherPDF(data TeacherPDFData) ([]byte, error) {
	pdf := newDocument(data.InstitutionName, "TEACHER PROFILE", data.TeacherID)

	writeRows(pdf, []PDFRow{
		{"Name", data.Name},
		{"Department", data.Department},
		{"Designation", data.Designation},
	}, pageWidth-labelWidth-5)
	pdf.Ln(4)

	for _, section := range data.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(0, 51, 102)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(0, 7, section.Title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(1)
		writeRows(pdf, section.Rows, pageWidth-labelWidth-5)
		pdf.Ln(3)
	}

	// ─────────────────────────────────────────
	// SIGNATURE
	// ─────────────────────────────────────────
	if data.Signature != nil {
		signX := pageLeft + pageWidth - 60
		y := pdf.GetY() + 4
		writeImage(pdf, "signature", data.Signature, signX, y, 50, 20)
		pdf.SetXY(signX, y+22)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(50, 5, data.Name, "T", 1, "C", false, 0, "")
	}

	writeFooter(pdf, fmt.Sprintf("Generated on %s", data.GeneratedAt.Format("02/01/2006 15:04")))
	return output(pdf)
}

// GenerateResultPDF renders an exam result with the student photo and a
// QR code linking to its public verification page.
func GenerateResultPDF(data ResultPDFData) ([]byte, error) {
	pdf := newDocument(data.InstitutionName, "STATEMENT OF MARKS", data.ResultID)

	top := pdf.GetY()
	writeRows(pdf, data.Student, pageWidth-labelWidth-45)
	writeImage(pdf, "photo", data.Photo, pageLeft+pageWidth-35, top, 30, 36)
	if pdf.GetY() < top+40 && data.Photo != nil {
		pdf.SetY(top + 40)
	}
	pdf.Ln(3)

	writeRows(pdf, data.Exam, pageWidth-labelWidth-5)
	pdf.Ln(5)

	// ─────────────────────────────────────────
	// MARKS TABLE
	// ─────────────────────────────────────────
	headers := []string{"Marks Obtained", "Out Of", "Grade"}
	widths := []float64{60, 55, 55}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(240, 245, 255)
	for i, v := range []string{data.Marks, data.MaxMarks, data.Grade} {
		pdf.CellFormat(widths[i], 8, v, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(4)

	if data.Remarks != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, "Remarks: "+data.Remarks, "", "L", false)
		pdf.Ln(3)
	}

	// ─────────────────────────────────────────
	// QR VERIFICATION
	// ─────────────────────────────────────────
	if len(data.QRCodePNG) > 0 {
		y := pdf.GetY() + 2
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(pageLeft, y)
		pdf.CellFormat(40, 5, "Scan to verify:", "", 1, "L", false, 0, "")
		writeImage(pdf, "qrcode", &PDFImage{Data: data.QRCodePNG, ImageType: "PNG"}, pageLeft, y+6, 35, 35)
	}

	writeFooter(pdf, fmt.Sprintf("Issued digitally on %s | Verify at %s",
		data.GeneratedAt.Format("02/01/2006 15:04"), data.VerifyURL))
	return output(pdf)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
