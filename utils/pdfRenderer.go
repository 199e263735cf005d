package utils

import (
	"certify/models"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// DefaultDescription is printed when a certificate has no custom description
const DefaultDescription = "in recognition of outstanding achievement and exemplary performance"

// CertificateRenderer draws certificate PDFs into OutputDir. The file is
// named after the certificate id, so re-rendering the same certificate
// overwrites the previous document.
type CertificateRenderer struct {
	OutputDir string
}

func NewCertificateRenderer(outputDir string) *CertificateRenderer {
	return &CertificateRenderer{OutputDir: outputDir}
}

// Render produces <OutputDir>/<id>.pdf and returns the written path. The
// layout is fixed: header, recipient name, certificate number, optional RERA
// award line, two signature blocks, a footer watermark and a year badge.
func (r *CertificateRenderer) Render(cert *models.Certificate) (string, error) {
	if cert.RecipientName == "" || cert.CertificateNumber == "" {
		return "", fmt.Errorf("render requires recipient name and certificate number")
	}
	if cert.ID == "" {
		return "", fmt.Errorf("render requires a certificate id")
	}

	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create certificate directory: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+cert.CertificateNumber, false)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Double border
	pdf.SetDrawColor(184, 134, 11)
	pdf.SetLineWidth(1.2)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(11, 11, pageW-22, pageH-22, "D")

	// Header
	pdf.SetFont("Times", "B", 32)
	pdf.SetTextColor(30, 30, 90)
	pdf.SetY(28)
	pdf.CellFormat(0, 14, "CERTIFICATE OF ACHIEVEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "I", 14)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 8, "This certificate is proudly presented to", "", 1, "C", false, 0, "")

	// Recipient name
	pdf.Ln(6)
	pdf.SetFont("Times", "B", 30)
	pdf.SetTextColor(184, 134, 11)
	pdf.CellFormat(0, 14, cert.RecipientName, "", 1, "C", false, 0, "")

	// Description
	description := cert.Description
	if description == "" {
		description = DefaultDescription
	}
	pdf.Ln(2)
	pdf.SetFont("Times", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetX(40)
	pdf.MultiCell(pageW-80, 6, description, "", "C", false)

	// Certificate number, plus award RERA number when present
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 90)
	pdf.CellFormat(0, 7, "Certificate No: "+cert.CertificateNumber, "", 1, "C", false, 0, "")
	if cert.AwardReraNumber != "" {
		pdf.CellFormat(0, 7, "Award RERA No: "+cert.AwardReraNumber, "", 1, "C", false, 0, "")
	}

	// Signature blocks
	sigY := pageH - 50
	pdf.SetLineWidth(0.4)
	pdf.SetDrawColor(60, 60, 60)
	pdf.Line(45, sigY, 105, sigY)
	pdf.Line(pageW-105, sigY, pageW-45, sigY)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(45, sigY+2)
	pdf.CellFormat(60, 5, "Authorized Signatory", "", 0, "C", false, 0, "")
	pdf.SetXY(pageW-105, sigY+2)
	pdf.CellFormat(60, 5, "Director", "", 0, "C", false, 0, "")

	// Year badge
	badgeX, badgeY := pageW-42.0, 34.0
	pdf.SetFillColor(184, 134, 11)
	pdf.Circle(badgeX, badgeY, 13, "F")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(badgeX-13, badgeY-4)
	pdf.CellFormat(26, 8, fmt.Sprintf("%d", cert.IssueYear), "", 0, "C", false, 0, "")

	// Footer watermark
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetXY(0, pageH-20)
	pdf.CellFormat(0, 5, "Verify this certificate using its certificate number.", "", 0, "C", false, 0, "")

	path := filepath.Join(r.OutputDir, cert.ID+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write certificate PDF: %w", err)
	}
	return path, nil
}

// PublicURL returns the static URL under which a rendered certificate is served.
func (r *CertificateRenderer) PublicURL(baseURL string, cert *models.Certificate) string {
	return baseURL + "/certificates/" + cert.ID + ".pdf"
}
