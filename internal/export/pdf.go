package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
)

// PDFExporter exports session transcripts to PDF format.
type PDFExporter struct{}

// Export writes the session transcript as PDF.
func (e *PDFExporter) Export(session *core.Session, turns []*core.Turn, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	company := session.Context.CompanyName
	if company == "" {
		company = "Junta Directiva"
	}
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, e.sanitizeText(company), "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Session Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	e.addMetadataRow(pdf, "ID:", session.ID[:8]+"...")
	e.addMetadataRow(pdf, "Industry:", session.Context.Industry)
	e.addMetadataRow(pdf, "Country:", session.Context.Country)
	e.addMetadataRow(pdf, "Created:", session.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	pdf.Ln(5)

	// Executives section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Executives Present")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(session.PresentExecutives) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No executives have joined yet.")
		pdf.Ln(6)
	} else {
		for _, id := range session.PresentExecutives {
			if p := persona.Get(id); p != nil {
				pdf.SetFont("Arial", "B", 10)
				pdf.Cell(35, 5, p.Role+":")
				pdf.SetFont("Arial", "", 10)
				pdf.Cell(0, 5, e.sanitizeText(p.Name))
				pdf.Ln(5)
			}
		}
	}
	pdf.Ln(5)

	// Conversation content
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Conversation")
	pdf.Ln(8)

	if len(turns) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No turns recorded.")
		pdf.Ln(6)
	} else {
		for _, turn := range turns {
			// Check if we need a new page
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			if turn.Kind == core.TurnKindNotice {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, e.sanitizeText(turn.Content), "", "", false)
				pdf.Ln(3)
				continue
			}

			if turn.SpeakerID == core.UserSpeakerID {
				pdf.SetFillColor(230, 230, 230) // Light gray
			} else {
				pdf.SetFillColor(200, 230, 255) // Light blue
			}

			pdf.SetFont("Arial", "B", 10)
			header := fmt.Sprintf("%s (%s)", speakerName(turn.SpeakerID), turn.CreatedAt.Format("3:04 PM"))
			pdf.CellFormat(0, 7, e.sanitizeText(header), "", 1, "", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)
			pdf.MultiCell(0, 5, e.sanitizeText(turn.Content), "", "", false)
			pdf.Ln(5)
		}
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from boardroom", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, e.sanitizeText(value))
	pdf.Ln(5)
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	replacer := strings.NewReplacer(
		"‘", "'", // Left single quote
		"’", "'", // Right single quote
		"“", "\"", // Left double quote
		"”", "\"", // Right double quote
		"–", "-", // En dash
		"—", "--", // Em dash
		"…", "...", // Ellipsis
		"•", "*", // Bullet
		" ", " ", // Non-breaking space
		"💼", "", // Briefcase glyph in join notices
		"✋", "", // Raised hand glyph
	)
	return strings.TrimSpace(replacer.Replace(text))
}
