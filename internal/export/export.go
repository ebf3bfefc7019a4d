// Package export handles exporting boardroom transcripts to various formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
)

// Format represents an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// Exporter defines the interface for exporting session transcripts.
type Exporter interface {
	Export(session *core.Session, turns []*core.Turn, w io.Writer) error
	FileExtension() string
}

// GetExporter returns an exporter for the given format.
func GetExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatPDF:
		return &PDFExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// GenerateFilename creates a filename for the export.
func GenerateFilename(session *core.Session, ext string) string {
	company := session.Context.CompanyName
	if company == "" {
		company = "boardroom"
	}
	if len(company) > 50 {
		company = company[:50]
	}

	// Replace unsafe characters
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	company = replacer.Replace(company)

	timestamp := session.CreatedAt.Format("20060102")
	return fmt.Sprintf("boardroom_%s_%s.%s", timestamp, company, ext)
}

// speakerName resolves a turn's speaker to a display name.
func speakerName(speakerID string) string {
	if speakerID == core.UserSpeakerID {
		return "Usuario"
	}
	if p := persona.Get(speakerID); p != nil {
		return fmt.Sprintf("%s (%s)", p.Name, p.Role)
	}
	return speakerID
}
