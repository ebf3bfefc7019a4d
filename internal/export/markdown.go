package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
)

// MarkdownExporter exports session transcripts to Markdown format.
type MarkdownExporter struct{}

// Export writes the session transcript as Markdown.
func (e *MarkdownExporter) Export(session *core.Session, turns []*core.Turn, w io.Writer) error {
	var sb strings.Builder

	company := session.Context.CompanyName
	if company == "" {
		company = "Junta Directiva"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", company))

	// Metadata
	sb.WriteString("## Session Information\n\n")
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n", session.ID))
	sb.WriteString(fmt.Sprintf("- **Industry:** %s\n", session.Context.Industry))
	sb.WriteString(fmt.Sprintf("- **Country:** %s\n", session.Context.Country))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", session.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("\n")

	if len(session.Context.Goals) > 0 {
		sb.WriteString("## Goals\n\n")
		for _, goal := range session.Context.Goals {
			sb.WriteString(fmt.Sprintf("- %s\n", goal))
		}
		sb.WriteString("\n")
	}

	// Executives present
	sb.WriteString("## Executives Present\n\n")
	if len(session.PresentExecutives) == 0 {
		sb.WriteString("*No executives have joined yet.*\n\n")
	} else {
		for _, id := range session.PresentExecutives {
			if p := persona.Get(id); p != nil {
				sb.WriteString(fmt.Sprintf("- %s %s (%s) - %s\n", p.Avatar, p.Name, p.Role, p.Description))
			}
		}
		sb.WriteString("\n")
	}

	// Conversation
	sb.WriteString("## Conversation\n\n")
	if len(turns) == 0 {
		sb.WriteString("*No turns recorded.*\n\n")
	} else {
		for _, turn := range turns {
			if turn.Kind == core.TurnKindNotice {
				sb.WriteString(fmt.Sprintf("> %s\n\n", turn.Content))
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", speakerName(turn.SpeakerID), turn.CreatedAt.Format("3:04 PM")))
			sb.WriteString(turn.Content)
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString("---\n\n*Exported from boardroom*\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
