package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alienxp03/boardroom/internal/core"
)

func testSession() *core.Session {
	created, _ := time.Parse(time.RFC3339, "2026-03-15T14:30:00Z")
	return &core.Session{
		ID: "11111111-2222-3333-4444-555555555555",
		Context: core.BoardContext{
			CompanyName: "Acme Corp",
			Industry:    "Retail",
			Country:     "México",
			Goals:       []string{"Duplicar ingresos", "Expandir a LATAM"},
		},
		PresentExecutives: []string{"cfo", "cto"},
		CreatedAt:         created,
	}
}

func testTurns(sessionID string) []*core.Turn {
	return []*core.Turn{
		{ID: 1, SessionID: sessionID, SpeakerID: core.UserSpeakerID, Kind: core.TurnKindNormal, Content: "¿Cómo vamos este trimestre?"},
		{ID: 2, SessionID: sessionID, SpeakerID: "cfo", Kind: core.TurnKindNotice, Content: "💼 Victoria Chen (CFO) se ha unido a la reunión."},
		{ID: 3, SessionID: sessionID, SpeakerID: "cfo", Kind: core.TurnKindNormal, Content: "El flujo de caja es positivo."},
	}
}

func TestGetExporter(t *testing.T) {
	for _, format := range []Format{FormatMarkdown, FormatJSON, FormatPDF} {
		exporter, err := GetExporter(format)
		require.NoError(t, err)
		require.NotNil(t, exporter)
	}

	_, err := GetExporter(Format("docx"))
	require.Error(t, err)
}

func TestMarkdownExport(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(session, testTurns(session.ID), &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# Acme Corp\n"))
	require.Contains(t, out, "- **Industry:** Retail")
	require.Contains(t, out, "- Duplicar ingresos")
	require.Contains(t, out, "Victoria Chen (CFO)")
	require.Contains(t, out, "Marcus Rodriguez (CTO)")
	require.Contains(t, out, "### Usuario")
	require.Contains(t, out, "El flujo de caja es positivo.")
	// Notices render as blockquotes, not speaker sections.
	require.Contains(t, out, "> 💼 Victoria Chen (CFO) se ha unido a la reunión.")
}

func TestMarkdownExportEmptySession(t *testing.T) {
	session := testSession()
	session.Context.CompanyName = ""
	session.PresentExecutives = nil

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(session, nil, &buf))

	out := buf.String()
	require.Contains(t, out, "# Junta Directiva")
	require.Contains(t, out, "*No executives have joined yet.*")
	require.Contains(t, out, "*No turns recorded.*")
}

func TestJSONExport(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(session, testTurns(session.ID), &buf))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	require.Equal(t, session.ID, data.Session.ID)
	require.Len(t, data.Turns, 3)
	require.Equal(t, core.TurnKindNotice, data.Turns[1].Kind)
}

func TestPDFExport(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, (&PDFExporter{}).Export(session, testTurns(session.ID), &buf))

	// A valid PDF starts with the %PDF header.
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestGenerateFilename(t *testing.T) {
	session := testSession()

	got := GenerateFilename(session, "md")
	require.Equal(t, "boardroom_20260315_Acme_Corp.md", got)

	t.Run("unsafe characters replaced", func(t *testing.T) {
		session.Context.CompanyName = `A/B\C:D*E?F"G<H>I|J`
		got := GenerateFilename(session, "json")
		require.Equal(t, "boardroom_20260315_A-B-C-DEFGHIJ.json", got)
	})

	t.Run("empty company falls back", func(t *testing.T) {
		session.Context.CompanyName = ""
		got := GenerateFilename(session, "pdf")
		require.Equal(t, "boardroom_20260315_boardroom.pdf", got)
	})
}
