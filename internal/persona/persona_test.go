package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alienxp03/boardroom/internal/core"
)

func TestDefaults(t *testing.T) {
	personas := Defaults()
	require.Len(t, personas, 4)

	require.Equal(t, []string{"cfo", "cto", "cio", "cdo"}, IDs())

	for _, p := range personas {
		require.NotEmpty(t, p.Name, "persona %s has no name", p.ID)
		require.NotEmpty(t, p.Role, "persona %s has no role", p.ID)
		require.NotEmpty(t, p.PromptTemplate, "persona %s has no template", p.ID)
		require.Contains(t, p.PromptTemplate, "{companyName}")
	}
}

func TestGet(t *testing.T) {
	p := Get("cto")
	require.NotNil(t, p)
	require.Equal(t, "Marcus Rodriguez", p.Name)

	require.Nil(t, Get("ceo"))
	require.Nil(t, Get(""))
}

func TestValid(t *testing.T) {
	require.True(t, Valid("cfo"))
	require.True(t, Valid("cdo"))
	require.False(t, Valid("CFO"))
	require.False(t, Valid("user"))
}

func TestRenderPrompt(t *testing.T) {
	t.Run("substitutes context fields", func(t *testing.T) {
		got := RenderPrompt("cfo", core.BoardContext{
			CompanyName: "Acme",
			Industry:    "Retail",
			Country:     "España",
		})
		require.Contains(t, got, "CFO) de Acme.")
		require.Contains(t, got, "Industria: Retail | País: España")
		require.NotContains(t, got, "{companyName}")
	})

	t.Run("empty fields use generic phrases", func(t *testing.T) {
		got := RenderPrompt("cto", core.BoardContext{})
		require.Contains(t, got, "de la empresa")
		require.Contains(t, got, "Industria: tu industria | País: tu país")
	})

	t.Run("unknown persona falls back to default", func(t *testing.T) {
		got := RenderPrompt("intern", core.BoardContext{CompanyName: "Acme"})
		want := RenderPrompt(DefaultID, core.BoardContext{CompanyName: "Acme"})
		require.Equal(t, want, got)
		require.True(t, strings.Contains(got, "Victoria Chen"))
	})
}
