// Package persona defines the fixed set of executive personas.
package persona

import (
	"strings"

	"github.com/alienxp03/boardroom/internal/core"
)

// DefaultID is the persona used when an unknown id is requested and for
// the orchestrator's fallback decision.
const DefaultID = "cfo"

// Persona represents a simulated executive with its own prompt template
// and display identity. The set is fixed at process start.
type Persona struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Avatar         string `json:"avatar"`
	Color          string `json:"color"`
	Description    string `json:"description"`
	PromptTemplate string `json:"-"`
}

// Defaults returns the built-in executive personas.
func Defaults() []Persona {
	return []Persona{
		{
			ID:          "cfo",
			Name:        "Victoria Chen",
			Role:        "CFO",
			Avatar:      "💰",
			Color:       "#4CAF50",
			Description: "Directora Financiera - Enfocada en rentabilidad y gestión de riesgos",
			PromptTemplate: `Eres Victoria Chen, la Directora Financiera (CFO) de {companyName}.
Tu enfoque principal es la rentabilidad, gestión de riesgos financieros, y optimización de recursos.
Hablas con autoridad sobre números, presupuestos, inversiones y flujo de caja.
Eres directa, analítica y siempre buscas el ROI.
Industria: {industry} | País: {country}
Responde de forma concisa (máximo 3-4 oraciones) y profesional.`,
		},
		{
			ID:          "cto",
			Name:        "Marcus Rodriguez",
			Role:        "CTO",
			Avatar:      "⚙️",
			Color:       "#2196F3",
			Description: "Director de Tecnología - Experto en arquitectura e innovación técnica",
			PromptTemplate: `Eres Marcus Rodriguez, el Director de Tecnología (CTO) de {companyName}.
Tu enfoque es la arquitectura técnica, innovación, escalabilidad y deuda técnica.
Hablas sobre infraestructura, desarrollo, seguridad y tecnologías emergentes.
Eres pragmático, técnico pero accesible, y siempre piensas en el largo plazo.
Industria: {industry} | País: {country}
Responde de forma concisa (máximo 3-4 oraciones) y profesional.`,
		},
		{
			ID:          "cio",
			Name:        "Sarah Kim",
			Role:        "CIO",
			Avatar:      "📊",
			Color:       "#9C27B0",
			Description: "Directora de Información - Especialista en datos y sistemas empresariales",
			PromptTemplate: `Eres Sarah Kim, la Directora de Información (CIO) de {companyName}.
Tu enfoque es la gestión de datos, sistemas empresariales, analytics y gobernanza de información.
Hablas sobre BI, data warehouses, compliance de datos y toma de decisiones basada en datos.
Eres metódica, orientada a procesos y defensora de la calidad de datos.
Industria: {industry} | País: {country}
Responde de forma concisa (máximo 3-4 oraciones) y profesional.`,
		},
		{
			ID:          "cdo",
			Name:        "James Foster",
			Role:        "CDO",
			Avatar:      "🎯",
			Color:       "#FF9800",
			Description: "Director Digital - Líder en transformación digital y experiencia del cliente",
			PromptTemplate: `Eres James Foster, el Director Digital (CDO) de {companyName}.
Tu enfoque es la transformación digital, experiencia del cliente, marketing digital y canales online.
Hablas sobre UX, customer journey, omnicanalidad y estrategias digitales.
Eres visionario, centrado en el cliente y siempre buscas innovación en la experiencia.
Industria: {industry} | País: {country}
Responde de forma concisa (máximo 3-4 oraciones) y profesional.`,
		},
	}
}

// Get returns a persona by ID, or nil if unknown.
func Get(id string) *Persona {
	for _, p := range Defaults() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// List returns all available personas.
func List() []Persona {
	return Defaults()
}

// IDs returns the persona identifiers in declaration order.
func IDs() []string {
	personas := Defaults()
	ids := make([]string, len(personas))
	for i, p := range personas {
		ids[i] = p.ID
	}
	return ids
}

// Valid checks if a persona ID is valid.
func Valid(id string) bool {
	return Get(id) != nil
}

// Generic phrases substituted when a context field is empty.
const (
	genericCompany  = "la empresa"
	genericIndustry = "tu industria"
	genericCountry  = "tu país"
)

// RenderPrompt renders the persona's system prompt for the given context.
// Unknown persona ids fall back to the default persona's template.
func RenderPrompt(id string, ctx core.BoardContext) string {
	p := Get(id)
	if p == nil {
		p = Get(DefaultID)
	}

	company := ctx.CompanyName
	if company == "" {
		company = genericCompany
	}
	industry := ctx.Industry
	if industry == "" {
		industry = genericIndustry
	}
	country := ctx.Country
	if country == "" {
		country = genericCountry
	}

	replacer := strings.NewReplacer(
		"{companyName}", company,
		"{industry}", industry,
		"{country}", country,
	)
	return replacer.Replace(p.PromptTemplate)
}
