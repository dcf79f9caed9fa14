package insight

import (
	"fmt"
	"strings"

	"energy_diagnostic_backend/internal/diagnostic"
)

const systemInstruction = "Eres un ingeniero experto en eficiencia energética de Solectrica. Escribes resúmenes ejecutivos breves, profesionales y en español para gerentes de empresas colombianas."

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// BuildPrompt renders the request sent to the model. Only questionnaire and
// result figures are included; contact details never leave the service.
func BuildPrompt(q diagnostic.Questionnaire, r diagnostic.Result) string {
	var b strings.Builder
	b.WriteString("Analiza los siguientes datos de una empresa:\n")
	fmt.Fprintf(&b, "- Tipo: %s (%s)\n", q.CompanyType, strings.TrimSpace(q.Sector))
	fmt.Fprintf(&b, "- Ubicación: %s\n", strings.TrimSpace(q.Location))
	fmt.Fprintf(&b, "- Consumo mensual: %s\n", diagnostic.FormatKwh(q.MonthlyConsumptionKwh))
	fmt.Fprintf(&b, "- Costo mensual: %s\n", diagnostic.FormatCOP(q.MonthlyEnergyCost))
	fmt.Fprintf(&b, "- Nivel de optimización: %s\n", q.OptimizationLevel)
	fmt.Fprintf(&b, "- Auditoría previa: %s\n", yesNo(q.HasEnergyAudit))
	fmt.Fprintf(&b, "- Interés en beneficios tributarios (Ley 1715): %s\n", yesNo(q.InterestedInTaxBenefits))
	b.WriteString("\nResultados calculados:\n")
	fmt.Fprintf(&b, "- Ahorro anual estimado: %s\n", diagnostic.FormatCOP(r.AnnualSavings))
	fmt.Fprintf(&b, "- Reducción potencial: %s\n", diagnostic.FormatPercent(r.PercentageReduction))
	b.WriteString(`
Tarea:
Genera un breve resumen ejecutivo profesional (máximo 100 palabras) que destaque la urgencia económica y la oportunidad técnica.
Reglas:
- No menciones fórmulas, solo impacto de negocio.
- Enfócate en la competitividad.
- Responde solo con el resumen, sin encabezados ni comentarios adicionales.
`)
	return b.String()
}
