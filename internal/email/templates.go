package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"energy_diagnostic_backend/internal/diagnostic"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type figures struct {
	AnnualSavings       string
	PercentageReduction string
	TaxBenefit          string
	RoiMonths           string
	MonthlyConsumption  string
	MonthlyCost         string
}

type diagnosticSummaryEmailData struct {
	baseEmailData
	figures
	ContactName    string
	CompanyType    string
	Sector         string
	Location       string
	SelectedAction string
	Insight        []string
}

type salesAlertEmailData struct {
	baseEmailData
	figures
	LeadID       string
	ContactName  string
	ContactEmail string
	ContactPhone string
	CompanyType  string
	Sector       string
	Location     string
	Score        int
	Category     string
}

func newFigures(q diagnostic.Questionnaire, r diagnostic.Result) figures {
	return figures{
		AnnualSavings:       diagnostic.FormatCOP(r.AnnualSavings),
		PercentageReduction: diagnostic.FormatPercent(r.PercentageReduction),
		TaxBenefit:          diagnostic.FormatCOP(r.EstimatedTaxBenefit),
		RoiMonths:           fmt.Sprintf("%.0f", r.EstimatedRoiMonths),
		MonthlyConsumption:  diagnostic.FormatKwh(q.MonthlyConsumptionKwh),
		MonthlyCost:         diagnostic.FormatCOP(q.MonthlyEnergyCost),
	}
}

// paragraphs splits generated text on blank lines so the template can wrap
// each block in its own <p>.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderDiagnosticSummary(summary DiagnosticSummary) (string, error) {
	q := summary.Questionnaire
	return renderEmailTemplate("diagnostic_summary.html", diagnosticSummaryEmailData{
		baseEmailData: baseEmailData{
			Title:      subjectDiagnosticSummary,
			Heading:    "Tu diagnóstico energético",
			Subheading: "Resultados estimados para tu empresa",
		},
		figures:        newFigures(q, summary.Result),
		ContactName:    summary.ContactName,
		CompanyType:    string(q.CompanyType),
		Sector:         q.Sector,
		Location:       q.Location,
		SelectedAction: summary.SelectedAction,
		Insight:        paragraphs(summary.Insight),
	})
}

func renderSalesAlert(alert SalesAlert) (string, error) {
	q := alert.Questionnaire
	return renderEmailTemplate("sales_alert.html", salesAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nuevo lead caliente",
			Heading: "Nuevo lead caliente",
		},
		figures:      newFigures(q, alert.Result),
		LeadID:       alert.LeadID.String(),
		ContactName:  alert.ContactName,
		ContactEmail: alert.ContactEmail,
		ContactPhone: alert.ContactPhone,
		CompanyType:  string(q.CompanyType),
		Sector:       q.Sector,
		Location:     q.Location,
		Score:        alert.Result.Score,
		Category:     string(alert.Result.LeadCategory),
	})
}
