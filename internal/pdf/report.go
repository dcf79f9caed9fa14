package pdf

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/config"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Report is the content of the PDF handed to the prospect.
type Report struct {
	ContactName   string
	Questionnaire diagnostic.Questionnaire
	Result        diagnostic.Result
	Insight       string
	GeneratedAt   time.Time
}

type reportRow struct {
	Label string
	Value string
}

type reportData struct {
	ContactName string
	Date        string
	Company     []reportRow
	Figures     []reportRow
	Insight     string
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

// RenderHTML renders the report page that Gotenberg prints.
func RenderHTML(r Report) ([]byte, error) {
	q, res := r.Questionnaire, r.Result
	data := reportData{
		ContactName: r.ContactName,
		Date:        r.GeneratedAt.Format("02/01/2006"),
		Company: []reportRow{
			{"Tipo de empresa", string(q.CompanyType)},
			{"Sector", q.Sector},
			{"Ubicación", q.Location},
			{"Consumo mensual", diagnostic.FormatKwh(q.MonthlyConsumptionKwh)},
			{"Costo mensual", diagnostic.FormatCOP(q.MonthlyEnergyCost)},
			{"Nivel de optimización", string(q.OptimizationLevel)},
			{"Auditoría energética", yesNo(q.HasEnergyAudit)},
			{"Generación propia", yesNo(q.HasOwnGeneration)},
		},
		Figures: []reportRow{
			{"Ahorro anual estimado", diagnostic.FormatCOP(res.AnnualSavings)},
			{"Reducción de costos", diagnostic.FormatPercent(res.PercentageReduction)},
			{"Beneficio tributario estimado", diagnostic.FormatCOP(res.EstimatedTaxBenefit)},
			{"Retorno de inversión", fmt.Sprintf("%.0f meses", res.EstimatedRoiMonths)},
		},
		Insight: r.Insight,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

// Converter turns an HTML page into a PDF.
type Converter interface {
	ConvertHTML(ctx context.Context, indexHTML []byte, opts ConvertOpts) ([]byte, error)
}

// ReportRenderer produces PDF reports.
type ReportRenderer struct {
	converter Converter
}

func NewReportRenderer(converter Converter) *ReportRenderer {
	return &ReportRenderer{converter: converter}
}

// NewFromConfig returns nil when Gotenberg is not configured.
func NewFromConfig(cfg config.GotenbergConfig) *ReportRenderer {
	if !cfg.IsGotenbergEnabled() {
		return nil
	}
	return NewReportRenderer(NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword()))
}

func (r *ReportRenderer) Render(ctx context.Context, report Report) ([]byte, error) {
	html, err := RenderHTML(report)
	if err != nil {
		return nil, err
	}
	return r.converter.ConvertHTML(ctx, html, ReportOpts())
}
