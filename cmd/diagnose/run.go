package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/insight"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the diagnostic for a questionnaire file",
	Long: `Compute the savings estimate and lead score for a YAML questionnaire.

Example questionnaire:

  companyType: Industria
  sector: Manufactura
  location: Medellín
  monthlyConsumptionKwh: 25000
  monthlyEnergyCost: 15000000
  optimizationLevel: Ninguno
  hasEnergyAudit: false
  interestedInTaxBenefits: true

Examples:
  # Reproducible payback estimate
  run --file empresa.yaml --seed 42

  # Include the advisory text from the configured provider
  run --file empresa.yaml --insight`,
	RunE: runDiagnose,
}

func init() {
	f := runCmd.Flags()
	f.String("file", "", "questionnaire YAML file")
	f.Uint64("seed", 0, "seed for the payback jitter (default: random)")
	f.Bool("insight", false, "generate advisory text with INSIGHT_PROVIDER")
	f.String("format", "table", "output format: table or json")
	_ = runCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(runCmd)
}

type runOutput struct {
	Questionnaire diagnostic.Questionnaire `json:"questionnaire"`
	Result        diagnostic.Result        `json:"result"`
	Insight       string                   `json:"insight,omitempty"`
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, _ := cmd.Flags().GetString("file")
	withInsight, _ := cmd.Flags().GetBool("insight")
	format, _ := cmd.Flags().GetString("format")

	q, err := loadQuestionnaire(path)
	if err != nil {
		return err
	}
	if !diagnostic.IsRecommendedSector(q.CompanyType, q.Sector) {
		log.Warn("sector is not in the catalog for this company type", "company_type", q.CompanyType, "sector", q.Sector)
	}

	var src diagnostic.RandomSource = diagnostic.DefaultSource
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		src = diagnostic.NewLockedSource(seed)
	}

	out := runOutput{Questionnaire: q, Result: diagnostic.Compute(q, src)}
	if withInsight {
		out.Insight, _ = insight.New(ctx, cfg, log).Generate(ctx, q, out.Result)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table":
		return printResult(cmd.OutOrStdout(), out)
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func printResult(out io.Writer, r runOutput) error {
	q, res := r.Questionnaire, r.Result
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Empresa\t%s / %s\n", q.CompanyType, q.Sector)
	if q.Location != "" {
		fmt.Fprintf(w, "Ubicación\t%s\n", q.Location)
	}
	fmt.Fprintf(w, "Consumo mensual\t%s\n", diagnostic.FormatKwh(q.MonthlyConsumptionKwh))
	fmt.Fprintf(w, "Costo mensual\t%s\n", diagnostic.FormatCOP(q.MonthlyEnergyCost))
	fmt.Fprintf(w, "Ahorro anual\t%s\n", diagnostic.FormatCOP(res.AnnualSavings))
	fmt.Fprintf(w, "Reducción\t%s\n", diagnostic.FormatPercent(res.PercentageReduction))
	fmt.Fprintf(w, "Beneficio tributario\t%s\n", diagnostic.FormatCOP(res.EstimatedTaxBenefit))
	fmt.Fprintf(w, "Retorno (meses)\t%.1f\n", res.EstimatedRoiMonths)
	fmt.Fprintf(w, "Puntaje\t%d (%s)\n", res.Score, res.LeadCategory)
	if err := w.Flush(); err != nil {
		return err
	}
	if r.Insight != "" {
		_, err := fmt.Fprintf(out, "\n%s\n", r.Insight)
		return err
	}
	return nil
}
