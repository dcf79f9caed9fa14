package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"energy_diagnostic_backend/internal/diagnostic"

	"github.com/spf13/cobra"
)

var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "List company types, their recommended sectors and optimisation levels",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIPO\tSECTORES")
		for _, ct := range diagnostic.CompanyTypes {
			fmt.Fprintf(w, "%s\t%s\n", ct, strings.Join(diagnostic.SectorsFor(ct), ", "))
		}
		levels := make([]string, 0, len(diagnostic.OptimizationLevels))
		for _, lvl := range diagnostic.OptimizationLevels {
			levels = append(levels, string(lvl))
		}
		fmt.Fprintf(w, "\nNiveles de optimización\t%s\n", strings.Join(levels, ", "))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sectorsCmd)
}
