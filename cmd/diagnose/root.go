package main

import (
	"fmt"
	"os"

	"energy_diagnostic_backend/platform/config"
	"energy_diagnostic_backend/platform/logger"

	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run the energy savings diagnostic offline",
	Long:  "Computes savings, tax benefit, payback and lead score for a questionnaire file, lists the sector catalog and reads archived lead dossiers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = logger.NewWithWriter(cfg.Env, cmd.ErrOrStderr())
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
