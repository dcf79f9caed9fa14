package main

import (
	"encoding/json"
	"fmt"

	"energy_diagnostic_backend/internal/archive"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var dossierCmd = &cobra.Command{
	Use:   "dossier <lead-id>",
	Short: "Print an archived lead dossier from object storage",
	Args:  cobra.ExactArgs(1),
	RunE:  runDossier,
}

func init() {
	dossierCmd.Flags().Bool("url", false, "print a presigned download URL instead of the dossier")
	rootCmd.AddCommand(dossierCmd)
}

func runDossier(cmd *cobra.Command, args []string) error {
	leadID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid lead id %q: %w", args[0], err)
	}

	store, err := archive.NewMinIOStore(cfg)
	if err != nil {
		return err
	}
	dossiers := archive.New(store, cfg.GetMinioBucketDossiers())

	if asURL, _ := cmd.Flags().GetBool("url"); asURL {
		u, err := dossiers.DownloadURL(cmd.Context(), leadID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
		return err
	}

	d, err := dossiers.Load(cmd.Context(), leadID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
