package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ecocharge/internal/cli"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import sessions from a YAML file in one batch",
	Long: `Reads a YAML list of sessions and stores them together. When any entry is
invalid or already stored, nothing is imported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	batch, err := cli.ReadImportFile(args[0])
	if err != nil {
		return err
	}

	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.tracker.AddMany(cmd.Context(), batch); err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s oturum içe aktarıldı.\n", humanize.Comma(int64(len(batch))))
	return nil
}
