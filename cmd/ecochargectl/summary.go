package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecocharge/internal/cli"
	"ecocharge/internal/core"
)

var summaryMonth string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals, provider split and the cost series",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months that have sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runMonths,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the charging networks offered by the form",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range core.Providers {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryMonth, "month", core.AllMonths, "month to summarize (YYYY-MM)")
	rootCmd.AddCommand(summaryCmd, monthsCmd, providersCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return cli.WriteSummary(cmd.OutOrStdout(), s.tracker.Dashboard(summaryMonth))
}

func runMonths(cmd *cobra.Command, args []string) error {
	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	for _, m := range core.AvailableMonths(s.tracker.Snapshot()) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m, core.MonthLabel(m))
	}
	return nil
}
