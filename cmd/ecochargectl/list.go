package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecocharge/internal/cli"
	"ecocharge/internal/core"
)

var listMonth string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List charging sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listMonth, "month", core.AllMonths, "only sessions of this month (YYYY-MM)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	sessions := core.FilterByMonth(s.tracker.Snapshot(), listMonth)
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Kayıtlı şarj oturumu yok.")
		return nil
	}
	return cli.WriteSessions(cmd.OutOrStdout(), sessions)
}
