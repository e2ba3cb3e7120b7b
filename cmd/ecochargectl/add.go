package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ecocharge/internal/cli"
	"ecocharge/internal/core"
)

var addInput core.SessionInput

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a charging session",
	Example: `  ecochargectl add --provider ZES --duration 45 --price 8,5 --kwh 30
  ecochargectl add --provider Trugo --date 2024-04-12 --duration 80 --price 9 --kwh 40 --cost 360`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addInput.Provider, "provider", "", "charging network")
	f.StringVar(&addInput.Date, "date", time.Now().Format(core.DateLayout), "session date (YYYY-MM-DD)")
	f.StringVar(&addInput.DurationMinutes, "duration", "", "duration in minutes")
	f.StringVar(&addInput.PricePerKWh, "price", "", "price per kWh")
	f.StringVar(&addInput.TotalKWh, "kwh", "", "energy delivered in kWh")
	f.StringVar(&addInput.TotalCost, "cost", "", "total cost, computed from price and energy when omitted")
	_ = addCmd.MarkFlagRequired("provider")
	_ = addCmd.MarkFlagRequired("duration")
	_ = addCmd.MarkFlagRequired("price")
	_ = addCmd.MarkFlagRequired("kwh")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	session, err := core.ParseSessionInput(addInput)
	if err != nil {
		return err
	}
	if !core.IsKnownProvider(session.Provider) {
		fmt.Fprintf(cmd.ErrOrStderr(), "uyarı: %q listede olmayan bir sağlayıcı\n", session.Provider)
	}

	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.tracker.Add(cmd.Context(), session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Kaydedildi: %s (%s, %s)\n", session.ID, core.LongDate(session.Date), cli.Lira(session.TotalCost))
	return nil
}
