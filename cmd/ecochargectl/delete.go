package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecocharge/internal/core"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a charging session",
	Long:  `Deletes one session after asking for confirmation. Deleting an unknown id succeeds.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])

	s, err := openTracker(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if !deleteYes {
		prompt := fmt.Sprintf("%s silinsin mi? [e/H] ", id)
		for _, it := range s.tracker.Snapshot() {
			if it.ID == id {
				prompt = fmt.Sprintf("%s %s kaydı (%s) silinsin mi? [e/H] ", core.LongDate(it.Date), it.Provider, id)
				break
			}
		}
		if !confirm(cmd, prompt) {
			fmt.Fprintln(cmd.OutOrStdout(), "İptal edildi.")
			return nil
		}
	}

	if err := s.tracker.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Silindi:", id)
	return nil
}

// confirm reads a yes/no answer; anything but e/evet/y/yes means no.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "e", "evet", "y", "yes":
		return true
	}
	return false
}
