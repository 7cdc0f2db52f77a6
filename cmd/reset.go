package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all history, streaks and achievements for %q? [y/N] ", cfg.UserID)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		log, err := cliLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Reset(cmd.Context(), cfg.UserID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %q\n", cfg.UserID)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
