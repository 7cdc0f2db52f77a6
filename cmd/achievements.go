package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		unlockedOnly, _ := cmd.Flags().GetBool("unlocked")

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

		ctx := cmd.Context()
		user, err := newService(st, log).Profile(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		// Profile fills in missing rows and repairs legacy ones; keep them.
		if err := st.SaveAchievements(ctx, cfg.UserID, user.Achievements); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		shown := 0
		for _, a := range user.Achievements {
			if unlockedOnly && !a.Unlocked() {
				continue
			}
			status := fmt.Sprintf("%s %d/%d", textBar(a.Fraction(), 12), a.Progress, a.Target)
			if a.Unlocked() {
				status = "unlocked " + a.UnlockedAt.Format("Jan 02, 2006")
			}
			fmt.Fprintf(w, "%s  %-16s  %-40s  %s\n", a.Type.Icon(), a.Type.DisplayName(), a.Type.Description(), status)
			shown++
		}

		fmt.Fprintf(w, "\n%d of %d unlocked\n", user.UnlockedCount(), len(user.Achievements))
		if unlockedOnly && shown == 0 {
			fmt.Fprintln(w, "Keep practicing to earn your first one!")
		}
		return nil
	},
}

func init() {
	achievementsCmd.Flags().Bool("unlocked", false, "Only show unlocked achievements")
}
