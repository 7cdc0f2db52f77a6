package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/store"
)

// maxWeakShown caps the weak pairs listed per category.
const maxWeakShown = 5

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("sessions")

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
		svc := newService(st, log)

		user, err := svc.Profile(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		metrics, err := svc.Metrics(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("compute metrics: %w", err)
		}
		daily, err := st.DailyHistory(ctx, cfg.UserID, days)
		if err != nil {
			return err
		}
		recent, err := st.RecentSessions(ctx, cfg.UserID, limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		printProfile(w, user)
		printMastery(w, metrics)
		printDaily(w, daily, days)
		printSessions(w, recent)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("days", 7, "Number of days of daily activity to show")
	statsCmd.Flags().Int("sessions", 5, "Number of recent sessions to show")
}

func printProfile(w io.Writer, u engagement.UserStats) {
	fmt.Fprintf(w, "Learner: %s\n\n", u.ID)
	fmt.Fprintf(w, "  Exercises     %d (%d correct)\n", u.TotalExercises, u.TotalCorrect)
	fmt.Fprintf(w, "  Sessions      %d\n", u.TotalSessions)
	fmt.Fprintf(w, "  Stars         %d\n", u.TotalStars)
	fmt.Fprintf(w, "  Streak        %d days (longest %d, next milestone %d)\n",
		u.CurrentStreak, u.LongestStreak, engagement.NextStreakMilestone(u.CurrentStreak))
	fmt.Fprintf(w, "  Achievements  %d of %d\n\n", u.UnlockedCount(), len(engagement.AllAchievementTypes()))
}

func printMastery(w io.Writer, m *mastery.Metrics) {
	fmt.Fprintln(w, "Mastery")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if m.IsEmpty() {
		fmt.Fprintln(w, "  No history yet. Play a session first.")
		fmt.Fprintln(w)
		return
	}

	for _, c := range exercise.AllCategories() {
		acc, ok := m.Accuracy(c)
		if !ok {
			fmt.Fprintf(w, "  %-22s  %s\n", c.DisplayName(), "-")
			continue
		}
		fmt.Fprintf(w, "  %-22s  %s %4.0f%%  %s\n", c.DisplayName(), textBar(acc, 10), acc*100, mastery.LabelFor(acc))

		weak := m.WeakPool(c)
		if len(weak) == 0 {
			continue
		}
		shown := make([]string, 0, maxWeakShown)
		for i, p := range weak {
			if i == maxWeakShown {
				shown = append(shown, fmt.Sprintf("+%d more", len(weak)-maxWeakShown))
				break
			}
			shown = append(shown, fmt.Sprintf("%d %s %d", p.First, c.Operation().Symbol(), p.Second))
		}
		fmt.Fprintf(w, "  %-22s  weak: %s\n", "", strings.Join(shown, ", "))
	}
	fmt.Fprintln(w)
}

func printDaily(w io.Writer, daily []engagement.DailyAggregate, days int) {
	fmt.Fprintf(w, "Last %d days\n", days)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(daily) == 0 {
		fmt.Fprintln(w, "  No activity.")
		fmt.Fprintln(w)
		return
	}
	for _, d := range daily {
		fmt.Fprintf(w, "  %s  %3d exercises  %4.0f%%  %d sessions  %s\n",
			d.Date.Format("Mon Jan 02"), d.Exercises, d.Accuracy()*100, d.Sessions, d.TotalTime.Round(time.Second))
	}
	fmt.Fprintln(w)
}

func printSessions(w io.Writer, rows []store.SessionRow) {
	fmt.Fprintln(w, "Recent sessions")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(rows) == 0 {
		fmt.Fprintln(w, "  None yet.")
		return
	}
	for _, r := range rows {
		level := r.StartDifficulty.DisplayName()
		if r.EndDifficulty != r.StartDifficulty {
			level += " > " + r.EndDifficulty.DisplayName()
		}
		fmt.Fprintf(w, "  %s  %2d/%-2d correct  %3d stars  %s\n",
			r.StartedAt.Format("Jan 02 15:04"), r.Correct, r.Total, r.Stars, level)
	}
}

// textBar draws a plain-text bar for fraction in [0, 1].
func textBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
