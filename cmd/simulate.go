package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/drill"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run scripted practice sessions and show how difficulty adapts",
	Long: "Simulate drives the generator, metrics, session machine and engagement engine " +
		"with a scripted learner. Nothing is stored unless --persist is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		sessions, _ := flags.GetInt("sessions")
		accuracy, _ := flags.GetFloat64("accuracy")
		seed, _ := flags.GetUint64("seed")
		persist, _ := flags.GetBool("persist")
		level, _ := flags.GetString("difficulty")

		if sessions < 1 {
			return fmt.Errorf("--sessions must be at least 1")
		}
		if accuracy < 0 || accuracy > 1 {
			return fmt.Errorf("--accuracy must be within [0, 1]")
		}

		opts := simulate.DefaultOptions()
		opts.Sessions = sessions
		opts.Accuracy = accuracy
		opts.Seed = seed
		opts.Length = cfg.Session.Length
		opts.GapFill = cfg.Session.GapFill
		opts.Adaptive = cfg.Session.Adaptive
		cats, err := exercise.ParseCategories(cfg.Session.Categories)
		if err != nil {
			return err
		}
		opts.Categories = cats
		if level != "" {
			d, err := exercise.ParseDifficulty(level)
			if err != nil {
				return err
			}
			opts.Difficulty = &d
		}
		if flags.Changed("user") {
			opts.UserID = cfg.UserID
		}
		// The last simulated session lands today.
		today := time.Now()
		opts.Start = time.Date(today.Year(), today.Month(), today.Day(), 16, 0, 0, 0, time.Local).
			AddDate(0, 0, -(sessions - 1))

		log, err := cliLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		var backend drill.Backend = simulate.NewMemoryBackend(time.Now)
		if persist {
			st, err := openStore(log)
			if err != nil {
				return err
			}
			defer st.Close()
			backend = st
		}

		eng := simulate.Engines{
			Generator:  cfg.Generator(),
			Mastery:    cfg.Mastery(),
			Session:    cfg.SessionMachine(),
			Engagement: cfg.EngagementEngine(),
			Window:     cfg.HistoryWindow(),
		}
		reports, err := simulate.NewRunner(eng, backend, log).Run(cmd.Context(), opts)
		printReports(cmd.OutOrStdout(), reports)
		if err != nil {
			return fmt.Errorf("simulation stopped: %w", err)
		}
		if persist {
			fmt.Fprintf(cmd.OutOrStdout(), "\nStored %d sessions for %q\n", len(reports), opts.UserID)
		}
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.Int("sessions", 7, "Number of daily sessions to simulate")
	f.Float64("accuracy", 0.8, "Chance the learner answers an attempt correctly")
	f.Uint64("seed", 1, "Random seed")
	f.String("difficulty", "", "Starting level for every session (default from history)")
	f.Bool("persist", false, "Store the simulated sessions in the database")
}

func printReports(w io.Writer, reports []simulate.Report) {
	fmt.Fprintf(w, "%-3s  %-10s  %-24s  %7s  %5s  %6s  %4s  %s\n",
		"#", "Date", "Level", "Correct", "Stars", "Streak", "Weak", "Unlocked")
	fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, r := range reports {
		levels := []string{r.Start.DisplayName()}
		for _, c := range r.Trajectory {
			levels = append(levels, c.To.DisplayName())
		}
		var unlocked []string
		for _, t := range r.Unlocked {
			unlocked = append(unlocked, t.DisplayName())
		}
		fmt.Fprintf(w, "%-3d  %-10s  %-24s  %3d/%-3d  %5d  %6d  %4d  %s\n",
			r.Index, r.StartedAt.Format("Jan 02"), strings.Join(levels, " > "),
			r.Summary.Correct, r.Summary.TotalExercises, r.Summary.Stars,
			r.Streak, r.WeakPairs, strings.Join(unlocked, ", "))
	}
}
