package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/logger"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip-intro")
		return runApp(cmd, skip)
	},
}

func init() {
	playCmd.Flags().Bool("skip-intro", false, "Go straight to the home screen")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, skipIntro bool) error {
	log, err := logger.NewInteractive(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st, err := openStore(log)
	if err != nil {
		return err
	}
	defer st.Close()

	return app.Run(cmd.Context(), app.Deps{
		Config:    cfg,
		Drill:     newService(st, log),
		History:   st,
		Log:       log,
		SkipIntro: skipIntro,
	})
}
