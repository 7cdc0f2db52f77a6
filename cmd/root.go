package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/drill"
	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/logger"
	"github.com/abhisek/mathdrill/internal/store"
)

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mathdrill",
	Short: "Adaptive arithmetic practice",
	Long: "Mathdrill - terminal arithmetic practice that adapts ten-exercise sessions to the " +
		"learner's history, with stars, daily streaks and achievements.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./mathdrill.yaml)")
	pf.String("env-file", "", "Path to a .env file (default ./.env when present)")
	pf.String("db", "", "Path to SQLite database file (overrides MATHDRILL_DB_PATH)")
	pf.String("user", "", "Learner profile to use (overrides MATHDRILL_USER_ID)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads files and environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	c, err := config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		c.UserID = u
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		c.LogLevel = l
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c
	return nil
}

// resolveDBPath returns the configured database path, falling back to
// the default XDG location.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(log *zap.Logger) (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newService wires the drill service over backend from the loaded config.
func newService(backend drill.Backend, log *zap.Logger) *drill.Service {
	engine := engagement.NewEngine(cfg.EngagementEngine(), engagement.WithLogger(log))
	return drill.NewService(backend, cfg.Mastery(), cfg.HistoryWindow(), engine, log)
}

// cliLogger builds the logger for non-interactive commands.
func cliLogger() (*zap.Logger, error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}
