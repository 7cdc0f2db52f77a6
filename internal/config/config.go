package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// EnvPrefix prefixes every environment variable, e.g. MATHDRILL_DB_PATH.
const EnvPrefix = "MATHDRILL"

// AutoDifficulty starts the session at the level suggested by history.
const AutoDifficulty = "auto"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env        string           `mapstructure:"env"`       // local, production
	DBPath     string           `mapstructure:"db_path"`   // empty means store.DefaultDBPath
	LogLevel   string           `mapstructure:"log_level"` // debug, info, warn, error
	LogFile    string           `mapstructure:"log_file"`  // where the TUI writes logs, if anywhere
	UserID     string           `mapstructure:"user_id"`   // learner profile
	Session    SessionConfig    `mapstructure:"session"`
	History    HistoryConfig    `mapstructure:"history"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Engagement EngagementConfig `mapstructure:"engagement"`
}

// SessionConfig holds per-session settings.
type SessionConfig struct {
	Length     int      `mapstructure:"length"`
	Categories []string `mapstructure:"categories"` // empty means all
	Adaptive   bool     `mapstructure:"adaptive"`
	GapFill    bool     `mapstructure:"gap_fill"`
	Difficulty string   `mapstructure:"difficulty"` // a level name or "auto"
}

// HistoryConfig bounds the lookback used for mastery metrics.
type HistoryConfig struct {
	WindowSize int `mapstructure:"window_size"`
	WindowDays int `mapstructure:"window_days"`
}

// EngineConfig holds the generator, metrics and session tuning.
type EngineConfig struct {
	RetryProbability      float64       `mapstructure:"retry_probability"`
	GapFillProbability    float64       `mapstructure:"gap_fill_probability"`
	MaxSynthesisAttempts  int           `mapstructure:"max_synthesis_attempts"`
	SlowThreshold         time.Duration `mapstructure:"slow_threshold"`
	FastThreshold         time.Duration `mapstructure:"fast_threshold"`
	LowAccuracyThreshold  float64       `mapstructure:"low_accuracy_threshold"`
	WeakAccuracyThreshold float64       `mapstructure:"weak_accuracy_threshold"`
	MaxAttempts           int           `mapstructure:"max_attempts"`
	MaxAnswerDigits       int           `mapstructure:"max_answer_digits"`
	ElapsedCap            time.Duration `mapstructure:"elapsed_cap"`
	AdaptiveInterval      int           `mapstructure:"adaptive_interval"`
	FrustrationWindow     int           `mapstructure:"frustration_window"`
	FrustrationThreshold  float64       `mapstructure:"frustration_threshold"`
	AdaptiveWindow        int           `mapstructure:"adaptive_window"`
}

// EngagementConfig holds the session-based achievement thresholds.
type EngagementConfig struct {
	SpeedDemonMinResults  int           `mapstructure:"speed_demon_min_results"`
	SpeedDemonMaxDuration time.Duration `mapstructure:"speed_demon_max_duration"`
	EarlyBirdHour         int           `mapstructure:"early_bird_hour"`
	NightOwlHour          int           `mapstructure:"night_owl_hour"`
	PerfectMinExercises   int           `mapstructure:"perfect_min_exercises"`
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigFile is an explicit YAML file. Empty searches ./mathdrill.yaml
	// and $XDG_CONFIG_HOME/mathdrill/config.yaml.
	ConfigFile string

	// EnvFile is a dotenv file loaded into the environment. Empty tries
	// ./.env; a missing file is not an error.
	EnvFile string
}

// Load reads configuration from defaults, a YAML file, a .env file and
// MATHDRILL_* environment variables, in increasing priority.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadDotenv(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // session.length -> MATHDRILL_SESSION_LENGTH
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("mathdrill")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "mathdrill"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error loading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, os.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func setDefaults(v *viper.Viper) {
	gen := problemgen.DefaultConfig()
	sess := session.DefaultConfig()
	eng := engagement.DefaultConfig()

	v.SetDefault("env", "local")
	v.SetDefault("db_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("user_id", "default")

	v.SetDefault("session.length", session.DefaultSessionLength)
	v.SetDefault("session.categories", []string{})
	v.SetDefault("session.adaptive", true)
	v.SetDefault("session.gap_fill", true)
	v.SetDefault("session.difficulty", AutoDifficulty)

	v.SetDefault("history.window_size", store.DefaultWindow.Size)
	v.SetDefault("history.window_days", store.DefaultWindow.Days)

	v.SetDefault("engine.retry_probability", gen.RetryProbability)
	v.SetDefault("engine.gap_fill_probability", gen.GapFillProbability)
	v.SetDefault("engine.max_synthesis_attempts", gen.MaxSynthesisAttempts)
	v.SetDefault("engine.slow_threshold", gen.SlowThreshold)
	v.SetDefault("engine.fast_threshold", gen.FastThreshold)
	v.SetDefault("engine.low_accuracy_threshold", gen.LowAccuracyThreshold)
	v.SetDefault("engine.weak_accuracy_threshold", mastery.DefaultWeakAccuracyThreshold)
	v.SetDefault("engine.max_attempts", sess.MaxAttempts)
	v.SetDefault("engine.max_answer_digits", sess.MaxAnswerDigits)
	v.SetDefault("engine.elapsed_cap", sess.ElapsedCap)
	v.SetDefault("engine.adaptive_interval", sess.AdaptiveInterval)
	v.SetDefault("engine.frustration_window", sess.FrustrationWindow)
	v.SetDefault("engine.frustration_threshold", sess.FrustrationThreshold)
	v.SetDefault("engine.adaptive_window", sess.AdaptiveWindow)

	v.SetDefault("engagement.speed_demon_min_results", eng.SpeedDemonMinResults)
	v.SetDefault("engagement.speed_demon_max_duration", eng.SpeedDemonMaxDuration)
	v.SetDefault("engagement.early_bird_hour", eng.EarlyBirdHour)
	v.SetDefault("engagement.night_owl_hour", eng.NightOwlHour)
	v.SetDefault("engagement.perfect_min_exercises", eng.PerfectMinExercises)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	prob := func(name string, p float64) {
		check(p >= 0 && p <= 1, "%s must be within [0, 1], got %v", name, p)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	check(c.UserID != "", "user_id must not be empty")

	check(c.Session.Length >= 1 && c.Session.Length <= 100, "session.length must be within [1, 100], got %d", c.Session.Length)
	if _, err := exercise.ParseCategories(c.Session.Categories); err != nil {
		errs = append(errs, fmt.Errorf("session.categories: %w", err))
	}
	if !strings.EqualFold(c.Session.Difficulty, AutoDifficulty) {
		if _, err := exercise.ParseDifficulty(c.Session.Difficulty); err != nil {
			errs = append(errs, fmt.Errorf("session.difficulty: %w", err))
		}
	}

	check(c.History.WindowSize >= 0, "history.window_size must not be negative")
	check(c.History.WindowDays >= 0, "history.window_days must not be negative")

	e := c.Engine
	prob("engine.retry_probability", e.RetryProbability)
	prob("engine.gap_fill_probability", e.GapFillProbability)
	prob("engine.low_accuracy_threshold", e.LowAccuracyThreshold)
	prob("engine.weak_accuracy_threshold", e.WeakAccuracyThreshold)
	prob("engine.frustration_threshold", e.FrustrationThreshold)
	check(e.MaxSynthesisAttempts >= 1, "engine.max_synthesis_attempts must be at least 1")
	check(e.FastThreshold > 0 && e.FastThreshold <= e.SlowThreshold,
		"engine.fast_threshold must be positive and not above engine.slow_threshold")
	check(e.MaxAttempts >= 1, "engine.max_attempts must be at least 1")
	check(e.MaxAnswerDigits >= 1 && e.MaxAnswerDigits <= 6, "engine.max_answer_digits must be within [1, 6]")
	check(e.ElapsedCap > 0, "engine.elapsed_cap must be positive")
	check(e.AdaptiveInterval >= 1, "engine.adaptive_interval must be at least 1")
	check(e.FrustrationWindow >= 1, "engine.frustration_window must be at least 1")
	check(e.AdaptiveWindow >= 1, "engine.adaptive_window must be at least 1")

	g := c.Engagement
	check(g.SpeedDemonMinResults >= 1, "engagement.speed_demon_min_results must be at least 1")
	check(g.SpeedDemonMaxDuration > 0, "engagement.speed_demon_max_duration must be positive")
	check(g.EarlyBirdHour >= 0 && g.EarlyBirdHour <= 24, "engagement.early_bird_hour must be within [0, 24]")
	check(g.NightOwlHour >= 0 && g.NightOwlHour <= 24, "engagement.night_owl_hour must be within [0, 24]")
	check(g.PerfectMinExercises >= 1, "engagement.perfect_min_exercises must be at least 1")

	return errors.Join(errs...)
}

// Generator returns the exercise generator configuration.
func (c *Config) Generator() problemgen.Config {
	g := problemgen.DefaultConfig()
	g.RetryProbability = c.Engine.RetryProbability
	g.GapFillProbability = c.Engine.GapFillProbability
	g.MaxSynthesisAttempts = c.Engine.MaxSynthesisAttempts
	g.SlowThreshold = c.Engine.SlowThreshold
	g.FastThreshold = c.Engine.FastThreshold
	g.LowAccuracyThreshold = c.Engine.LowAccuracyThreshold
	return g
}

// Mastery returns the metrics engine configuration.
func (c *Config) Mastery() mastery.Config {
	return mastery.Config{WeakAccuracyThreshold: c.Engine.WeakAccuracyThreshold}
}

// SessionMachine returns the session state machine configuration.
func (c *Config) SessionMachine() session.Config {
	return session.Config{
		MaxAttempts:          c.Engine.MaxAttempts,
		MaxAnswerDigits:      c.Engine.MaxAnswerDigits,
		ElapsedCap:           c.Engine.ElapsedCap,
		AdaptiveInterval:     c.Engine.AdaptiveInterval,
		FrustrationWindow:    c.Engine.FrustrationWindow,
		FrustrationThreshold: c.Engine.FrustrationThreshold,
		AdaptiveWindow:       c.Engine.AdaptiveWindow,
	}
}

// EngagementEngine returns the engagement engine configuration.
func (c *Config) EngagementEngine() engagement.Config {
	return engagement.Config{
		SpeedDemonMinResults:  c.Engagement.SpeedDemonMinResults,
		SpeedDemonMaxDuration: c.Engagement.SpeedDemonMaxDuration,
		EarlyBirdHour:         c.Engagement.EarlyBirdHour,
		NightOwlHour:          c.Engagement.NightOwlHour,
		PerfectMinExercises:   c.Engagement.PerfectMinExercises,
	}
}

// HistoryWindow returns the lookback for mastery metrics.
func (c *Config) HistoryWindow() store.Window {
	return store.Window{Size: c.History.WindowSize, Days: c.History.WindowDays}
}

// SessionSettings builds the settings for a new session. With the "auto"
// difficulty the starting level comes from m.
func (c *Config) SessionSettings(m *mastery.Metrics) (session.Settings, error) {
	cats, err := exercise.ParseCategories(c.Session.Categories)
	if err != nil {
		return session.Settings{}, fmt.Errorf("session.categories: %w", err)
	}

	diff := problemgen.StartingDifficulty(m)
	if !strings.EqualFold(c.Session.Difficulty, AutoDifficulty) {
		if diff, err = exercise.ParseDifficulty(c.Session.Difficulty); err != nil {
			return session.Settings{}, fmt.Errorf("session.difficulty: %w", err)
		}
	}

	return session.Settings{
		Length:       c.Session.Length,
		Difficulty:   diff,
		Categories:   cats,
		Metrics:      m,
		AllowGapFill: c.Session.GapFill,
		Adaptive:     c.Session.Adaptive,
	}, nil
}
