package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/substate/internal/errors"
	"github.com/vango-dev/substate/pkg/reactive"
)

const (
	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "substate"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "warn"

	// DefaultLogFormat is the log format used when none is configured.
	DefaultLogFormat = "text"

	// DefaultMode is the host mode replay scripts run in.
	DefaultMode = "headless"
)

// Flag names. They double as viper keys.
const (
	FlagConfig         = "config"
	FlagLogLevel       = "log-level"
	FlagLogFormat      = "log-format"
	FlagMode           = "mode"
	FlagMetrics        = "metrics"
	FlagFanOut         = "fan-out"
	FlagMaxFlushPasses = "max-flush-passes"
)

// Config is the resolved CLI configuration.
type Config struct {
	// LogLevel is the minimum level of emitted log records.
	LogLevel slog.Level

	// LogFormat is "text" or "json".
	LogFormat string

	// Mode decides when layout effects run.
	Mode reactive.Mode

	// Metrics prints the engine's metrics after a replay.
	Metrics bool

	// FanOut delivers key-level updates to whole-store consumers too.
	FanOut bool

	// MaxFlushPasses bounds re-render rounds per flush.
	MaxFlushPasses int

	// File is the config file that was read, if any.
	File string
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       slog.LevelWarn,
		LogFormat:      DefaultLogFormat,
		Mode:           reactive.Headless,
		MaxFlushPasses: reactive.DefaultMaxFlushPasses,
	}
}

// BindFlags registers the configuration flags on cmd as persistent flags so
// subcommands inherit them.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(FlagConfig, "", "Optional config file (yaml, json or toml)")
	flags.String(FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String(FlagLogFormat, DefaultLogFormat, "Log format: text or json")
	flags.String(FlagMode, DefaultMode, "Host mode: headless runs layout effects after each render, visual defers them to paint steps")
	flags.Bool(FlagMetrics, false, "Print the engine metrics after the run")
	flags.Bool(FlagFanOut, false, "Deliver key-level updates to whole-store consumers")
	flags.Int(FlagMaxFlushPasses, reactive.DefaultMaxFlushPasses, "Maximum re-render passes per flush")
}

// Load resolves the configuration for cmd. Environment files are looked up
// in dir; an empty dir means the working directory.
func Load(cmd *cobra.Command, dir string) (*Config, error) {
	LoadEnvFiles(dir)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if file := v.GetString(FlagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("C001").
				Wrap(err).
				WithSuggestion(fmt.Sprintf("check that %s exists and is valid yaml, json or toml", file))
		}
		cfg.File = file
	}

	if err := cfg.apply(v); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads .env.local and .env from dir into the process
// environment. Variables that are already set are left alone, so .env.local
// wins over .env and the real environment wins over both.
func LoadEnvFiles(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func (c *Config) apply(v *viper.Viper) error {
	level, err := ParseLevel(v.GetString(FlagLogLevel))
	if err != nil {
		return err
	}
	c.LogLevel = level

	format := strings.ToLower(v.GetString(FlagLogFormat))
	switch format {
	case "text", "json":
		c.LogFormat = format
	default:
		return invalid(FlagLogFormat, format, "use text or json")
	}

	mode := strings.ToLower(v.GetString(FlagMode))
	switch mode {
	case "headless":
		c.Mode = reactive.Headless
	case "visual":
		c.Mode = reactive.Visual
	default:
		return invalid(FlagMode, mode, "use headless or visual")
	}

	c.Metrics = v.GetBool(FlagMetrics)
	c.FanOut = v.GetBool(FlagFanOut)

	c.MaxFlushPasses = v.GetInt(FlagMaxFlushPasses)
	if c.MaxFlushPasses <= 0 {
		return invalid(FlagMaxFlushPasses, v.GetString(FlagMaxFlushPasses), "use a positive number")
	}
	return nil
}

// ParseLevel parses a slog level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, invalid(FlagLogLevel, s, "use debug, info, warn or error")
	}
	return level, nil
}

func invalid(flag, value, hint string) error {
	return errors.New("C001").
		WithDetail(fmt.Sprintf("%q is not a valid value for --%s.", value, flag)).
		WithSuggestion(fmt.Sprintf("%s (flag --%s or env %s)", hint, flag, EnvName(flag)))
}

// EnvName returns the environment variable that configures flag.
func EnvName(flag string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(flag, "-", "_"))
}

// Logger builds a logger writing to w in the configured format and level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
