package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "VOCABDRILL_"

// Flag names that select where configuration is read from
const (
	ConfigFlag  = "config"
	EnvFileFlag = "env-file"
)

// Config represents the configuration of the application
type Config struct {
	// Database driver, sqlite3 or postgres
	DBDriver string `koanf:"db-driver" validate:"required,oneof=sqlite3 postgres"`
	// Data source name passed to the driver
	DBDSN string `koanf:"db-dsn" validate:"required"`
	// Spreadsheet holding the cards, xlsx or csv
	CardsFile string `koanf:"cards-file"`
	// Sheet of the workbook, first sheet when empty
	CardsSheet string `koanf:"cards-sheet"`
	// Time the answer stays visible before the next card
	AdvanceDelay time.Duration `koanf:"advance-delay" validate:"gt=0"`
	LogLevel     string        `koanf:"log-level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DBDriver:     "sqlite3",
		DBDSN:        "data/vocabdrill.db",
		CardsFile:    "cards.xlsx",
		AdvanceDelay: 5 * time.Second,
		LogLevel:     "info",
	}
}

var validate = validator.New()

// RegisterFlags adds the configuration flags to flags, using the defaults as flag defaults
func RegisterFlags(flags *pflag.FlagSet) {
	def := DefaultConfig()
	flags.String(ConfigFlag, "", "YAML configuration file")
	flags.String(EnvFileFlag, ".env", "file of environment variables loaded before reading the environment")
	flags.String("db-driver", def.DBDriver, "database driver (sqlite3 or postgres)")
	flags.String("db-dsn", def.DBDSN, "database data source name")
	flags.String("cards-file", def.CardsFile, "xlsx or csv file holding the cards")
	flags.String("cards-sheet", def.CardsSheet, "sheet of the workbook, first sheet when empty")
	flags.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.Duration("advance-delay", def.AdvanceDelay, "time the answer is shown before the next card")
}

// Load builds the configuration from, in increasing priority: defaults,
// the YAML file named by --config, VOCABDRILL_* environment variables
// (a .env file is loaded first) and command line flags.
func Load(flags *pflag.FlagSet) (Config, error) {
	envFile := ".env"
	if f := flags.Lookup(EnvFileFlag); f != nil && f.Value.String() != "" {
		envFile = f.Value.String()
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	k := koanf.New(".")

	if f := flags.Lookup(ConfigFlag); f != nil && f.Value.String() != "" {
		if err := k.Load(file.Provider(f.Value.String()), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps VOCABDRILL_DB_DSN to db-dsn
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Level returns the slog level of LogLevel
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
