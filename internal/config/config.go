// Package config loads babylog settings from defaults, an optional YAML file
// and BABYLOG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. BABYLOG_TRACKING_BIRTHDATE.
// Leaf fields use split_words rather than explicit envconfig names so an
// unprefixed variable such as PATH is never consulted.
const EnvPrefix = "BABYLOG"

// Config represents the complete application configuration
type Config struct {
	Tracking TrackingConfig `yaml:"tracking" envconfig:"TRACKING"`
	Store    StoreConfig    `yaml:"store" envconfig:"STORE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// TrackingConfig controls parsing and aggregation of tracker exports. The
// night window wraps midnight, so DayNightEndHour must be below
// DayNightStartHour.
type TrackingConfig struct {
	DayNightStartHour int           `yaml:"day_night_start_hour" split_words:"true" validate:"min=0,max=23"`
	DayNightEndHour   int           `yaml:"day_night_end_hour" split_words:"true" validate:"min=0,max=23,ltfield=DayNightStartHour"`
	DateFormat        string        `yaml:"date_format" split_words:"true" validate:"required"`
	DateOnlyFormat    string        `yaml:"date_only_format" split_words:"true" validate:"required"`
	Birthdate         string        `yaml:"birthdate" split_words:"true" validate:"omitempty,birthdate"`
	FeedSessionGap    time.Duration `yaml:"feed_session_gap" split_words:"true" validate:"gte=0"`
	LongestN          int           `yaml:"longest_n" split_words:"true" validate:"min=0,max=10"`
	TimelineDays      int           `yaml:"timeline_days" split_words:"true" validate:"min=1,max=366"`
	PercentilesFile   string        `yaml:"percentiles_file" split_words:"true" validate:"omitempty,file"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" split_words:"true" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Tracking: TrackingConfig{
			DayNightStartHour: 18,
			DayNightEndHour:   6,
			DateFormat:        "2006-01-02 15:04",
			DateOnlyFormat:    time.DateOnly,
			FeedSessionGap:    15 * time.Minute,
			LongestN:          2,
			TimelineDays:      7,
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Output:   "console",
			FilePath: "logs/babylog.log",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load builds the configuration. file names a YAML file; when empty,
// $BABYLOG_CONFIG and then babylog.yaml in the working directory are tried.
func Load(file string) (*Config, error) {
	cfg := Default()

	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		if err := loadFromFile(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file on cfg. Keys absent from the file keep
// their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func findConfigFile() string {
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("babylog.yaml"); err == nil {
		return "babylog.yaml"
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("birthdate", isBirthdate)
	return v
}

func isBirthdate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

// DBPath returns the configured database path, or ~/.babylog/babylog.db.
func (c *Config) DBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".babylog", "babylog.db")
}
