// Package config loads the server configuration: a YAML file over built-in
// defaults, then environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Addr            string `yaml:"addr" validate:"required"`
	DBPath          string `yaml:"db_path" validate:"required"`
	Source          string `yaml:"source" validate:"required"`
	SourceEncoding  string `yaml:"source_encoding"`
	SourceDelimiter string `yaml:"source_delimiter" validate:"omitempty,len=1"`
	SearchLimit     int    `yaml:"search_limit" validate:"min=1,max=100"`
	LogLevel        string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":5000",
		DBPath:          "dpr_data.db",
		Source:          "dpr_data_clean.csv",
		SourceEncoding:  "utf-8",
		SourceDelimiter: ",",
		SearchLimit:     25,
		LogLevel:        "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an
// error. Environment variables PORT, DPR_DB_PATH, DPR_SOURCE and DPR_LOG_LEVEL
// override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Addr = ":" + v
		} else {
			cfg.Addr = v
		}
	}
	if v := getenv("DPR_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("DPR_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := getenv("DPR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report yaml key names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks cfg and names every invalid key.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
