// Package config loads the weblog command's settings from flags, environment
// variables, an optional YAML config file and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bitfield/weblog"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"
)

// Config holds everything needed for one analysis run.
type Config struct {
	File      string    `mapstructure:"file"`
	Exec      string    `mapstructure:"exec"`
	Encoding  string    `mapstructure:"encoding"`
	TopActive int       `mapstructure:"top_active"`
	TopRoutes int       `mapstructure:"top_routes"`
	Filter    string    `mapstructure:"filter"`
	By        string    `mapstructure:"by"`
	TopBy     int       `mapstructure:"top_by"`
	Output    string    `mapstructure:"output"`
	ChunkSize int       `mapstructure:"chunk_size"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings lists the environment variables read for each key, in order of
// preference. The unprefixed names are the ones earlier releases of the tool
// read from .env files.
var envBindings = map[string][]string{
	"file":       {"WEBLOG_FILE", "TEST_DATA_PATH"},
	"exec":       {"WEBLOG_EXEC"},
	"encoding":   {"WEBLOG_ENCODING", "FILE_ENCODING"},
	"top_active": {"WEBLOG_TOP_ACTIVE", "TOP_MOST_ACTIVE_IP"},
	"top_routes": {"WEBLOG_TOP_ROUTES", "TOP_MOST_VISITED_URLS"},
	"filter":     {"WEBLOG_FILTER"},
	"by":         {"WEBLOG_BY"},
	"top_by":     {"WEBLOG_TOP_BY"},
	"output":     {"WEBLOG_OUTPUT"},
	"chunk_size": {"WEBLOG_CHUNK_SIZE"},
	"log.level":  {"WEBLOG_LOG_LEVEL"},
	"log.format": {"WEBLOG_LOG_FORMAT"},
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Encoding:  "utf-8",
		TopActive: weblog.DefaultTop,
		TopRoutes: weblog.DefaultTop,
		TopBy:     weblog.DefaultTop,
		Output:    weblog.FormatTable,
		ChunkSize: weblog.DefaultChunkSize,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// New returns a viper instance carrying the defaults and environment
// bindings. Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("file", d.File)
	v.SetDefault("exec", d.Exec)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("top_active", d.TopActive)
	v.SetDefault("top_routes", d.TopRoutes)
	v.SetDefault("filter", d.Filter)
	v.SetDefault("by", d.By)
	v.SetDefault("top_by", d.TopBy)
	v.SetDefault("output", d.Output)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	for key, names := range envBindings {
		// BindEnv only fails when given no key.
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

// Load reads configFile, if not empty, into v and returns the resulting
// Config. Environment variable references in the input file path, such as
// $HOME, are expanded.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.File != "" {
		path, err := shell.Expand(cfg.File, nil)
		if err != nil {
			return Config{}, fmt.Errorf("expanding file path %q: %w", cfg.File, err)
		}
		cfg.File = path
	}
	return cfg, nil
}

// LoadEnvFile reads KEY=value pairs from a .env file at path and sets them in
// the process environment. Variables that are already set keep their values.
// A missing file is only an error if required is true.
func LoadEnvFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return err
	}
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the configuration describes a runnable analysis.
func (c Config) Validate() error {
	var errs []error
	switch {
	case c.File == "" && c.Exec == "":
		errs = append(errs, errors.New("no input: set a log file or a command to exec"))
	case c.File != "" && c.Exec != "":
		errs = append(errs, errors.New("a log file and a command to exec are mutually exclusive"))
	}
	if _, err := weblog.LookupEncoding(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if c.TopActive < 0 {
		errs = append(errs, fmt.Errorf("top_active must not be negative, got %d", c.TopActive))
	}
	if c.TopRoutes < 0 {
		errs = append(errs, fmt.Errorf("top_routes must not be negative, got %d", c.TopRoutes))
	}
	if c.TopBy < 0 {
		errs = append(errs, fmt.Errorf("top_by must not be negative, got %d", c.TopBy))
	}
	if c.By != "" && !weblog.IsField(c.By) {
		errs = append(errs, fmt.Errorf("unknown field %q, want one of %s", c.By, strings.Join(weblog.FieldNames, ", ")))
	}
	switch c.Output {
	case weblog.FormatTable, weblog.FormatJSON, weblog.FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q, want table, json or yaml", c.Output))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	return errors.Join(errs...)
}

// Options returns the ranking options the configuration describes.
func (c Config) Options() weblog.Options {
	return weblog.Options{
		TopActive: c.TopActive,
		TopRoutes: c.TopRoutes,
		By:        c.By,
		TopBy:     c.TopBy,
	}
}
