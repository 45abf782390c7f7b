// Package config resolves where stampcard keeps its data and logs.
//
// Values come from, lowest precedence first: built-in defaults, the YAML file
// at ~/.stampcard/config.yaml, a .env file in the working directory, and the
// STAMPCARD_* environment variables. Command-line flags are applied on top by
// the cli package.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for stampcard state.
const DefaultConfigDir = ".stampcard"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Environment variables read by Load.
const (
	EnvDB      = "STAMPCARD_DB"
	EnvLogFile = "STAMPCARD_LOG_FILE"
	EnvAddr    = "STAMPCARD_ADDR"
)

// Built-in defaults.
const (
	DefaultDB   = "./stampcard.db"
	DefaultAddr = "127.0.0.1:8080"
)

// Config represents the contents of ~/.stampcard/config.yaml.
type Config struct {
	// DB is the SQLite database path.
	DB string `yaml:"db" validate:"required"`

	// Addr is the listen address for the serve command.
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	// LogFile, when set, adds a rotating file sink to the logger.
	LogFile string `yaml:"log_file,omitempty"`

	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB int `yaml:"log_max_size_mb,omitempty" validate:"gte=0"`

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups int `yaml:"log_max_backups,omitempty" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		DB:            DefaultDB,
		Addr:          DefaultAddr,
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
	}
}

// DefaultPath returns the full path to the config file in the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Options controls Load.
type Options struct {
	// Path is the config file to read. Empty means DefaultPath.
	Path string

	// Explicit makes a missing config file an error. It is set when the user
	// named the file with --config.
	Explicit bool

	// EnvFile is the dotenv file to read. Empty means ".env".
	EnvFile string
}

// Load resolves the configuration from defaults, the config file, the dotenv
// file and the environment, then validates it.
func Load(opts Options) (*Config, error) {
	cfg := Defaults()

	path := opts.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil && opts.Explicit {
			return nil, err
		}
		path = p
	}

	if path != "" {
		if err := mergeFile(cfg, path, opts.Explicit); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv.Load never overrides variables already in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string, explicit bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fileCfg Config
	if err := dec.Decode(&fileCfg); err != nil {
		// An empty file has nothing to override.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fileCfg.DB != "" {
		cfg.DB = fileCfg.DB
	}
	if fileCfg.Addr != "" {
		cfg.Addr = fileCfg.Addr
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = fileCfg.LogFile
	}
	if fileCfg.LogMaxSizeMB != 0 {
		cfg.LogMaxSizeMB = fileCfg.LogMaxSizeMB
	}
	if fileCfg.LogMaxBackups != 0 {
		cfg.LogMaxBackups = fileCfg.LogMaxBackups
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
}

// Validate checks the struct tags and reports the first failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("invalid config: %s failed %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
