// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for handyhire.
type Config struct {
	APIURL            string        `mapstructure:"api_url" yaml:"api_url"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	DataDir           string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile           string        `mapstructure:"log_file" yaml:"log_file"`
	RatingConcurrency int           `mapstructure:"rating_concurrency" yaml:"rating_concurrency"`
	RatingRPS         float64       `mapstructure:"rating_rps" yaml:"rating_rps"`
	ReceiptDir        string        `mapstructure:"receipt_dir" yaml:"receipt_dir"`
	Exam              ExamConfig    `mapstructure:"exam" yaml:"exam"`
}

// ExamConfig tunes the provider registration assessment.
type ExamConfig struct {
	PassThreshold int `mapstructure:"pass_threshold" yaml:"pass_threshold"`
}

// Default returns the configuration used when no file or env override exists.
func Default() *Config {
	return &Config{
		APIURL:            "http://localhost:4000/api/",
		Timeout:           30 * time.Second,
		DataDir:           DefaultDataDir(),
		LogLevel:          "info",
		RatingConcurrency: 4,
		RatingRPS:         10,
		Exam:              ExamConfig{PassThreshold: 1},
	}
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"api_url":             "HANDYHIRE_API_URL",
	"timeout":             "HANDYHIRE_TIMEOUT",
	"data_dir":            "HANDYHIRE_DATA_DIR",
	"log_level":           "HANDYHIRE_LOG_LEVEL",
	"log_file":            "HANDYHIRE_LOG_FILE",
	"rating_concurrency":  "HANDYHIRE_RATING_CONCURRENCY",
	"rating_rps":          "HANDYHIRE_RATING_RPS",
	"receipt_dir":         "HANDYHIRE_RECEIPT_DIR",
	"exam.pass_threshold": "HANDYHIRE_EXAM_PASS_THRESHOLD",
}

// Load loads configuration with full precedence:
// ENV vars (.env included) > project config > XDG global config > defaults
func Load() (*Config, error) {
	// A missing .env is the common case; existing env vars are never overridden.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("handyhire")

	d := Default()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("rating_concurrency", d.RatingConcurrency)
	v.SetDefault("rating_rps", d.RatingRPS)
	v.SetDefault("receipt_dir", "")
	v.SetDefault("exam.pass_threshold", d.Exam.PassThreshold)

	v.SetEnvPrefix("HANDYHIRE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that would make the client unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RatingConcurrency < 1 {
		return fmt.Errorf("rating_concurrency must be >= 1, got %d", c.RatingConcurrency)
	}
	if c.RatingRPS <= 0 {
		return fmt.Errorf("rating_rps must be positive, got %v", c.RatingRPS)
	}
	if c.Exam.PassThreshold < 0 {
		return fmt.Errorf("exam.pass_threshold must be >= 0, got %d", c.Exam.PassThreshold)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/handyhire/handyhire.yml or $XDG_CONFIG_HOME/handyhire/handyhire.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "handyhire", "handyhire.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "handyhire", "handyhire.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./handyhire.yml in the current working directory.
func ProjectPath() string {
	return "handyhire.yml"
}

// DefaultDataDir returns the XDG data directory for the local store.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "handyhire")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "handyhire")
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
