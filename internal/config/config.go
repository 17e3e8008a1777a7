// Package config loads application configuration from the environment and an
// optional YAML file. Environment variables take precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/output"`
}

// AnalysisConfig contains the analysis engine configuration.
type AnalysisConfig struct {
	// AcademicYearStart is the starting calendar year of the current
	// academic year, e.g. 2023 for 2023-2024. Zero means "derive from the
	// wall clock at load time"; the engine itself never consults the clock.
	AcademicYearStart int `yaml:"academic_year_start" envconfig:"ACADEMIC_YEAR_START" default:"0"`
}

// Load loads configuration from a .env file (if present), environment
// variables and an optional YAML config file.
func Load() (*Config, error) {
	// Not an error when absent; env vars may come from the real environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("MDA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays file values on the env-derived config. The env side
// carries envconfig defaults for every unset variable, so a file value wins
// unless its variable was explicitly set in the environment.
func mergeConfigs(file, env Config) Config {
	merged := env
	if file.Server.Port != 0 && !envSet("MDA_SERVER_PORT") {
		merged.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 && !envSet("MDA_SERVER_READ_TIMEOUT") {
		merged.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 && !envSet("MDA_SERVER_WRITE_TIMEOUT") {
		merged.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 && !envSet("MDA_SERVER_IDLE_TIMEOUT") {
		merged.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 && !envSet("MDA_SERVER_SHUTDOWN_TIMEOUT") {
		merged.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Logging.Level != "" && !envSet("MDA_LOGGING_LEVEL") {
		merged.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" && !envSet("MDA_LOGGING_OUTPUT") {
		merged.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" && !envSet("MDA_LOGGING_FILE_PATH") {
		merged.Logging.FilePath = file.Logging.FilePath
	}
	if file.Paths.ReportsDir != "" && !envSet("MDA_PATHS_REPORTS_DIR") {
		merged.Paths.ReportsDir = file.Paths.ReportsDir
	}
	if file.Paths.OutputDir != "" && !envSet("MDA_PATHS_OUTPUT_DIR") {
		merged.Paths.OutputDir = file.Paths.OutputDir
	}
	if file.Analysis.AcademicYearStart != 0 && !envSet("MDA_ANALYSIS_ACADEMIC_YEAR_START") {
		merged.Analysis.AcademicYearStart = file.Analysis.AcademicYearStart
	}
	return merged
}

// envSet reports whether the variable is present in the environment,
// including via a loaded .env file. envconfig cannot distinguish a variable
// it defaulted from one the user set, so the merge checks the environment
// directly.
func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if path := os.Getenv("MDA_CONFIG_FILE"); path != "" {
		return path
	}
	return filepath.Join(".", "config.yaml")
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Paths.ReportsDir == "" {
		return fmt.Errorf("reports directory must not be empty")
	}
	return nil
}

// AcademicYearStart resolves the configured academic year, falling back to
// the one containing now when unset.
func (c *Config) AcademicYearStart(now time.Time) int {
	if c.Analysis.AcademicYearStart != 0 {
		return c.Analysis.AcademicYearStart
	}
	year := now.Year()
	if now.Month() < time.September {
		year--
	}
	return year
}
