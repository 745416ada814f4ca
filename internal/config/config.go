package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SearchConfig tunes the genetic algorithm and the random baseline
type SearchConfig struct {
	PopulationSize int     `yaml:"populationSize" validate:"min=2"`
	MaxGenerations int     `yaml:"maxGenerations" validate:"min=1"`
	CrossoverRate  float64 `yaml:"crossoverRate" validate:"min=0,max=1"`
	MutationRate   float64 `yaml:"mutationRate" validate:"min=0,max=1"`
	EliteCount     int     `yaml:"eliteCount" validate:"min=0"`
	TournamentSize int     `yaml:"tournamentSize" validate:"min=1"`
	Seed           int64   `yaml:"seed,omitempty"`
	TimeLimit      string  `yaml:"timeLimit,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Search      SearchConfig `yaml:"search"`
	OutputDir   string       `yaml:"outputDir,omitempty"`
	DatabaseURL string       `yaml:"databaseURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			PopulationSize: 50,
			MaxGenerations: 200,
			CrossoverRate:  0.9,
			MutationRate:   0.05,
			EliteCount:     2,
			TournamentSize: 3,
		},
		OutputDir: ".",
	}
}

// Load loads and validates the configuration from timetabler_config.yaml.
// It looks for the config file in the current directory first, then in
// the user's home directory, and falls back to defaults when neither
// exists.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks the time limit syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Search.EliteCount >= cfg.Search.PopulationSize {
		return fmt.Errorf("eliteCount %d must be below populationSize %d", cfg.Search.EliteCount, cfg.Search.PopulationSize)
	}
	if _, err := cfg.Search.TimeLimitDuration(); err != nil {
		return err
	}

	return nil
}

// TimeLimitDuration parses the configured time limit; empty means unlimited.
func (s SearchConfig) TimeLimitDuration() (time.Duration, error) {
	if s.TimeLimit == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TimeLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid timeLimit %q: %w", s.TimeLimit, err)
	}
	return d, nil
}

// findConfigFile searches for timetabler_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "timetabler_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
