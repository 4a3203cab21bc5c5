package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/formatter"
	"github.com/mcncl/typedjson/internal/schema"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for typedjson
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Describe DescribeConfig `yaml:"describe"`
	Dev      DevConfig      `yaml:"dev"`
}

// OutputConfig controls how serialized documents are laid out
type OutputConfig struct {
	Indent          string `yaml:"indent"`
	TrailingNewline bool   `yaml:"trailing_newline"`
}

// DescribeConfig controls the column report
type DescribeConfig struct {
	Flatten       bool   `yaml:"flatten"`
	ClobThreshold int    `yaml:"clob_threshold"`
	BlobThreshold int    `yaml:"blob_threshold"`
	Format        string `yaml:"format"`
	ColumnCase    string `yaml:"column_case"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Indent:          "",
			TrailingNewline: true,
		},
		Describe: DescribeConfig{
			Flatten:       false,
			ClobThreshold: schema.DefaultClobThreshold,
			BlobThreshold: schema.DefaultBlobThreshold,
			Format:        schema.FormatTable,
			ColumnCase:    schema.CaseSnake,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".typedjson.yml", ".typedjson.yaml", "typedjson.yml", "typedjson.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.Describe.ClobThreshold < 0 {
		return errors.NewConfigError(
			fmt.Sprintf("describe.clob_threshold must not be negative, got %d", c.Describe.ClobThreshold), nil)
	}
	if c.Describe.BlobThreshold < 0 {
		return errors.NewConfigError(
			fmt.Sprintf("describe.blob_threshold must not be negative, got %d", c.Describe.BlobThreshold), nil)
	}
	switch c.Describe.Format {
	case schema.FormatTable, schema.FormatYAML, schema.FormatJSON:
	default:
		return errors.NewConfigError(
			fmt.Sprintf("describe.format must be one of table, yaml or json, got '%s'", c.Describe.Format), nil)
	}
	if c.Describe.ColumnCase == "" || !schema.ValidCase(c.Describe.ColumnCase) {
		return errors.NewConfigError(
			fmt.Sprintf("describe.column_case '%s' is not supported", c.Describe.ColumnCase), nil)
	}
	return nil
}

// SchemaOptions returns the describe settings as schema options
func (c *Config) SchemaOptions() schema.Options {
	return schema.Options{
		Flatten:       c.Describe.Flatten,
		Case:          c.Describe.ColumnCase,
		ClobThreshold: c.Describe.ClobThreshold,
		BlobThreshold: c.Describe.BlobThreshold,
	}
}

// Formatter returns a formatter for the output settings
func (c *Config) Formatter() *formatter.Formatter {
	return &formatter.Formatter{
		Indent:          c.Output.Indent,
		TrailingNewline: c.Output.TrailingNewline,
	}
}

// CLIOverrides holds flag values that take precedence over the config file.
// Zero values mean the flag was not given.
type CLIOverrides struct {
	Indent     string
	Compact    bool
	Flatten    bool
	Format     string
	ColumnCase string
	Debug      bool
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Compact {
		cfg.Output.Indent = ""
	} else if cli.Indent != "" {
		cfg.Output.Indent = cli.Indent
	}
	if cli.Flatten {
		cfg.Describe.Flatten = true
	}
	if cli.Format != "" {
		cfg.Describe.Format = cli.Format
	}
	if cli.ColumnCase != "" {
		cfg.Describe.ColumnCase = cli.ColumnCase
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
