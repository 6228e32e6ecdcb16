package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/idct-tech/go-csv-writer/pkg/charset"
	"github.com/idct-tech/go-csv-writer/pkg/writer"
)

// Config holds the library-wide defaults applied to writers and exports.
type Config struct {
	Writer  WriterConfig  `yaml:"writer"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// WriterConfig carries the defaults applied to every writer an Exporter
// builds.
type WriterConfig struct {
	// BufferSize is the accumulate-before-flush threshold in bytes;
	// 0 writes through.
	BufferSize int `yaml:"buffer_size"`
	// EOL is "crlf", "lf" or "cr"; empty selects the platform ending.
	EOL       string `yaml:"eol"`
	Delimiter string `yaml:"delimiter"`
	Enclosure string `yaml:"enclosure"`
	// Encoding names an optional output charset; empty preserves input
	// bytes.
	Encoding string `yaml:"encoding"`
}

// ExportConfig contains batch export settings.
type ExportConfig struct {
	TempDirectory string `yaml:"temp_directory"`
	ExcelSheet    string `yaml:"excel_sheet"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Writer: WriterConfig{
			BufferSize: 0,
			EOL:        "",
			Delimiter:  ",",
			Enclosure:  `"`,
			Encoding:   "",
		},
		Export: ExportConfig{
			TempDirectory: filepath.Join(os.TempDir(), "csv-writer"),
			ExcelSheet:    "Sheet1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("CSV_WRITER_BUFFER_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Writer.BufferSize = n
		}
	}
	if val := os.Getenv("CSV_WRITER_ENCODING"); val != "" {
		c.Writer.Encoding = val
	}
	if val := os.Getenv("CSV_WRITER_TEMP_DIR"); val != "" {
		c.Export.TempDirectory = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Writer.BufferSize < 0 {
		return fmt.Errorf("buffer size cannot be negative: %d", c.Writer.BufferSize)
	}
	if c.Writer.EOL != "" {
		if _, err := writer.ParseEOL(c.Writer.EOL); err != nil {
			return fmt.Errorf("invalid eol %q", c.Writer.EOL)
		}
	}
	if utf8.RuneCountInString(c.Writer.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be exactly one character: %q", c.Writer.Delimiter)
	}
	if utf8.RuneCountInString(c.Writer.Enclosure) != 1 {
		return fmt.Errorf("enclosure must be exactly one character: %q", c.Writer.Enclosure)
	}
	if _, err := charset.Lookup(c.Writer.Encoding); err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}
	if c.Export.TempDirectory == "" {
		return fmt.Errorf("temp directory is required")
	}
	if c.Export.ExcelSheet == "" {
		return fmt.Errorf("excel sheet name is required")
	}
	return nil
}
