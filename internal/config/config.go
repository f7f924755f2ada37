package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"socMerge/internal/logger"
	"socMerge/internal/table"
)

// Output targets.
const (
	TargetSheets = "sheets"
	TargetCSV    = "csv"
	TargetXLSX   = "xlsx"
)

type Config struct {
	Transform TransformConfig `toml:"transform"`
	Sheets    SheetsConfig    `toml:"sheets"`
	Output    OutputConfig    `toml:"output"`
}

type TransformConfig struct {
	SortColumn string       `toml:"sort_column"`
	Filters    []FilterRule `toml:"filters"`
	DropRanges []DropRange  `toml:"drop_ranges"`
}

type FilterRule struct {
	Column string `toml:"column"`
	Value  string `toml:"value"`
}

type DropRange struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	WorksheetIndex  int    `toml:"worksheet_index"`
	CredentialsFile string `toml:"credentials_file"`
}

type OutputConfig struct {
	Directory string `toml:"directory"`
	Target    string `toml:"target"`
}

// DefaultConfig returns the standard station-report rule set. The
// spreadsheet id has no default and must be configured before uploading.
func DefaultConfig() *Config {
	return &Config{
		Transform: TransformConfig{
			SortColumn: "X",
			Filters: []FilterRule{
				{Column: "K", Value: "Station"},
				{Column: "M", Value: "SOC 5"},
			},
			DropRanges: []DropRange{
				{Start: "C", End: "I"},
				{Start: "K", End: "M"},
				{Start: "O", End: "U"},
				{Start: "Y", End: "Z"},
				{Start: "AE", End: "AH"},
			},
		},
		Sheets: SheetsConfig{
			WorksheetIndex:  0,
			CredentialsFile: "service_account.json",
		},
		Output: OutputConfig{
			Directory: "output",
			Target:    TargetSheets,
		},
	}
}

// LoadConfig loads configuration from the specified config file path,
// creating it with defaults when it does not exist yet.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %v", err)
		}

		defaultConfig := DefaultConfig()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
	}

	// Set defaults if missing. Absent filter and drop lists fall back to
	// the defaults; explicitly empty lists stay empty.
	defaults := DefaultConfig()
	if config.Transform.SortColumn == "" {
		config.Transform.SortColumn = defaults.Transform.SortColumn
	}
	if config.Transform.Filters == nil {
		config.Transform.Filters = defaults.Transform.Filters
	}
	if config.Transform.DropRanges == nil {
		config.Transform.DropRanges = defaults.Transform.DropRanges
	}
	if config.Sheets.CredentialsFile == "" {
		config.Sheets.CredentialsFile = defaults.Sheets.CredentialsFile
	}
	if config.Output.Directory == "" {
		config.Output.Directory = defaults.Output.Directory
	}
	if config.Output.Target == "" {
		config.Output.Target = defaults.Output.Target
	}

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}

// Rules resolves the configured letters into the transform value the
// pipeline stages consume.
func (c *Config) Rules() (table.TransformConfig, error) {
	rules := table.TransformConfig{
		SortColumn: c.Transform.SortColumn,
	}
	for _, f := range c.Transform.Filters {
		rules.Filters = append(rules.Filters, table.FilterRule{Column: f.Column, Value: f.Value})
	}
	for _, r := range c.Transform.DropRanges {
		rules.DropRanges = append(rules.DropRanges, table.LetterRange{Start: r.Start, End: r.End})
	}
	if err := rules.Validate(); err != nil {
		return table.TransformConfig{}, fmt.Errorf("invalid transform rules: %w", err)
	}
	return rules, nil
}

// CredentialsJSON resolves service account credentials: the
// GOOGLE_SERVICE_ACCOUNT_JSON environment variable wins, then the
// configured credentials file.
func (c *Config) CredentialsJSON() ([]byte, error) {
	if env := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); env != "" {
		return []byte(env), nil
	}

	data, err := os.ReadFile(c.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not set and reading %s failed: %v",
			c.Sheets.CredentialsFile, err)
	}
	return data, nil
}

// EnsureOutputDir creates the output directory if needed.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}
	return nil
}
