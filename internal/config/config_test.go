package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "configs", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "X", cfg.Transform.SortColumn)
	assert.Equal(t, []FilterRule{
		{Column: "K", Value: "Station"},
		{Column: "M", Value: "SOC 5"},
	}, cfg.Transform.Filters)
	assert.Len(t, cfg.Transform.DropRanges, 5)
	assert.Equal(t, TargetSheets, cfg.Output.Target)
	assert.Empty(t, cfg.Sheets.SpreadsheetID)

	// The written file must round-trip to the same values.
	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigCustom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[transform]
sort_column = "AA"

[[transform.filters]]
column = "B"
value = "Depot"

[[transform.drop_ranges]]
start = "C"
end = "D"

[sheets]
spreadsheet_id = "sheet-123"
worksheet_index = 2
credentials_file = "creds.json"

[output]
directory = "out"
target = "xlsx"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "AA", cfg.Transform.SortColumn)
	assert.Equal(t, []FilterRule{{Column: "B", Value: "Depot"}}, cfg.Transform.Filters)
	assert.Equal(t, []DropRange{{Start: "C", End: "D"}}, cfg.Transform.DropRanges)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, 2, cfg.Sheets.WorksheetIndex)
	assert.Equal(t, "creds.json", cfg.Sheets.CredentialsFile)
	assert.Equal(t, "out", cfg.Output.Directory)
	assert.Equal(t, TargetXLSX, cfg.Output.Target)
}

func TestLoadConfigBackfillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[sheets]
spreadsheet_id = "sheet-123"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Transform.SortColumn, cfg.Transform.SortColumn)
	assert.Equal(t, defaults.Transform.Filters, cfg.Transform.Filters)
	assert.Equal(t, defaults.Transform.DropRanges, cfg.Transform.DropRanges)
	assert.Equal(t, defaults.Sheets.CredentialsFile, cfg.Sheets.CredentialsFile)
	assert.Equal(t, defaults.Output.Directory, cfg.Output.Directory)
	assert.Equal(t, defaults.Output.Target, cfg.Output.Target)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
}

func TestLoadConfigKeepsExplicitlyEmptyLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[transform]
sort_column = "A"
filters = []
drop_ranges = []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.NotNil(t, cfg.Transform.Filters)
	assert.Empty(t, cfg.Transform.Filters)
	assert.NotNil(t, cfg.Transform.DropRanges)
	assert.Empty(t, cfg.Transform.DropRanges)
}

func TestRules(t *testing.T) {
	cfg := DefaultConfig()

	rules, err := cfg.Rules()
	require.NoError(t, err)

	assert.Equal(t, "X", rules.SortColumn)
	assert.Len(t, rules.Filters, 2)
	assert.Len(t, rules.DropRanges, 5)

	width, err := rules.RequiredWidth()
	require.NoError(t, err)
	assert.Equal(t, 34, width)
}

func TestRulesRejectsInvalidLetters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transform.SortColumn = "X2"

	_, err := cfg.Rules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transform rules")
}

func TestCredentialsJSONFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)

	cfg := DefaultConfig()
	cfg.Sheets.CredentialsFile = "does-not-exist.json"

	data, err := cfg.CredentialsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))
}

func TestCredentialsJSONFromFile(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0600))

	cfg := DefaultConfig()
	cfg.Sheets.CredentialsFile = path

	data, err := cfg.CredentialsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))
}

func TestCredentialsJSONMissing(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")

	cfg := DefaultConfig()
	cfg.Sheets.CredentialsFile = filepath.Join(t.TempDir(), "nope.json")

	_, err := cfg.CredentialsJSON()
	require.Error(t, err)
}

func TestEnsureOutputDir(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Output.Directory = filepath.Join(dir, "nested", "output")

	require.NoError(t, cfg.EnsureOutputDir())

	info, err := os.Stat(cfg.Output.Directory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
