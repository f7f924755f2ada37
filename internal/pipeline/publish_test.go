package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socMerge/internal/config"
)

func targetConfig(t *testing.T, target string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "out")
	cfg.Output.Target = target
	return cfg
}

func TestPublishToCSV(t *testing.T) {
	cfg := targetConfig(t, config.TargetCSV)
	res := testResult(t)
	res.Stamp = "Mar-07_14-05PM"

	outcome, err := PublishTo(context.Background(), cfg, res)
	require.NoError(t, err)
	assert.False(t, outcome.Fallback)

	path := filepath.Join(cfg.Output.Directory, "cleaned_data_Mar-07_14-05PM.csv")
	assert.Equal(t, path, outcome.Sink)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Val"},
		{"ana", "1"},
	}, records)
}

func TestPublishToXLSX(t *testing.T) {
	cfg := targetConfig(t, config.TargetXLSX)
	res := testResult(t)
	res.Stamp = "Mar-07_14-05PM"

	outcome, err := PublishTo(context.Background(), cfg, res)
	require.NoError(t, err)
	assert.False(t, outcome.Fallback)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "cleaned_data_Mar-07_14-05PM.xlsx"), outcome.Sink)
	assert.FileExists(t, outcome.Sink)
}

func TestPublishToSheetsFallsBack(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")

		cfg := targetConfig(t, config.TargetSheets)
		cfg.Sheets.SpreadsheetID = "sheet-123"
		cfg.Sheets.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")

		res := testResult(t)
		res.Stamp = "Mar-07_14-05PM"

		outcome, err := PublishTo(context.Background(), cfg, res)
		require.NoError(t, err)
		assert.True(t, outcome.Fallback)
		assert.Error(t, outcome.PrimaryErr)
		assert.FileExists(t, filepath.Join(cfg.Output.Directory, "cleaned_data_Mar-07_14-05PM.csv"))
	})

	t.Run("no spreadsheet id", func(t *testing.T) {
		t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)

		cfg := targetConfig(t, config.TargetSheets)

		res := testResult(t)
		res.Stamp = "Mar-07_14-05PM"

		outcome, err := PublishTo(context.Background(), cfg, res)
		require.NoError(t, err)
		assert.True(t, outcome.Fallback)
		assert.ErrorContains(t, outcome.PrimaryErr, "no spreadsheet id")
	})
}

func TestPublishToUnknownTarget(t *testing.T) {
	cfg := targetConfig(t, "ftp")
	res := testResult(t)

	_, err := PublishTo(context.Background(), cfg, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output target")
}
