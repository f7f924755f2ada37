package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socMerge/internal/config"
	"socMerge/internal/pipeline"
	"socMerge/internal/table"
)

func testModel(archives []string, initialArchive string) model {
	cfg := config.DefaultConfig()
	return initialModel(cfg, table.TransformConfig{SortColumn: "A"}, archives, initialArchive)
}

func key(t *testing.T, m model, s string) model {
	t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	next, _ := m.Update(msg)
	return next.(model)
}

func TestStartsAtArchivePicker(t *testing.T) {
	m := testModel([]string{"a.zip", "b.zip"}, "")
	assert.Equal(t, statePickArchive, m.state)
	assert.Contains(t, m.View(), "Select an upload archive")
}

func TestInitialArchiveSkipsPicker(t *testing.T) {
	m := testModel(nil, "upload.zip")
	assert.Equal(t, statePickTarget, m.state)
	assert.Contains(t, m.View(), "upload.zip")
}

func TestPreselectsConfiguredTarget(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Target = config.TargetXLSX

	m := initialModel(cfg, table.TransformConfig{SortColumn: "A"}, nil, "upload.zip")
	assert.Equal(t, config.TargetXLSX, m.targets[m.targetCursor].target)
}

func TestArchiveNavigation(t *testing.T) {
	m := testModel([]string{"a.zip", "b.zip", "c.zip"}, "")

	m = key(t, m, "j")
	m = key(t, m, "j")
	assert.Equal(t, 2, m.archiveCursor)

	// Cursor stops at the last entry.
	m = key(t, m, "j")
	assert.Equal(t, 2, m.archiveCursor)

	m = key(t, m, "k")
	assert.Equal(t, 1, m.archiveCursor)

	m = key(t, m, "enter")
	assert.Equal(t, statePickTarget, m.state)
	assert.Equal(t, "b.zip", m.archive)
}

func TestTargetSelectionStartsRun(t *testing.T) {
	m := testModel([]string{"a.zip"}, "")
	m = key(t, m, "enter")
	require.Equal(t, statePickTarget, m.state)

	m = key(t, m, "j")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	assert.Equal(t, stateProcessing, m.state)
	assert.Equal(t, config.TargetCSV, m.cfg.Output.Target)
	assert.NotNil(t, cmd)
}

func TestEscReturnsToArchivePicker(t *testing.T) {
	m := testModel([]string{"a.zip"}, "")
	m = key(t, m, "enter")
	m = key(t, m, "esc")
	assert.Equal(t, statePickArchive, m.state)
}

func TestApplyEvent(t *testing.T) {
	m := testModel(nil, "upload.zip")
	m.state = stateProcessing

	m.applyEvent(pipeline.Event{Kind: pipeline.EventFileStarted, Path: "dir/a.csv", Index: 1, Total: 2})
	assert.Contains(t, m.current, "[1/2]")
	assert.Contains(t, m.current, "a.csv")

	m.applyEvent(pipeline.Event{Kind: pipeline.EventFileProcessed, Path: "dir/a.csv", Rows: 12})
	m.applyEvent(pipeline.Event{Kind: pipeline.EventFileSkipped, Path: "dir/b.csv", Err: errors.New("bad")})
	m.applyEvent(pipeline.Event{Kind: pipeline.EventFileEmpty, Path: "dir/c.csv"})

	require.Len(t, m.lines, 3)
	assert.Contains(t, m.lines[0], "12 rows")
	assert.Contains(t, m.lines[1], "skipped")
	assert.Contains(t, m.lines[2], "no rows after filtering")
}

func TestRunDoneEmptyGoesToSummary(t *testing.T) {
	m := testModel(nil, "upload.zip")
	m.state = stateProcessing

	next, _ := m.Update(runDoneMsg{res: &pipeline.Result{Empty: true}})
	m = next.(model)

	assert.Equal(t, stateSummary, m.state)
	assert.Contains(t, m.View(), "No data after filtering")
}

func TestRunDoneErrorGoesToErrorState(t *testing.T) {
	m := testModel(nil, "upload.zip")
	m.state = stateProcessing

	next, _ := m.Update(runDoneMsg{err: errors.New("merge failed")})
	m = next.(model)

	assert.Equal(t, stateError, m.state)
	assert.Contains(t, m.View(), "merge failed")
}

func TestPublishDoneShowsDestination(t *testing.T) {
	m := testModel(nil, "upload.zip")
	m.state = stateProcessing
	m.result = emptyTableResult(t)

	next, _ := m.Update(publishDoneMsg{outcome: pipeline.PublishOutcome{Sink: "out/cleaned_data_x.csv"}})
	m = next.(model)

	assert.Equal(t, stateSummary, m.state)
	assert.Contains(t, m.View(), "out/cleaned_data_x.csv")
}

func emptyTableResult(t *testing.T) *pipeline.Result {
	t.Helper()
	return &pipeline.Result{
		Table:   table.NewTable([]string{"A"}),
		Headers: []string{"Name"},
	}
}
