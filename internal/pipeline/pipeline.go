// Package pipeline drives a merge run from source files to a published
// table: read, normalize, transform and merge each uploaded file, then
// hand the result to a sink.
package pipeline

import (
	"fmt"

	"socMerge/internal/archive"
	"socMerge/internal/logger"
	"socMerge/internal/table"
	"socMerge/internal/tabular"
)

// EventKind identifies a per-file progress event.
type EventKind int

const (
	EventFileStarted EventKind = iota
	EventFileProcessed
	EventFileEmpty
	EventFileSkipped
)

// Event reports progress on a single source file. Index counts from 1.
type Event struct {
	Kind  EventKind
	Path  string
	Index int
	Total int
	Rows  int
	Err   error
}

// FileResult records how one source file fared.
type FileResult struct {
	Path    string
	Rows    int
	Skipped bool
	Reason  string
}

// Result is the outcome of a run. Empty reports that no file contributed
// any rows, in which case Table and Headers are nil.
type Result struct {
	Files   []FileResult
	Table   *table.Table
	Headers []string
	Stamp   string
	Workdir string
	Empty   bool
}

// Run processes the given source files in order and merges the surviving
// rows into one table. Files that cannot be parsed are skipped; the first
// file that contributes rows decides the column headers. The report
// callback, when non-nil, receives a progress event per file.
func Run(rules table.TransformConfig, paths []string, report func(Event)) (*Result, error) {
	if report == nil {
		report = func(Event) {}
	}

	width, err := rules.RequiredWidth()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var parts []*table.Table
	var headerMap table.HeaderMap

	for i, path := range paths {
		report(Event{Kind: EventFileStarted, Path: path, Index: i + 1, Total: len(paths)})

		raw, err := tabular.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file", "path", path, "error", err)
			res.Files = append(res.Files, FileResult{Path: path, Skipped: true, Reason: err.Error()})
			report(Event{Kind: EventFileSkipped, Path: path, Index: i + 1, Total: len(paths), Err: err})
			continue
		}

		normalized, hm := table.Normalize(raw.Headers, raw.Rows, width)
		transformed, err := table.Transform(normalized, rules)
		if err != nil {
			return nil, fmt.Errorf("failed to transform %s: %w", path, err)
		}

		if transformed.IsEmpty() {
			res.Files = append(res.Files, FileResult{Path: path})
			report(Event{Kind: EventFileEmpty, Path: path, Index: i + 1, Total: len(paths)})
			continue
		}

		// The first file with surviving rows names the columns.
		if headerMap == nil {
			headerMap = hm
		}
		parts = append(parts, transformed)
		res.Files = append(res.Files, FileResult{Path: path, Rows: transformed.RowCount()})
		report(Event{Kind: EventFileProcessed, Path: path, Index: i + 1, Total: len(paths), Rows: transformed.RowCount()})
	}

	if len(parts) == 0 {
		res.Empty = true
		logger.Info("Run produced no rows", "files", len(paths))
		return res, nil
	}

	merged, err := table.Merge(parts, rules)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}

	res.Table = merged
	res.Headers = table.ResolveHeaders(merged, headerMap)
	logger.Info("Run complete", "rows", merged.RowCount(), "columns", merged.Width())
	return res, nil
}

// RunArchive extracts a ZIP bundle into a stamped working directory and
// runs the pipeline over the tabular files found inside.
func RunArchive(rules table.TransformConfig, zipPath, stamp string, report func(Event)) (*Result, error) {
	workdir := archive.Workdir(".", stamp)
	if err := archive.Extract(zipPath, workdir); err != nil {
		return nil, err
	}

	paths, err := archive.DiscoverTabular(workdir)
	if err != nil {
		return nil, err
	}
	logger.Info("Extracted archive", "archive", zipPath, "workdir", workdir, "files", len(paths))

	res, err := Run(rules, paths, report)
	if err != nil {
		return nil, err
	}
	res.Stamp = stamp
	res.Workdir = workdir
	return res, nil
}
