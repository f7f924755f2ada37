// Package tabular reads delimited and spreadsheet source files into raw
// tables of header strings and cell rows.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"socMerge/internal/table"
)

// ErrMalformed reports a source file that cannot be parsed as a table.
// Callers skip the file and continue with the remaining ones.
var ErrMalformed = errors.New("malformed source file")

// Raw is a parsed source file before normalization: the header row plus
// the data rows, with empty fields already turned into missing cells.
type Raw struct {
	Headers []string
	Rows    [][]table.Cell
}

// ReadFile parses a tabular source, dispatching on the file extension.
func ReadFile(path string) (Raw, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return Raw{}, fmt.Errorf("%w: %s: unsupported file type", ErrMalformed, filepath.Base(path))
	}
}

// ReadCSV parses a comma-delimited UTF-8 file. The first record is always
// the header; data rows shorter than the header are padded with missing
// cells, rows longer than the header fail the whole file.
func ReadCSV(path string) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %v", ErrMalformed, filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(skipBOM(f))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %v", ErrMalformed, filepath.Base(path), err)
	}
	if len(records) == 0 {
		return Raw{}, fmt.Errorf("%w: %s: no header row", ErrMalformed, filepath.Base(path))
	}

	headers := records[0]
	rows := make([][]table.Cell, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) > len(headers) {
			return Raw{}, fmt.Errorf("%w: %s: line %d has %d fields, header has %d",
				ErrMalformed, filepath.Base(path), i+2, len(record), len(headers))
		}
		cells := make([]table.Cell, len(headers))
		for j, field := range record {
			if field != "" {
				cells[j] = table.String(field)
			}
		}
		rows = append(rows, cells)
	}
	return Raw{Headers: headers, Rows: rows}, nil
}

// ReadXLSX reads the first sheet of a workbook. The first row is the
// header; cells hold the displayed text, with empty cells missing. Rows
// are padded or truncated to the header width.
func ReadXLSX(path string) (Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %v", ErrMalformed, filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Raw{}, fmt.Errorf("%w: %s: workbook has no sheets", ErrMalformed, filepath.Base(path))
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %v", ErrMalformed, filepath.Base(path), err)
	}
	if len(records) == 0 {
		return Raw{}, fmt.Errorf("%w: %s: no header row", ErrMalformed, filepath.Base(path))
	}

	headers := records[0]
	rows := make([][]table.Cell, 0, len(records)-1)
	for _, record := range records[1:] {
		cells := make([]table.Cell, len(headers))
		for j, text := range record {
			if j >= len(headers) {
				break
			}
			if text != "" {
				cells[j] = table.String(text)
			}
		}
		rows = append(rows, cells)
	}
	return Raw{Headers: headers, Rows: rows}, nil
}

// skipBOM drops a leading UTF-8 byte order mark so it never ends up glued
// to the first header name.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(3); err == nil && bytes.Equal(lead, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}
	return br
}
