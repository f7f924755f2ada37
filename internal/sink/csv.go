package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// utf8BOM keeps Excel from misreading the file as Latin-1.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSink writes the table to cleaned_data_<stamp>.csv under its
// directory.
type CSVSink struct {
	path string
}

// NewCSVSink returns a sink writing into dir with the run's stamp in the
// file name.
func NewCSVSink(dir, stamp string) *CSVSink {
	return &CSVSink{path: filepath.Join(dir, fmt.Sprintf("cleaned_data_%s.csv", stamp))}
}

// Path returns the output file location.
func (s *CSVSink) Path() string {
	return s.path
}

func (s *CSVSink) Name() string {
	return s.path
}

// Publish implements Sink.
func (s *CSVSink) Publish(ctx context.Context, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrSink, err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrSink, s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("%w: writing BOM: %v", ErrSink, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("%w: writing header row: %v", ErrSink, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: writing row: %v", ErrSink, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flushing %s: %v", ErrSink, s.path, err)
	}
	return nil
}
