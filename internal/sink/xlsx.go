package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXSink writes the table to cleaned_data_<stamp>.xlsx as a single
// sheet, streaming rows through the workbook writer.
type XLSXSink struct {
	path string
}

// NewXLSXSink returns a sink writing into dir with the run's stamp in the
// file name.
func NewXLSXSink(dir, stamp string) *XLSXSink {
	return &XLSXSink{path: filepath.Join(dir, fmt.Sprintf("cleaned_data_%s.xlsx", stamp))}
}

// Path returns the output file location.
func (s *XLSXSink) Path() string {
	return s.path
}

func (s *XLSXSink) Name() string {
	return s.path
}

// Publish implements Sink.
func (s *XLSXSink) Publish(ctx context.Context, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrSink, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter("Sheet1")
	if err != nil {
		return fmt.Errorf("%w: creating stream writer: %v", ErrSink, err)
	}

	if err := writeSheetRow(sw, 1, headers); err != nil {
		return fmt.Errorf("%w: writing header row: %v", ErrSink, err)
	}
	for i, row := range rows {
		if err := writeSheetRow(sw, i+2, row); err != nil {
			return fmt.Errorf("%w: writing row %d: %v", ErrSink, i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: flushing stream writer: %v", ErrSink, err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("%w: saving %s: %v", ErrSink, s.path, err)
	}
	return nil
}

func writeSheetRow(sw *excelize.StreamWriter, rowNum int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	ref, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return sw.SetRow(ref, cells)
}
