package sink

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSink publishes the table to one worksheet of a Google spreadsheet.
// The worksheet is cleared first so rows from a previous upload never
// survive underneath a shorter table.
type SheetsSink struct {
	spreadsheetID  string
	worksheetIndex int64
	credentials    []byte
}

// NewSheetsSink validates the target and credentials material. The API
// service itself is built at publish time.
func NewSheetsSink(spreadsheetID string, worksheetIndex int, credentialsJSON []byte) (*SheetsSink, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: no spreadsheet id configured", ErrSink)
	}
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("%w: no service account credentials", ErrSink)
	}
	if worksheetIndex < 0 {
		return nil, fmt.Errorf("%w: negative worksheet index %d", ErrSink, worksheetIndex)
	}
	return &SheetsSink{
		spreadsheetID:  spreadsheetID,
		worksheetIndex: int64(worksheetIndex),
		credentials:    credentialsJSON,
	}, nil
}

func (s *SheetsSink) Name() string {
	return "Google Sheets spreadsheet " + s.spreadsheetID
}

// Publish implements Sink.
func (s *SheetsSink) Publish(ctx context.Context, headers []string, rows [][]string) error {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(s.credentials),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return fmt.Errorf("%w: creating sheets service: %v", ErrSink, err)
	}

	title, err := s.worksheetTitle(ctx, service)
	if err != nil {
		return err
	}

	ref := rangeRef(title)
	if _, err := service.Spreadsheets.Values.Clear(s.spreadsheetID, ref, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clearing worksheet %s: %v", ErrSink, title, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaces(headers))
	for _, row := range rows {
		values = append(values, toInterfaces(row))
	}

	vr := &sheets.ValueRange{Values: values}
	_, err = service.Spreadsheets.Values.Update(s.spreadsheetID, ref+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: updating worksheet %s: %v", ErrSink, title, err)
	}
	return nil
}

func (s *SheetsSink) worksheetTitle(ctx context.Context, service *sheets.Service) (string, error) {
	meta, err := service.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: reading spreadsheet metadata: %v", ErrSink, err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Index == s.worksheetIndex {
			return sheet.Properties.Title, nil
		}
	}
	return "", fmt.Errorf("%w: spreadsheet has no worksheet at index %d", ErrSink, s.worksheetIndex)
}

// rangeRef quotes a worksheet title for A1 notation.
func rangeRef(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
