// Package sink publishes the final merged table to its destination: a
// Google Sheets worksheet, a local CSV file, or a local XLSX workbook.
package sink

import (
	"context"
	"errors"
)

// ErrSink reports a failed publish. The computed table stays with the
// caller, so a failed sink can be retried or swapped for another one.
var ErrSink = errors.New("sink failure")

// Sink publishes header and data rows somewhere durable.
type Sink interface {
	// Name identifies the destination in user-facing messages.
	Name() string
	// Publish stores the table, header row first.
	Publish(ctx context.Context, headers []string, rows [][]string) error
}
