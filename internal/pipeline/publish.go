package pipeline

import (
	"context"
	"errors"
	"fmt"

	"socMerge/internal/config"
	"socMerge/internal/logger"
	"socMerge/internal/sink"
)

// Publish sends the merged table to a sink.
func Publish(ctx context.Context, s sink.Sink, res *Result) error {
	if res.Empty {
		return errors.New("nothing to publish")
	}
	return s.Publish(ctx, res.Headers, res.Table.Strings())
}

// PublishOutcome reports where a table ended up. When Fallback is set the
// primary destination failed and PrimaryErr holds its error.
type PublishOutcome struct {
	Sink       string
	Fallback   bool
	PrimaryErr error
}

// PublishWithFallback tries the primary sink and, on failure, the
// fallback. A nil fallback means the primary error is final.
func PublishWithFallback(ctx context.Context, primary, fallback sink.Sink, res *Result) (PublishOutcome, error) {
	err := Publish(ctx, primary, res)
	if err == nil {
		return PublishOutcome{Sink: primary.Name()}, nil
	}
	if fallback == nil {
		return PublishOutcome{}, err
	}

	logger.Warn("Primary sink failed, falling back", "sink", primary.Name(), "error", err)
	if fbErr := Publish(ctx, fallback, res); fbErr != nil {
		return PublishOutcome{}, fmt.Errorf("primary sink: %v; fallback sink: %v", err, fbErr)
	}
	return PublishOutcome{Sink: fallback.Name(), Fallback: true, PrimaryErr: err}, nil
}

// PublishTo publishes the result to the configured output target. The
// Google Sheets target falls back to a local CSV file when the upload is
// not possible, matching the other targets' directory and file naming.
func PublishTo(ctx context.Context, cfg *config.Config, res *Result) (PublishOutcome, error) {
	if err := cfg.EnsureOutputDir(); err != nil {
		return PublishOutcome{}, err
	}
	local := sink.NewCSVSink(cfg.Output.Directory, res.Stamp)

	switch cfg.Output.Target {
	case config.TargetCSV:
		return PublishWithFallback(ctx, local, nil, res)

	case config.TargetXLSX:
		return PublishWithFallback(ctx, sink.NewXLSXSink(cfg.Output.Directory, res.Stamp), local, res)

	case config.TargetSheets:
		remote, err := sheetsSink(cfg)
		if err != nil {
			logger.Warn("Google Sheets unavailable, writing local CSV", "error", err)
			outcome, pubErr := PublishWithFallback(ctx, local, nil, res)
			if pubErr != nil {
				return PublishOutcome{}, pubErr
			}
			outcome.Fallback = true
			outcome.PrimaryErr = err
			return outcome, nil
		}
		return PublishWithFallback(ctx, remote, local, res)

	default:
		return PublishOutcome{}, fmt.Errorf("unknown output target %q", cfg.Output.Target)
	}
}

func sheetsSink(cfg *config.Config) (sink.Sink, error) {
	creds, err := cfg.CredentialsJSON()
	if err != nil {
		return nil, err
	}
	return sink.NewSheetsSink(cfg.Sheets.SpreadsheetID, cfg.Sheets.WorksheetIndex, creds)
}
