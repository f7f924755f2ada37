package logger

import (
	"log/slog"
	"os"
	"path/filepath"
)

var Logger *slog.Logger

func init() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	// Diagnostics go to a log file; stdout stays clean for user output.
	os.MkdirAll("logs", 0755)
	logFile, err := os.OpenFile(filepath.Join("logs", "socmerge.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
		return
	}

	Logger = slog.New(slog.NewTextHandler(logFile, handlerOpts))
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
