package logger

import (
	"log/slog"
	"os"
)

// Logger is the process-wide logger. It falls back to slog's default until Init runs,
// so packages can log from tests without setup.
var Logger = slog.Default()

func Init(debug bool) {
	level := slog.LevelInfo
	if debug || os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
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

// Mask hides everything but a short prefix of a secret.
func Mask(secret string) string {
	const visible = 4
	r := []rune(secret)
	if len(r) <= visible {
		return "****"
	}
	return string(r[:visible]) + "****"
}
