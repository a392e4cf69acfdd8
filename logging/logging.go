package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog level. Unknown names fall back to
// the LOG_LEVEL environment variable and then to info.
func ParseLevel(level string) slog.Level {
	if l, ok := logLevelMapping[strings.ToLower(level)]; ok {
		return l
	}
	if l, ok := logLevelMapping[strings.ToLower(os.Getenv("LOG_LEVEL"))]; ok {
		return l
	}
	return slog.LevelInfo
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Init installs a JSON logger on stdout as the process default.
func Init(level string, version string) *slog.Logger {
	logger := New(os.Stdout, level).With("version", version)
	slog.SetDefault(logger)
	return logger
}
