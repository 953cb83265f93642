package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON logger on stdout as the default. Development
// environments also get debug records.
func Setup(env string) {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout, env)))
}

// NewJSONHandler builds the stdout handler used by Setup so it can be combined
// with other sinks later on.
func NewJSONHandler(w io.Writer, env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
