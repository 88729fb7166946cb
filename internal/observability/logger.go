package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the process logger: JSON on stdout, debug level in dev.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch env {
	case "dev":
		opts.Level = slog.LevelDebug
	case "prod":
		opts.AddSource = true
	}

	return slog.New(NewContextHandler(slog.NewJSONHandler(w, opts))).
		With("env", env)
}
