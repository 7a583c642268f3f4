package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New builds the process logger: colored text in dev, JSON in prod
func New(appEnv string, level slog.Level, version string) *slog.Logger {
	return newWithWriter(os.Stderr, appEnv, level, version)
}

func newWithWriter(w io.Writer, appEnv string, level slog.Level, version string) *slog.Logger {
	if appEnv != "prod" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(w),
		})
		return slog.New(h).With("app", "gridstats")
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", "gridstats",
		"version", version,
		"env", appEnv,
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
