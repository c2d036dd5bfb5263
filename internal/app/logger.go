package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

var level = new(slog.LevelVar)

// Logger returns the logger singleton
var Logger = sync.OnceValue(func() *slog.Logger {
	return newLogger(os.Stdout)
})

// SetDebug switches every logger between debug and info level
func SetDebug(debug bool) {
	if debug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	baseHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	handler := &loggerHandler{handler: baseHandler}

	return slog.New(handler)
}

type loggerHandler struct {
	handler slog.Handler
}

func (h *loggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *loggerHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the time to UTC and truncate microseconds
	r.Time = r.Time.UTC().Truncate(time.Second)
	return h.handler.Handle(ctx, r)
}

func (h *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &loggerHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *loggerHandler) WithGroup(name string) slog.Handler {
	return &loggerHandler{handler: h.handler.WithGroup(name)}
}
