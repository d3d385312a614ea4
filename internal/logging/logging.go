// Package logging builds slog loggers and turns bus events into log lines.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hanpama/mockgraph/internal/eventbus"
	"github.com/hanpama/mockgraph/internal/events"
	"github.com/hanpama/mockgraph/internal/reqid"
)

// Format is the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logging configuration.
type Config struct {
	Level  slog.Level
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(handler)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses debug, info, warn or error, case-insensitively.
// Unknown values yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseFormat parses text or json. Unknown values yield text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// Subscribe logs request, operation and generator events to logger until
// the returned function is called.
func Subscribe(logger *slog.Logger) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
			logger.LogAttrs(ctx, slog.LevelInfo, "http request",
				slog.String("request_id", requestID(ctx)),
				slog.String("method", e.Request.Method),
				slog.String("path", e.Request.URL.Path),
				slog.Int("status", e.Status),
				slog.Duration("duration", e.Duration),
			)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			attrs := []slog.Attr{
				slog.String("request_id", requestID(ctx)),
				slog.String("operation", e.OperationName),
				slog.String("type", e.OperationType),
				slog.Int("errors", len(e.Errors)),
				slog.Duration("duration", e.Duration),
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "graphql operation", attrs...)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GeneratorFinish) {
			if e.Err == nil {
				return
			}
			logger.LogAttrs(ctx, slog.LevelWarn, "mock generator failed",
				slog.String("request_id", requestID(ctx)),
				slog.String("selector", e.Selector),
				slog.String("field", e.ParentType+"."+e.Field),
				slog.Any("error", e.Err),
			)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func requestID(ctx context.Context) string {
	id, _ := reqid.FromContext(ctx)
	return id
}
