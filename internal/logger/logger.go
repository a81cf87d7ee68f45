// Package logger holds the process-wide zerolog logger used by the registry.
// Loggers stored in a context by WithLogger take precedence over it.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu       sync.RWMutex
	base     = zerolog.Nop()
	initOnce sync.Once
)

// InitLogging installs a timestamped logger writing to stdout and, when
// logFilePath is set, to that file as well. Only the first call has effect.
func InitLogging(logFilePath, level string) {
	initOnce.Do(func() {
		l := zerolog.New(output(logFilePath)).
			With().Timestamp().Logger().
			Level(parseLevel(level))
		SetLogger(l)
		log.Logger = l
	})
}

func output(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s, using stdout only: %v\n", path, err)
		return os.Stdout
	}
	return zerolog.MultiLevelWriter(os.Stdout, f)
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetLogger replaces the process-wide logger.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithLogger returns ctx carrying a logger enriched with fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	l := getLogger(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

func getLogger(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	l := current()
	return &l
}

// emit writes msg on ev. A lone error argument goes to the "error" field;
// other arguments are formatted into msg.
func emit(ev *zerolog.Event, msg string, args []interface{}) {
	switch {
	case len(args) == 0:
		ev.Msg(msg)
	case len(args) == 1:
		if err, ok := args[0].(error); ok {
			ev.Err(err).Msg(msg)
			return
		}
		ev.Msgf(msg, args...)
	default:
		ev.Msgf(msg, args...)
	}
}

func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Debug(), msg, args)
}

func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Info(), msg, args)
}

func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Warn(), msg, args)
}

func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Error(), msg, args)
}
