package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Init initializes the default logger writing to stderr. It ensures that the
// logger is initialized only once; later calls are no-ops.
func Init() {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
}

// SetLevel adjusts the global log level (e.g. "debug", "info", "warn").
// Unknown levels fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// Get returns the initialized default logger.
func Get() zerolog.Logger {
	Init()
	return defaultLogger
}

// Info logs an informational message with alternating key/value fields.
func Info(msg string, fields ...any) {
	l := Get()
	ev := l.Info()
	addFields(ev, fields)
	ev.Msg(msg)
}

// Warn logs a warning message with alternating key/value fields.
func Warn(msg string, fields ...any) {
	l := Get()
	ev := l.Warn()
	addFields(ev, fields)
	ev.Msg(msg)
}

// Error logs an error message. A nil err is allowed and omitted.
func Error(msg string, err error, fields ...any) {
	l := Get()
	ev := l.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	addFields(ev, fields)
	ev.Msg(msg)
}

// Debug logs a debug message with alternating key/value fields.
func Debug(msg string, fields ...any) {
	l := Get()
	ev := l.Debug()
	addFields(ev, fields)
	ev.Msg(msg)
}

func addFields(ev *zerolog.Event, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev.Interface(key, fields[i+1])
	}
}
