package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog   *zerolog.Logger
	filter *SensitiveDataFilter
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a logger writing JSON to stdout at the given level.
// If pretty is true the output is formatted for human readability.
// Unknown level strings fall back to info.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithOutput(level, pretty, os.Stdout)
}

// NewWithOutput creates a logger writing to the given writer. Tests use
// this to capture output in a buffer.
func NewWithOutput(level string, pretty bool, out io.Writer) *ZeroLogger {
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).With().Timestamp().Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, filter: NewSensitiveDataFilter(nil)}
}

// WithFields returns a logger with additional fields attached to all
// entries. Sensitive field values are masked before attachment.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.filter != nil {
		fields = l.filter.FilterFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, filter: l.filter}
}

// LevelEnabled reports whether an event at the given level passes the
// configured level. Unknown configured levels are treated as info;
// unknown event levels are suppressed.
func LevelEnabled(configured, event string) bool {
	c, err := zerolog.ParseLevel(configured)
	if err != nil {
		c = zerolog.InfoLevel
	}
	e, err := zerolog.ParseLevel(event)
	if err != nil {
		return false
	}
	return e >= c && e != zerolog.NoLevel && c != zerolog.Disabled
}
