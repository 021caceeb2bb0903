// Package logger defines the structured logging contract consumed by the
// HTTP client and provides a zerolog-backed implementation of it.
package logger

import "time"

// Logger is the leveled, structured logging sink. The client emits debug
// events per attempt and warn events per retry through this interface.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a log entry under construction. Field methods return the
// event so calls can be chained; Msg/Msgf terminate the event.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
