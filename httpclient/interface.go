package httpclient

import (
	"context"
	nethttp "net/http"
	"time"
)

// Default configuration values, applied beneath every cascade layer.
const (
	DefaultMaxRetries     = 3
	DefaultRequestTimeout = 30 * time.Second
	DefaultGlobalTimeout  = 120 * time.Second
	DefaultInitialDelay   = 1 * time.Second
	DefaultMultiplier     = 2.0
	DefaultMaxDelay       = 30 * time.Second
	DefaultLogLevel       = "info"
)

// Client is the resilient HTTP client surface.
type Client interface {
	Get(ctx context.Context, url string, opts *Options) (*Response, error)
	Post(ctx context.Context, url string, body any, opts *Options) (*Response, error)
	Put(ctx context.Context, url string, body any, opts *Options) (*Response, error)
	Do(ctx context.Context, req *Request) (*Response, error)
	// Stream performs a single retry-free attempt and forwards body
	// chunks to onChunk as they arrive. It returns once the transport
	// signals end-of-stream.
	Stream(ctx context.Context, req *Request, onChunk func(chunk string)) error
}

// Request describes one HTTP call. It is created fresh per call and
// owned exclusively by that call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	// Body is nil, a string, a []byte (both sent raw), or any value
	// serialized as JSON.
	Body any
	// Options overrides resolved configuration for this call only.
	Options *Options
}

// Options is a partial configuration layer. Nil fields inherit from the
// layer below; backoff and logging sub-objects merge field by field.
type Options struct {
	MaxRetries     *int
	RequestTimeout *time.Duration
	GlobalTimeout  *time.Duration
	Backoff        *BackoffOptions
	Logging        *LoggingOptions
}

// BackoffOptions overrides individual backoff parameters.
type BackoffOptions struct {
	InitialDelay *time.Duration
	Multiplier   *float64
	MaxDelay     *time.Duration
	Jitter       *bool
}

// LoggingOptions overrides the logging policy.
type LoggingOptions struct {
	Level      *string
	LogRetries *bool
}

// Config is a fully resolved configuration snapshot for one loop
// iteration. It is a value, never shared between iterations.
type Config struct {
	MaxRetries     int
	RequestTimeout time.Duration
	GlobalTimeout  time.Duration
	Backoff        BackoffConfig
	Logging        LoggingConfig
}

// BackoffConfig holds concrete backoff parameters.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// LoggingConfig holds the concrete logging policy.
type LoggingConfig struct {
	Level      string
	LogRetries bool
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		MaxRetries:     DefaultMaxRetries,
		RequestTimeout: DefaultRequestTimeout,
		GlobalTimeout:  DefaultGlobalTimeout,
		Backoff: BackoffConfig{
			InitialDelay: DefaultInitialDelay,
			Multiplier:   DefaultMultiplier,
			MaxDelay:     DefaultMaxDelay,
			Jitter:       true,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			LogRetries: true,
		},
	}
}

// Stats reports how a successful call went.
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
}

// Response is an immutable view of the final HTTP response.
type Response struct {
	Status     int
	StatusText string
	Headers    nethttp.Header
	Body       []byte
	Stats      Stats
}

// Pointer helpers for building partial Options.

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Duration returns a pointer to v.
func Duration(v time.Duration) *time.Duration { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
