package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/rely-go/rely/logger"
)

// client implements the Client interface.
type client struct {
	defaults Options
	headers  map[string]string
	provider Provider
	log      logger.Logger
}

// NewClient creates a client with no construction-time overrides: every
// call resolves against the package defaults and the global layer.
func NewClient(log logger.Logger) Client {
	return &client{
		headers:  make(map[string]string),
		provider: DefaultProvider(),
		log:      log,
	}
}

// Builder accumulates construction-time defaults for a client. Fields
// left unset inherit from the global layer and the package defaults.
type Builder struct {
	opts     Options
	headers  map[string]string
	provider Provider
	log      logger.Logger
}

// NewBuilder creates a client builder.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		headers:  make(map[string]string),
		provider: DefaultProvider(),
		log:      log,
	}
}

// WithMaxRetries sets the construction-time retry budget.
func (b *Builder) WithMaxRetries(n int) *Builder {
	b.opts.MaxRetries = Int(n)
	return b
}

// WithRequestTimeout sets the construction-time per-attempt timeout.
func (b *Builder) WithRequestTimeout(d time.Duration) *Builder {
	b.opts.RequestTimeout = Duration(d)
	return b
}

// WithGlobalTimeout sets the construction-time whole-call timeout.
func (b *Builder) WithGlobalTimeout(d time.Duration) *Builder {
	b.opts.GlobalTimeout = Duration(d)
	return b
}

// WithBackoff overlays construction-time backoff parameters.
func (b *Builder) WithBackoff(backoff BackoffOptions) *Builder {
	b.opts.Backoff = &backoff
	return b
}

// WithLogging overlays the construction-time logging policy.
func (b *Builder) WithLogging(logging LoggingOptions) *Builder {
	b.opts.Logging = &logging
	return b
}

// WithDefaultHeader adds a header sent with every request unless the
// request sets the same key.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithProvider replaces the global-configuration source, letting tests
// isolate instances instead of mutating shared state.
func (b *Builder) WithProvider(p Provider) *Builder {
	if p != nil {
		b.provider = p
	}
	return b
}

// Build creates the client.
func (b *Builder) Build() Client {
	return &client{
		defaults: b.opts.clone(),
		headers:  b.headers,
		provider: b.provider,
		log:      b.log,
	}
}

// Get performs a GET request.
func (c *client) Get(ctx context.Context, url string, opts *Options) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, URL: url, Options: opts})
}

// Post performs a POST request.
func (c *client) Post(ctx context.Context, url string, body any, opts *Options) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, URL: url, Body: body, Options: opts})
}

// Put performs a PUT request.
func (c *client) Put(ctx context.Context, url string, body any, opts *Options) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, URL: url, Body: body, Options: opts})
}

// Do runs the retry loop for one call.
//
// Each iteration re-resolves configuration, checks the global budget,
// performs one attempt, and branches on the attempt outcome: success
// returns the response, a fatal failure returns the original error
// unwrapped, and a retryable failure either backs off or exhausts the
// budget. Total attempts never exceed 1+MaxRetries.
func (c *client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	for attempt := 0; ; attempt++ {
		cfg := c.resolve(req)

		// Global budget is enforced at loop entry only; an attempt or
		// sleep already in progress runs to completion first.
		if cfg.GlobalTimeout > 0 && time.Since(start) >= cfg.GlobalTimeout {
			return nil, &TimeoutError{
				Timeout: cfg.GlobalTimeout,
				Elapsed: time.Since(start),
				Scope:   ScopeCall,
			}
		}

		res := c.attempt(ctx, req, cfg, attempt)
		switch res.outcome {
		case outcomeSuccess:
			res.resp.Stats = Stats{ElapsedTime: time.Since(start), Attempts: attempt + 1}
			return res.resp, nil
		case outcomeFatal:
			return nil, res.err
		}

		if attempt+1 >= 1+cfg.MaxRetries {
			return nil, &RetryExhaustedError{
				Attempts: attempt + 1,
				Elapsed:  time.Since(start),
				LastErr:  res.err,
			}
		}

		// The retry number is 0-based: the sleep before attempt N+1
		// uses retry index N.
		wait := Delay(attempt, cfg.Backoff)
		if cfg.Logging.LogRetries && c.logEnabled(cfg, "warn") {
			c.log.Warn().
				Int("attempt", attempt+1).
				Dur("delay", wait).
				Err(res.err).
				Msg("retrying request")
		}
		time.Sleep(wait)
	}
}

func validateRequest(req *Request) error {
	if req == nil {
		return ErrNilRequest
	}
	if req.URL == "" {
		return ErrEmptyURL
	}
	return nil
}
