package httpclient

import "sync"

// Provider supplies the current process-wide configuration layer. It is
// consulted on every loop iteration, so a call picks up global changes
// between attempts. Tests inject their own Provider to avoid shared
// global state.
type Provider interface {
	Current() Options
}

// globalStore is the default process-wide configuration layer.
type globalStore struct {
	mu   sync.RWMutex
	opts Options
}

func (s *globalStore) Current() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.clone()
}

func (s *globalStore) set(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.merge(opts)
}

func (s *globalStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = Options{}
}

var defaultStore = &globalStore{}

// DefaultProvider returns the provider backed by the package-level
// global configuration.
func DefaultProvider() Provider { return defaultStore }

// SetGlobalConfig merges opts into the process-wide configuration
// layer. Set fields take effect for every subsequently resolved config,
// including the remaining iterations of in-flight calls.
func SetGlobalConfig(opts Options) { defaultStore.set(opts) }

// GlobalConfig returns a snapshot of the process-wide layer.
func GlobalConfig() Options { return defaultStore.Current() }

// ResetGlobalConfig clears the process-wide layer back to empty.
func ResetGlobalConfig() { defaultStore.reset() }

// clone returns a deep copy so snapshots stay value-isolated.
func (o Options) clone() Options {
	out := Options{}
	if o.MaxRetries != nil {
		out.MaxRetries = Int(*o.MaxRetries)
	}
	if o.RequestTimeout != nil {
		out.RequestTimeout = Duration(*o.RequestTimeout)
	}
	if o.GlobalTimeout != nil {
		out.GlobalTimeout = Duration(*o.GlobalTimeout)
	}
	if o.Backoff != nil {
		b := BackoffOptions{}
		if o.Backoff.InitialDelay != nil {
			b.InitialDelay = Duration(*o.Backoff.InitialDelay)
		}
		if o.Backoff.Multiplier != nil {
			b.Multiplier = Float64(*o.Backoff.Multiplier)
		}
		if o.Backoff.MaxDelay != nil {
			b.MaxDelay = Duration(*o.Backoff.MaxDelay)
		}
		if o.Backoff.Jitter != nil {
			b.Jitter = Bool(*o.Backoff.Jitter)
		}
		out.Backoff = &b
	}
	if o.Logging != nil {
		l := LoggingOptions{}
		if o.Logging.Level != nil {
			l.Level = String(*o.Logging.Level)
		}
		if o.Logging.LogRetries != nil {
			l.LogRetries = Bool(*o.Logging.LogRetries)
		}
		out.Logging = &l
	}
	return out
}

// merge overlays set fields of in onto o, field by field for the
// backoff and logging sub-objects.
func (o *Options) merge(in Options) {
	if in.MaxRetries != nil {
		o.MaxRetries = Int(*in.MaxRetries)
	}
	if in.RequestTimeout != nil {
		o.RequestTimeout = Duration(*in.RequestTimeout)
	}
	if in.GlobalTimeout != nil {
		o.GlobalTimeout = Duration(*in.GlobalTimeout)
	}
	if in.Backoff != nil {
		if o.Backoff == nil {
			o.Backoff = &BackoffOptions{}
		}
		if in.Backoff.InitialDelay != nil {
			o.Backoff.InitialDelay = Duration(*in.Backoff.InitialDelay)
		}
		if in.Backoff.Multiplier != nil {
			o.Backoff.Multiplier = Float64(*in.Backoff.Multiplier)
		}
		if in.Backoff.MaxDelay != nil {
			o.Backoff.MaxDelay = Duration(*in.Backoff.MaxDelay)
		}
		if in.Backoff.Jitter != nil {
			o.Backoff.Jitter = Bool(*in.Backoff.Jitter)
		}
	}
	if in.Logging != nil {
		if o.Logging == nil {
			o.Logging = &LoggingOptions{}
		}
		if in.Logging.Level != nil {
			o.Logging.Level = String(*in.Logging.Level)
		}
		if in.Logging.LogRetries != nil {
			o.Logging.LogRetries = Bool(*in.Logging.LogRetries)
		}
	}
}

// apply overlays a partial layer onto a resolved config.
func (c *Config) apply(o *Options) {
	if o == nil {
		return
	}
	if o.MaxRetries != nil {
		c.MaxRetries = *o.MaxRetries
	}
	if o.RequestTimeout != nil {
		c.RequestTimeout = *o.RequestTimeout
	}
	if o.GlobalTimeout != nil {
		c.GlobalTimeout = *o.GlobalTimeout
	}
	if o.Backoff != nil {
		if o.Backoff.InitialDelay != nil {
			c.Backoff.InitialDelay = *o.Backoff.InitialDelay
		}
		if o.Backoff.Multiplier != nil {
			c.Backoff.Multiplier = *o.Backoff.Multiplier
		}
		if o.Backoff.MaxDelay != nil {
			c.Backoff.MaxDelay = *o.Backoff.MaxDelay
		}
		if o.Backoff.Jitter != nil {
			c.Backoff.Jitter = *o.Backoff.Jitter
		}
	}
	if o.Logging != nil {
		if o.Logging.Level != nil {
			c.Logging.Level = *o.Logging.Level
		}
		if o.Logging.LogRetries != nil {
			c.Logging.LogRetries = *o.Logging.LogRetries
		}
	}
}

// resolve merges, lowest precedence first: package defaults,
// construction-time options, the provider's current process-wide
// options, and per-request options. Values pass through unvalidated;
// the caller is responsible for sane ranges.
func (c *client) resolve(req *Request) Config {
	cfg := Defaults()
	cfg.apply(&c.defaults)
	current := c.provider.Current()
	cfg.apply(&current)
	if req != nil {
		cfg.apply(req.Options)
	}
	return cfg
}
