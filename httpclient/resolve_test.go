package httpclient

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is an isolated process-wide layer for tests.
type stubProvider struct {
	mu   sync.Mutex
	opts Options
}

func (p *stubProvider) Current() Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.clone()
}

func (p *stubProvider) set(opts Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = opts
}

func TestResolveDefaults(t *testing.T) {
	c := NewClient(nil).(*client)
	c.provider = &stubProvider{}

	cfg := c.resolve(&Request{URL: "http://example.com"})

	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultGlobalTimeout, cfg.GlobalTimeout)
	assert.Equal(t, DefaultInitialDelay, cfg.Backoff.InitialDelay)
	assert.InDelta(t, DefaultMultiplier, cfg.Backoff.Multiplier, 0.001)
	assert.Equal(t, DefaultMaxDelay, cfg.Backoff.MaxDelay)
	assert.True(t, cfg.Backoff.Jitter)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.True(t, cfg.Logging.LogRetries)
}

func TestResolvePrecedence(t *testing.T) {
	provider := &stubProvider{}
	provider.set(Options{MaxRetries: Int(5), RequestTimeout: Duration(10 * time.Second)})

	built := NewBuilder(nil).
		WithMaxRetries(1).
		WithGlobalTimeout(90 * time.Second).
		WithProvider(provider).
		Build()
	c := built.(*client)

	t.Run("global layer overrides construction", func(t *testing.T) {
		cfg := c.resolve(&Request{URL: "http://example.com"})
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	})

	t.Run("construction survives where global is unset", func(t *testing.T) {
		cfg := c.resolve(&Request{URL: "http://example.com"})
		assert.Equal(t, 90*time.Second, cfg.GlobalTimeout)
	})

	t.Run("per-request overrides win", func(t *testing.T) {
		req := &Request{
			URL:     "http://example.com",
			Options: &Options{MaxRetries: Int(0), RequestTimeout: Duration(time.Second)},
		}
		cfg := c.resolve(req)
		assert.Equal(t, 0, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
		// Untouched fields still come from the lower layers.
		assert.Equal(t, 90*time.Second, cfg.GlobalTimeout)
	})
}

func TestResolveBackoffMergesFieldByField(t *testing.T) {
	provider := &stubProvider{}
	provider.set(Options{Backoff: &BackoffOptions{
		InitialDelay: Duration(50 * time.Millisecond),
		MaxDelay:     Duration(2 * time.Second),
	}})

	c := NewClient(nil).(*client)
	c.provider = provider

	req := &Request{
		URL:     "http://example.com",
		Options: &Options{Backoff: &BackoffOptions{Jitter: Bool(false)}},
	}
	cfg := c.resolve(req)

	// Only jitter was overridden per-request; the rest of the backoff
	// quadruple survives from the layers below.
	assert.False(t, cfg.Backoff.Jitter)
	assert.Equal(t, 50*time.Millisecond, cfg.Backoff.InitialDelay)
	assert.Equal(t, 2*time.Second, cfg.Backoff.MaxDelay)
	assert.InDelta(t, DefaultMultiplier, cfg.Backoff.Multiplier, 0.001)
}

func TestResolveLoggingMergesFieldByField(t *testing.T) {
	c := NewBuilder(nil).
		WithLogging(LoggingOptions{Level: String("debug")}).
		WithProvider(&stubProvider{}).
		Build().(*client)

	req := &Request{
		URL:     "http://example.com",
		Options: &Options{Logging: &LoggingOptions{LogRetries: Bool(false)}},
	}
	cfg := c.resolve(req)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.LogRetries)
}

func TestResolveReadsProviderEveryCall(t *testing.T) {
	provider := &stubProvider{}
	c := NewClient(nil).(*client)
	c.provider = provider

	first := c.resolve(&Request{URL: "http://example.com"})
	assert.Equal(t, DefaultMaxRetries, first.MaxRetries)

	// A concurrent global change is visible to the next resolution of
	// the same call sequence.
	provider.set(Options{MaxRetries: Int(9)})
	second := c.resolve(&Request{URL: "http://example.com"})
	assert.Equal(t, 9, second.MaxRetries)
}

func TestResolveAcceptsOutOfRangeValues(t *testing.T) {
	c := NewClient(nil).(*client)
	c.provider = &stubProvider{}

	req := &Request{
		URL: "http://example.com",
		Options: &Options{
			MaxRetries: Int(-2),
			Backoff:    &BackoffOptions{InitialDelay: Duration(-time.Second)},
		},
	}
	cfg := c.resolve(req)

	// No validation beyond shape; out-of-range values pass through.
	assert.Equal(t, -2, cfg.MaxRetries)
	assert.Equal(t, -time.Second, cfg.Backoff.InitialDelay)
}

func TestGlobalConfigStore(t *testing.T) {
	t.Cleanup(ResetGlobalConfig)
	ResetGlobalConfig()

	SetGlobalConfig(Options{MaxRetries: Int(7)})
	SetGlobalConfig(Options{Backoff: &BackoffOptions{Jitter: Bool(false)}})

	got := GlobalConfig()
	require.NotNil(t, got.MaxRetries)
	assert.Equal(t, 7, *got.MaxRetries)
	require.NotNil(t, got.Backoff)
	require.NotNil(t, got.Backoff.Jitter)
	assert.False(t, *got.Backoff.Jitter)
	// Merging preserved unrelated unset fields.
	assert.Nil(t, got.RequestTimeout)

	t.Run("snapshot is isolated from the store", func(t *testing.T) {
		snap := GlobalConfig()
		*snap.MaxRetries = 99
		assert.Equal(t, 7, *GlobalConfig().MaxRetries)
	})
}

func TestOptionsClone(t *testing.T) {
	orig := Options{
		MaxRetries: Int(2),
		Backoff:    &BackoffOptions{InitialDelay: Duration(time.Second)},
		Logging:    &LoggingOptions{Level: String("warn")},
	}
	cp := orig.clone()

	*cp.MaxRetries = 10
	*cp.Backoff.InitialDelay = time.Minute
	*cp.Logging.Level = "error"

	assert.Equal(t, 2, *orig.MaxRetries)
	assert.Equal(t, time.Second, *orig.Backoff.InitialDelay)
	assert.Equal(t, "warn", *orig.Logging.Level)
}
