package httpclient

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"attempt timeout", &TimeoutError{Timeout: time.Second, Scope: ScopeAttempt}, true},
		{"call timeout", &TimeoutError{Timeout: time.Minute, Scope: ScopeCall}, true},
		{"connection refused", &NetworkError{Code: CodeConnRefused, Err: errors.New("dial")}, true},
		{"connection reset", &NetworkError{Code: CodeConnReset, Err: errors.New("read")}, true},
		{"dns not found", &NetworkError{Code: CodeNotFound, Err: errors.New("lookup")}, true},
		{"dns again", &NetworkError{Code: CodeDNSAgain, Err: errors.New("lookup")}, true},
		{"net unreachable", &NetworkError{Code: CodeNetUnreach, Err: errors.New("dial")}, true},
		{"host unreachable", &NetworkError{Code: CodeHostUnreach, Err: errors.New("dial")}, true},
		{"timed out code", &NetworkError{Code: CodeTimedOut, Err: errors.New("dial")}, true},
		{"broken pipe is fatal", &NetworkError{Code: CodePipe, Err: errors.New("write")}, false},
		{"unknown code is fatal", &NetworkError{Err: errors.New("boom")}, false},
		{"http 500 retries", &HTTPError{Status: 500}, true},
		{"http 404 is fatal", &HTTPError{Status: 404}, false},
		{"http 501 is fatal", &HTTPError{Status: 501}, false},
		{"http 502 is fatal", &HTTPError{Status: 502}, false},
		{"http 503 is fatal", &HTTPError{Status: 503}, false},
		{"http 429 is fatal", &HTTPError{Status: 429}, false},
		{"plain error is fatal", errors.New("nope"), false},
		{"nil is not retryable", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		ok   bool
	}{
		{"http", &HTTPError{Status: 404}, KindHTTP, true},
		{"timeout", &TimeoutError{}, KindTimeout, true},
		{"network", &NetworkError{Err: errors.New("x")}, KindNetwork, true},
		{"exhausted", &RetryExhaustedError{LastErr: errors.New("x")}, KindRetryExhausted, true},
		{"wrapped", fmt.Errorf("context: %w", &HTTPError{Status: 500}), KindHTTP, true},
		{"foreign", errors.New("x"), Kind(""), false},
		{"nil", nil, Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestNetworkCode(t *testing.T) {
	t.Run("errno through the os wrapping chain", func(t *testing.T) {
		err := &net.OpError{
			Op:  "dial",
			Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
		}
		assert.Equal(t, CodeConnRefused, networkCode(err))
	})

	t.Run("bare errno", func(t *testing.T) {
		assert.Equal(t, CodeConnReset, networkCode(syscall.ECONNRESET))
		assert.Equal(t, CodeTimedOut, networkCode(syscall.ETIMEDOUT))
		assert.Equal(t, CodeHostUnreach, networkCode(syscall.EHOSTUNREACH))
	})

	t.Run("dns not found", func(t *testing.T) {
		err := &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}
		assert.Equal(t, CodeNotFound, networkCode(err))
	})

	t.Run("dns temporary failure", func(t *testing.T) {
		err := &net.DNSError{Err: "server misbehaving", Name: "flaky.example", IsTemporary: true}
		assert.Equal(t, CodeDNSAgain, networkCode(err))
	})

	t.Run("unmapped error yields empty code", func(t *testing.T) {
		assert.Equal(t, "", networkCode(errors.New("weird")))
	})
}

func TestErrorMessages(t *testing.T) {
	t.Run("http", func(t *testing.T) {
		err := &HTTPError{Status: 503, StatusText: "Service Unavailable"}
		assert.Equal(t, "http error: status 503 Service Unavailable", err.Error())
	})

	t.Run("timeout carries scope and elapsed", func(t *testing.T) {
		err := &TimeoutError{Timeout: 2 * time.Second, Elapsed: 2500 * time.Millisecond, Scope: ScopeAttempt}
		assert.Contains(t, err.Error(), "attempt")
		assert.Contains(t, err.Error(), "2s")
		assert.Contains(t, err.Error(), "2.5s")
	})

	t.Run("network with and without code", func(t *testing.T) {
		withCode := &NetworkError{Code: CodeConnRefused, Err: errors.New("dial tcp: refused")}
		assert.Contains(t, withCode.Error(), "[ECONNREFUSED]")
		bare := &NetworkError{Err: errors.New("dial tcp: refused")}
		assert.NotContains(t, bare.Error(), "[")
	})

	t.Run("exhausted wraps the last failure", func(t *testing.T) {
		last := &NetworkError{Code: CodeConnRefused, Err: errors.New("dial")}
		err := &RetryExhaustedError{Attempts: 4, Elapsed: time.Second, LastErr: last}
		assert.Contains(t, err.Error(), "4 attempts")

		var ne *NetworkError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, CodeConnRefused, ne.Code)
	})
}
