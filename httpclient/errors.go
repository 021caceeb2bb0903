package httpclient

import (
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"syscall"
	"time"
)

// Kind tags the four terminal failure categories. Every non-success
// call path ends in exactly one of them.
type Kind string

const (
	KindHTTP           Kind = "http"
	KindTimeout        Kind = "timeout"
	KindNetwork        Kind = "network"
	KindRetryExhausted Kind = "retry_exhausted"
)

// TimeoutScope distinguishes which budget a TimeoutError exceeded.
type TimeoutScope string

const (
	// ScopeAttempt means a single attempt exceeded RequestTimeout.
	ScopeAttempt TimeoutScope = "attempt"
	// ScopeCall means the whole call exceeded GlobalTimeout.
	ScopeCall TimeoutScope = "call"
)

// Sentinel errors for caller misuse, outside the failure taxonomy.
var (
	ErrNilRequest      = errors.New("httpclient: request is nil")
	ErrEmptyURL        = errors.New("httpclient: request URL is empty")
	ErrNilChunkHandler = errors.New("httpclient: chunk handler is nil")
)

// HTTPError reports a response with status >= 400. It carries the full
// response so the failure can be diagnosed without logs.
type HTTPError struct {
	Status     int
	StatusText string
	Headers    nethttp.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d %s", e.Status, e.StatusText)
}

// Kind returns KindHTTP.
func (e *HTTPError) Kind() Kind { return KindHTTP }

// TimeoutError reports an exceeded timeout budget.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
	Scope   TimeoutScope
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s budget %v exceeded after %v", e.Scope, e.Timeout, e.Elapsed)
}

// Kind returns KindTimeout.
func (e *TimeoutError) Kind() Kind { return KindTimeout }

// NetworkError reports a transport failure below the HTTP layer. Code
// is the OS-level error name when one could be determined.
type NetworkError struct {
	Code string
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("network error [%s]: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

// Kind returns KindNetwork.
func (e *NetworkError) Kind() Kind { return KindNetwork }

func (e *NetworkError) Unwrap() error { return e.Err }

// RetryExhaustedError reports that a retryable failure recurred past
// the attempt budget. LastErr is the final underlying failure.
type RetryExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts in %v: %v", e.Attempts, e.Elapsed, e.LastErr)
}

// Kind returns KindRetryExhausted.
func (e *RetryExhaustedError) Kind() Kind { return KindRetryExhausted }

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }

// KindOf returns the failure kind of err, if it belongs to the taxonomy.
func KindOf(err error) (Kind, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return KindHTTP, true
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return KindTimeout, true
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return KindNetwork, true
	}
	var re *RetryExhaustedError
	if errors.As(err, &re) {
		return KindRetryExhausted, true
	}
	return "", false
}

// OS-level network error codes considered transient.
const (
	CodeConnRefused  = "ECONNREFUSED"
	CodeConnReset    = "ECONNRESET"
	CodeTimedOut     = "ETIMEDOUT"
	CodeNotFound     = "ENOTFOUND"
	CodeDNSAgain     = "EAI_AGAIN"
	CodeNetUnreach   = "ENETUNREACH"
	CodeHostUnreach  = "EHOSTUNREACH"
	CodePipe         = "EPIPE"
	CodeConnAborted  = "ECONNABORTED"
	CodeAddrNotAvail = "EADDRNOTAVAIL"
)

var retryableNetworkCodes = map[string]bool{
	CodeConnRefused: true,
	CodeConnReset:   true,
	CodeTimedOut:    true,
	CodeNotFound:    true,
	CodeDNSAgain:    true,
	CodeNetUnreach:  true,
	CodeHostUnreach: true,
}

var errnoNames = map[syscall.Errno]string{
	syscall.ECONNREFUSED:  CodeConnRefused,
	syscall.ECONNRESET:    CodeConnReset,
	syscall.ETIMEDOUT:     CodeTimedOut,
	syscall.ENETUNREACH:   CodeNetUnreach,
	syscall.EHOSTUNREACH:  CodeHostUnreach,
	syscall.EPIPE:         CodePipe,
	syscall.ECONNABORTED:  CodeConnAborted,
	syscall.EADDRNOTAVAIL: CodeAddrNotAvail,
}

// networkCode maps a transport error to its OS-level code name, or ""
// when none applies.
func networkCode(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return CodeNotFound
		}
		return CodeDNSAgain
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name, ok := errnoNames[errno]; ok {
			return name
		}
	}
	return ""
}

// IsRetryable reports whether a failure is transient: any timeout, a
// network error with a transient OS code, or an HTTP 500 exactly. All
// other HTTP statuses (4xx, 501-511) are fatal.
func IsRetryable(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return retryableNetworkCodes[ne.Code]
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status == nethttp.StatusInternalServerError
	}
	return false
}
