package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/rely-go/rely/logger"
	"github.com/rely-go/rely/trace"
)

// outcome is the explicit result category of one attempt; the retry
// loop branches on it instead of on error unwinding.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetry
	outcomeFatal
)

type attemptResult struct {
	outcome outcome
	resp    *Response
	err     error
}

func classify(resp *Response, err error) attemptResult {
	if err == nil {
		return attemptResult{outcome: outcomeSuccess, resp: resp}
	}
	if IsRetryable(err) {
		return attemptResult{outcome: outcomeRetry, err: err}
	}
	return attemptResult{outcome: outcomeFatal, err: err}
}

// attempt performs exactly one network attempt: connect, send, receive,
// classify. Each attempt gets a fresh transport so no connection is
// reused across attempts or calls.
func (c *client) attempt(ctx context.Context, req *Request, cfg Config, index int) attemptResult {
	start := time.Now()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return classify(nil, &NetworkError{Err: err})
	}

	if c.logEnabled(cfg, "debug") {
		c.log.Debug().
			Str("method", httpReq.Method).
			Str("url", req.URL).
			Int("attempt", index).
			Msg("attempt start")
	}

	transport := newTransport(cfg.RequestTimeout)
	defer transport.CloseIdleConnections()
	httpClient := &nethttp.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: transport,
		CheckRedirect: func(_ *nethttp.Request, _ []*nethttp.Request) error {
			return nethttp.ErrUseLastResponse
		},
	}

	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return classify(nil, &TimeoutError{
				Timeout: cfg.RequestTimeout,
				Elapsed: time.Since(start),
				Scope:   ScopeAttempt,
			})
		}
		return classify(nil, &NetworkError{Code: networkCode(err), Err: err})
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if isTimeout(err) {
			return classify(nil, &TimeoutError{
				Timeout: cfg.RequestTimeout,
				Elapsed: time.Since(start),
				Scope:   ScopeAttempt,
			})
		}
		return classify(nil, &NetworkError{Code: networkCode(err), Err: err})
	}

	resp := &Response{
		Status:     httpResp.StatusCode,
		StatusText: nethttp.StatusText(httpResp.StatusCode),
		Headers:    httpResp.Header,
		Body:       body,
	}

	if resp.Status >= nethttp.StatusBadRequest {
		return classify(nil, &HTTPError{
			Status:     resp.Status,
			StatusText: resp.StatusText,
			Headers:    resp.Headers,
			Body:       resp.Body,
		})
	}

	if c.logEnabled(cfg, "debug") {
		c.log.Debug().
			Str("method", httpReq.Method).
			Str("url", req.URL).
			Int("attempt", index).
			Int("status", resp.Status).
			Dur("elapsed", time.Since(start)).
			Msg("attempt success")
	}
	return classify(resp, nil)
}

// buildRequest constructs the outbound request: query encoding, body
// serialization, headers, and the request ID stamp.
func (c *client) buildRequest(ctx context.Context, req *Request) (*nethttp.Request, error) {
	target := req.URL
	if len(req.Query) > 0 {
		u, err := neturl.Parse(req.URL)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for key, value := range req.Query {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	body, contentType, err := serializeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	// Client-level defaults first, request headers override them.
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get(trace.HeaderXRequestID) == "" {
		httpReq.Header.Set(trace.HeaderXRequestID, trace.EnsureRequestID(ctx))
	}
	return httpReq, nil
}

// serializeBody renders the request body: strings and byte slices are
// sent raw, anything else is marshaled as JSON.
func serializeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// newTransport returns a single-use transport. Keep-alives are off so
// every attempt opens and fully owns one connection.
func newTransport(dialTimeout time.Duration) *nethttp.Transport {
	return &nethttp.Transport{
		Proxy: nethttp.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
		DisableKeepAlives: true,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *client) logEnabled(cfg Config, level string) bool {
	return c.log != nil && logger.LevelEnabled(cfg.Logging.Level, level)
}
