package httpclient

import (
	"context"
	"io"
	nethttp "net/http"
	"time"
)

// streamChunkSize is the read granularity for streamed bodies.
const streamChunkSize = 4096

// Stream performs exactly one attempt and forwards each received body
// chunk, decoded as text, to onChunk in arrival order. It returns nil
// once the transport signals end-of-stream.
//
// There is no retry on this path: partial output may already have been
// delivered to the caller. RequestTimeout bounds the connect and
// response-header phase only; once streaming has begun, a transport
// error surfaces as a NetworkError immediately.
func (c *client) Stream(ctx context.Context, req *Request, onChunk func(chunk string)) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if onChunk == nil {
		return ErrNilChunkHandler
	}

	cfg := c.resolve(req)
	start := time.Now()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if c.logEnabled(cfg, "debug") {
		c.log.Debug().
			Str("method", httpReq.Method).
			Str("url", req.URL).
			Msg("stream start")
	}

	// No overall client timeout: the body may legitimately stream for
	// longer than any single-attempt budget.
	transport := newTransport(cfg.RequestTimeout)
	transport.ResponseHeaderTimeout = cfg.RequestTimeout
	defer transport.CloseIdleConnections()
	httpClient := &nethttp.Client{
		Transport: transport,
		CheckRedirect: func(_ *nethttp.Request, _ []*nethttp.Request) error {
			return nethttp.ErrUseLastResponse
		},
	}

	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{
				Timeout: cfg.RequestTimeout,
				Elapsed: time.Since(start),
				Scope:   ScopeAttempt,
			}
		}
		return &NetworkError{Code: networkCode(err), Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= nethttp.StatusBadRequest {
		body, _ := io.ReadAll(httpResp.Body)
		return &HTTPError{
			Status:     httpResp.StatusCode,
			StatusText: nethttp.StatusText(httpResp.StatusCode),
			Headers:    httpResp.Header,
			Body:       body,
		}
	}

	buf := make([]byte, streamChunkSize)
	for {
		n, err := httpResp.Body.Read(buf)
		if n > 0 {
			onChunk(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return &NetworkError{Code: networkCode(err), Err: err}
		}
	}

	if c.logEnabled(cfg, "debug") {
		c.log.Debug().
			Str("url", req.URL).
			Dur("elapsed", time.Since(start)).
			Msg("stream complete")
	}
	return nil
}
