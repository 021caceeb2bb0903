// Package httpclient provides a resilient HTTP client that retries
// transient failures with exponential backoff under two independent
// timeout budgets.
//
// Retries
//   - Controlled via MaxRetries; total attempts never exceed 1+MaxRetries.
//   - Retries occur on:
//   - Per-attempt timeouts
//   - Network errors with a transient OS code (ECONNREFUSED, ECONNRESET,
//     ETIMEDOUT, ENOTFOUND, EAI_AGAIN, ENETUNREACH, EHOSTUNREACH)
//   - HTTP 500 responses
//   - Every other HTTP status >= 400 is fatal and surfaces immediately.
//
// Timeouts
//   - RequestTimeout bounds a single attempt.
//   - GlobalTimeout bounds the whole call including backoff sleeps; it is
//     checked at loop entry only, so an attempt or sleep already in
//     progress runs to completion before the budget is enforced.
//
// Configuration cascade
//   - Package defaults < construction-time options (Builder) < current
//     process-wide options (Provider) < per-request options.
//   - The process-wide layer is re-read on every loop iteration, so a
//     concurrent SetGlobalConfig call can alter an in-flight sequence.
//
// Backoff
//   - delay = min(InitialDelay * Multiplier^retry, MaxDelay), then
//     scaled by a random factor in [0.5, 1.0) when Jitter is enabled,
//     floored to whole milliseconds.
//
// Notes
//   - Each attempt opens a fresh connection; nothing is reused.
//   - Request bodies are re-serialized by rebuilding the request on
//     each attempt.
//   - Stream performs exactly one attempt and never retries, because
//     chunks may already have reached the caller.
package httpclient
