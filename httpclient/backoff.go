package httpclient

import (
	"math"
	"math/rand/v2"
	"time"
)

// Delay returns the backoff delay before the given retry. retry is
// 0-based: 0 for the first retry, 1 for the second, and so on.
//
// delay = min(InitialDelay * Multiplier^retry, MaxDelay), scaled by a
// random factor in [0.5, 1.0) when Jitter is enabled. The result is
// floored to whole milliseconds.
func Delay(retry int, cfg BackoffConfig) time.Duration {
	return delay(retry, cfg, rand.Float64)
}

func delay(retry int, cfg BackoffConfig, rnd func() float64) time.Duration {
	if retry < 0 {
		retry = 0
	}
	d := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(retry))
	if cfg.MaxDelay > 0 && d > float64(cfg.MaxDelay) {
		d = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		d *= 0.5 + rnd()*0.5
	}
	ms := int64(d / float64(time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
