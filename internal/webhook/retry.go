package webhook

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// delay is how long to wait after the given failed attempt (1-based). A
// receiver's Retry-After wins when it is longer than the backoff; both are
// capped at MaxDelay. The backoff gets ±10% jitter.
func (rc *RetryConfig) delay(attempt int, retryAfter time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}

	multiplier := rc.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	backoff := float64(rc.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if rc.MaxDelay > 0 && backoff > float64(rc.MaxDelay) {
		backoff = float64(rc.MaxDelay)
	}
	backoff += (rand.Float64()*2 - 1) * backoff * 0.1

	wait := time.Duration(backoff)
	if retryAfter > wait {
		wait = retryAfter
	}
	if rc.MaxDelay > 0 && wait > rc.MaxDelay {
		wait = rc.MaxDelay
	}
	return wait
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. Missing, invalid and past values are zero.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// isRetryableStatus reports statuses a receipt receiver may accept later
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooEarly,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
