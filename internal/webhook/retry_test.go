package webhook

import (
	"net/http"
	"testing"
	"time"
)

func TestRetryConfigDelay(t *testing.T) {
	rc := &RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 3}

	tests := []struct {
		name       string
		attempt    int
		retryAfter time.Duration
		min, max   time.Duration
	}{
		{name: "before first attempt", attempt: 0},
		{name: "after first attempt", attempt: 1, min: 90 * time.Millisecond, max: 110 * time.Millisecond},
		{name: "grows by multiplier", attempt: 3, min: 810 * time.Millisecond, max: 990 * time.Millisecond},
		{name: "capped", attempt: 8, min: 1800 * time.Millisecond, max: 2 * time.Second},
		{name: "longer retry-after wins", attempt: 1, retryAfter: time.Second, min: time.Second, max: time.Second},
		{name: "shorter retry-after ignored", attempt: 3, retryAfter: time.Millisecond, min: 810 * time.Millisecond, max: 990 * time.Millisecond},
		{name: "retry-after capped", attempt: 1, retryAfter: time.Minute, min: 2 * time.Second, max: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rc.delay(tt.attempt, tt.retryAfter)
			if got < tt.min || got > tt.max {
				t.Errorf("delay(%d, %v) = %v, want within [%v, %v]", tt.attempt, tt.retryAfter, got, tt.min, tt.max)
			}
		})
	}
}

func TestRetryConfigDelay_DefaultMultiplier(t *testing.T) {
	rc := &RetryConfig{InitialDelay: 100 * time.Millisecond}

	if got := rc.delay(2, 0); got < 180*time.Millisecond || got > 220*time.Millisecond {
		t.Errorf("Expected doubling without a multiplier, got %v", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "absent", raw: "", want: 0},
		{name: "seconds", raw: "3", want: 3 * time.Second},
		{name: "padded seconds", raw: " 2 ", want: 2 * time.Second},
		{name: "negative", raw: "-5", want: 0},
		{name: "http date", raw: now.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second},
		{name: "past date", raw: now.Add(-time.Hour).Format(http.TimeFormat), want: 0},
		{name: "garbage", raw: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.raw, now); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{408, 425, 429, 500, 502, 503, 504}
	final := []int{200, 204, 301, 400, 401, 403, 404, 410, 413, 501, 505}

	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Errorf("Expected %d to be retried", code)
		}
	}
	for _, code := range final {
		if isRetryableStatus(code) {
			t.Errorf("Expected %d not to be retried", code)
		}
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	want := RetryConfig{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2}
	if got := *DefaultRetryConfig(); got != want {
		t.Errorf("DefaultRetryConfig() = %+v, want %+v", got, want)
	}
}
