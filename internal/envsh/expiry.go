package envsh

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxExpiryHours is the largest value read as a relative hour count.
// Anything above it is an absolute timestamp in epoch milliseconds.
const MaxExpiryHours int64 = 365 * 24

// ErrInvalidExpiry is returned for values that are neither hours nor a usable timestamp
var ErrInvalidExpiry = errors.New("expiry must be hours or epoch milliseconds")

var maxTimestamp = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli()

// Expiry is the time at which a hosted file is deleted
type Expiry struct {
	hours     int64
	timestamp time.Time
	absolute  bool
}

// HoursExpiry deletes the file the given number of hours after upload
func HoursExpiry(h int64) Expiry {
	return Expiry{hours: h}
}

// TimestampExpiry deletes the file at t, truncated to milliseconds
func TimestampExpiry(t time.Time) Expiry {
	return Expiry{timestamp: time.UnixMilli(t.UnixMilli()), absolute: true}
}

// ParseExpiry reads a decimal integer as hours when it is at most
// MaxExpiryHours and as epoch milliseconds otherwise.
func ParseExpiry(raw string) (Expiry, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return Expiry{}, fmt.Errorf("%w: %q", ErrInvalidExpiry, raw)
	}
	return ExpiryFromInt(n)
}

// ExpiryFromInt classifies an already parsed value, see ParseExpiry
func ExpiryFromInt(n int64) (Expiry, error) {
	if n <= MaxExpiryHours {
		return HoursExpiry(n), nil
	}
	if n > maxTimestamp {
		return Expiry{}, fmt.Errorf("%w: timestamp %d is out of range", ErrInvalidExpiry, n)
	}
	return TimestampExpiry(time.UnixMilli(n)), nil
}

// IsTimestamp reports whether the expiry is an absolute time
func (e Expiry) IsTimestamp() bool { return e.absolute }

// Hours returns the relative hour count; only meaningful when !IsTimestamp()
func (e Expiry) Hours() int64 { return e.hours }

// Time returns the absolute time; only meaningful when IsTimestamp()
func (e Expiry) Time() time.Time { return e.timestamp }

// String is the form field value: plain hours or epoch milliseconds
func (e Expiry) String() string {
	if e.absolute {
		return strconv.FormatInt(e.timestamp.UnixMilli(), 10)
	}
	return strconv.FormatInt(e.hours, 10)
}
