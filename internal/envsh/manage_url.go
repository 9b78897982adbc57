package envsh

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// Endpoint receives all creation requests
	Endpoint = "https://envs.sh"

	// Domain is the only host accepted for management requests
	Domain = "envs.sh"
)

// ErrInvalidManageURL is returned for management URLs outside the service
var ErrInvalidManageURL = errors.New(`url must start with "https://envs.sh"`)

// ParseManageURL accepts only https URLs whose host is Domain
func ParseManageURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidManageURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid management url: %w", err)
	}

	if !IsServiceURL(u) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidManageURL, raw)
	}

	return u, nil
}

// IsServiceURL reports whether u is an https URL on Domain. URL hosts are
// case-insensitive and the port is not part of the domain.
func IsServiceURL(u *url.URL) bool {
	return u != nil && u.Scheme == "https" && strings.EqualFold(u.Hostname(), Domain)
}
