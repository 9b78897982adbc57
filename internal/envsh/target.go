package envsh

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

// ErrInvalidTarget is returned when a target is neither a regular file nor an absolute URL
var ErrInvalidTarget = errors.New("target must be an existing file or an absolute URL")

// TargetKind tells which variant of a Target is populated
type TargetKind int

const (
	TargetFile TargetKind = iota + 1
	TargetURL
)

func (k TargetKind) String() string {
	switch k {
	case TargetFile:
		return "file"
	case TargetURL:
		return "url"
	default:
		return "unknown"
	}
}

// Target is a file or URL to send to the service
type Target struct {
	kind TargetKind
	path string
	url  *url.URL
}

// FileTarget returns a target for a local file path. The path is not checked.
func FileTarget(path string) Target {
	return Target{kind: TargetFile, path: path}
}

// URLTarget returns a target for a remote URL
func URLTarget(u *url.URL) Target {
	return Target{kind: TargetURL, url: u}
}

// ParseTarget classifies raw as a local regular file if one exists at that
// path, and as an absolute URL otherwise.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty value", ErrInvalidTarget)
	}

	if info, err := os.Stat(raw); err == nil && info.Mode().IsRegular() {
		return FileTarget(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, raw)
	}

	return URLTarget(u), nil
}

func (t Target) Kind() TargetKind { return t.kind }

func (t Target) IsFile() bool { return t.kind == TargetFile }

func (t Target) IsURL() bool { return t.kind == TargetURL }

// Path returns the file path of a file target, or "" for a URL target
func (t Target) Path() string { return t.path }

// URL returns the URL of a URL target, or nil for a file target
func (t Target) URL() *url.URL { return t.url }

func (t Target) String() string {
	switch t.kind {
	case TargetFile:
		return t.path
	case TargetURL:
		return t.url.String()
	default:
		return ""
	}
}
