package envsh

import (
	"errors"
	"fmt"
	"net/url"
)

// Form field names understood by the service
const (
	FieldFile    = "file"
	FieldURL     = "url"
	FieldShorten = "shorten"
	FieldSecret  = "secret"
	FieldExpires = "expires"
	FieldToken   = "token"
	FieldDelete  = "delete"
)

var (
	// ErrShortenFile is returned when shortening is requested for a local file
	ErrShortenFile = errors.New("--shorten cannot be used with a file path")

	// ErrShortenExpiry is returned when an expiry is given for a shortened URL
	ErrShortenExpiry = errors.New("--expires cannot be used with --shorten")

	// ErrManageAction is returned unless exactly one of delete or expires is set
	ErrManageAction = errors.New("exactly one of --expires or --delete is required")

	// ErrMissingToken is returned for management requests without a token
	ErrMissingToken = errors.New("token is required")
)

// CreateRequest describes a new upload or short link
type CreateRequest struct {
	Target        Target
	Shorten       bool
	Secret        bool
	Expires       *Expiry
	DisplaySecret bool
}

// PrimaryField returns the field that carries the target
func (r *CreateRequest) PrimaryField() (string, error) {
	switch {
	case r.Target.IsFile() && r.Shorten:
		return "", fmt.Errorf("%w %s", ErrShortenFile, r.Target.Path())
	case r.Target.IsFile():
		return FieldFile, nil
	case r.Target.IsURL() && r.Shorten:
		return FieldShorten, nil
	case r.Target.IsURL():
		return FieldURL, nil
	default:
		return "", ErrInvalidTarget
	}
}

// Validate checks the request without touching the network
func (r *CreateRequest) Validate() error {
	if _, err := r.PrimaryField(); err != nil {
		return err
	}
	if r.Shorten && r.Expires != nil {
		return ErrShortenExpiry
	}
	return nil
}

// Form builds the creation form
func (r *CreateRequest) Form() (*Form, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	field, _ := r.PrimaryField()
	form := &Form{}
	if field == FieldFile {
		form.File(field, r.Target.Path())
	} else {
		form.Text(field, r.Target.URL().String())
	}

	if r.Secret {
		form.Text(FieldSecret, "")
	}
	if r.Expires != nil {
		form.Text(FieldExpires, r.Expires.String())
	}

	return form, nil
}

// ManageRequest modifies or deletes an existing entry
type ManageRequest struct {
	URL     *url.URL
	Token   string
	Expires *Expiry
	Delete  bool
}

// Action names what the request does: "delete" or "expires"
func (r *ManageRequest) Action() string {
	if r.Delete {
		return FieldDelete
	}
	return FieldExpires
}

// Validate checks the request without touching the network
func (r *ManageRequest) Validate() error {
	if !IsServiceURL(r.URL) {
		return ErrInvalidManageURL
	}
	if r.Token == "" {
		return ErrMissingToken
	}
	if r.Delete == (r.Expires != nil) {
		return ErrManageAction
	}
	return nil
}

// Form builds the management form: token first, then the action
func (r *ManageRequest) Form() (*Form, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	form := (&Form{}).Text(FieldToken, r.Token)
	if r.Delete {
		form.Text(FieldDelete, "")
	} else {
		form.Text(FieldExpires, r.Expires.String())
	}

	return form, nil
}
