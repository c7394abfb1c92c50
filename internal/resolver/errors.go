package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedURL is returned when a connection string cannot be parsed as a URL.
	ErrMalformedURL = errors.New("malformed connection URL")
	// ErrInvalidScheme is returned when the connection string does not start with cloudinary://.
	ErrInvalidScheme = errors.New("invalid connection URL scheme, expecting cloudinary://")
	// ErrMissingCloudName is returned when the connection string has no host segment.
	ErrMissingCloudName = errors.New("connection URL is missing the cloud name")
	// ErrInvalidQuery is returned when the connection string query cannot be decoded.
	ErrInvalidQuery = errors.New("invalid connection URL query")
	// ErrMissingCredentials is returned when cloud_name, api_key or api_secret cannot be resolved.
	ErrMissingCredentials = errors.New("missing credentials")
)

// ConfigError reports a connection string that could not be applied.
// URL is redacted and never carries the API secret.
type ConfigError struct {
	URL string
	Err error
}

func (e *ConfigError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("config from url: %v", e.Err)
	}
	return fmt.Sprintf("config from url %q: %v", e.URL, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MissingCredentialsError lists the credential keys that could not be resolved.
type MissingCredentialsError struct {
	Keys []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingCredentials, strings.Join(e.Keys, ", "))
}

func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials
}
