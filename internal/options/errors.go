package options

import "errors"

var (
	// ErrInvalidQuery is returned when a query string contains undecodable escapes.
	ErrInvalidQuery = errors.New("invalid query string")
	// ErrUnsupportedType is returned when decoded data has no Value representation.
	ErrUnsupportedType = errors.New("unsupported option type")
)
