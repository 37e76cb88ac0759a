package manifest

import "errors"

var (
	// ErrUnavailable means the manifest couldn't be fetched.
	ErrUnavailable = errors.New("manifest: unavailable")
	// ErrMalformed means a manifest line failed to parse.
	ErrMalformed = errors.New("manifest: malformed")
)
