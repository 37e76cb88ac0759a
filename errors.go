package zeta

import "errors"

var (
	// ErrManifestUnavailable means the file manifest couldn't be fetched.
	ErrManifestUnavailable = errors.New("zeta: manifest unavailable")
	// ErrManifestMalformed means a manifest line didn't parse.
	ErrManifestMalformed = errors.New("zeta: manifest malformed")

	// ErrIndexUnavailable means the SQLite index couldn't be reached.
	ErrIndexUnavailable = errors.New("zeta: index unavailable")
	// ErrIndexMiss means a seek query matched no block.
	ErrIndexMiss = errors.New("zeta: index miss")

	// ErrTransport means an HTTP request for a data file failed.
	ErrTransport = errors.New("zeta: transport error")
	// ErrTruncatedStream means a data file ended mid-header or mid-entry.
	ErrTruncatedStream = errors.New("zeta: truncated stream")
	// ErrDecode means a block's header or entries were malformed.
	ErrDecode = errors.New("zeta: decode error")
)
