package index

import "errors"

var (
	// ErrUnavailable means the SQLite index couldn't be opened or queried.
	ErrUnavailable = errors.New("index: unavailable")
	// ErrMiss means a seek query matched no row.
	ErrMiss = errors.New("index: miss")
)
