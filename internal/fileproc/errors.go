package fileproc

import "errors"

// ErrOverflow means a block's cumulative delta overflowed the 128-bit
// accumulator. This should never occur on valid archive data.
var ErrOverflow = errors.New("fileproc: accumulator overflow")
