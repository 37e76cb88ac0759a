// Package zeta streams nontrivial zeros of the Riemann zeta function from
// the LMFDB archive, on demand, in strictly increasing index order.
//
// A caller supplies a SeekPattern describing where in the archive to start
// and (optionally) how many zeros to deliver, and a Consumer to receive
// them. Stream locates the first relevant block via the archive's SQLite
// index, fetches only the data files from that point forward, and decodes
// each block's zeros as they're read off the wire.
package zeta

import (
	"math/big"
)

// Zero is a single nontrivial zero of zeta, identified by its position in
// the global, zero-indexed enumeration and its imaginary part.
type Zero struct {
	Index uint64
	Value *big.Float
}

// SeekPattern describes which zeros a call to Stream should deliver.
type SeekPattern struct {
	kind patternKind

	t     float64
	n     uint64
	count uint64
	hasCt bool
}

type patternKind int

const (
	patternNone patternKind = iota
	patternFromT
	patternFromN
)

// All streams every zero in the archive, from the beginning, until the
// Consumer closes or the archive is exhausted.
func All() SeekPattern {
	return SeekPattern{kind: patternNone}
}

// FromT streams every zero with imaginary part >= t.
func FromT(t float64) SeekPattern {
	return SeekPattern{kind: patternFromT, t: t}
}

// FromN streams every zero with global index >= n.
func FromN(n uint64) SeekPattern {
	return SeekPattern{kind: patternFromN, n: n}
}

// FromTCount streams up to count zeros with imaginary part >= t.
func FromTCount(t float64, count uint64) SeekPattern {
	return SeekPattern{kind: patternFromT, t: t, count: count, hasCt: true}
}

// FromNCount streams up to count zeros with global index >= n.
func FromNCount(n uint64, count uint64) SeekPattern {
	return SeekPattern{kind: patternFromN, n: n, count: count, hasCt: true}
}

// Consumer receives zeros from a running Stream call.
type Consumer interface {
	// IsClosed is polled by Stream before and after every accepted delivery,
	// and between files. Once it returns true the stream winds down at the
	// next check point.
	IsClosed() bool
	// OnZero receives one accepted zero. It must not block indefinitely; the
	// producer makes no further progress while OnZero is running.
	OnZero(index uint64, value *big.Float)
}

// ConsumerFunc adapts a plain function into a Consumer that never closes
// itself; pair it with a Count-bounded SeekPattern or an external signal if
// early termination is needed.
type ConsumerFunc func(index uint64, value *big.Float)

func (f ConsumerFunc) IsClosed() bool { return false }

func (f ConsumerFunc) OnZero(index uint64, value *big.Float) { f(index, value) }
