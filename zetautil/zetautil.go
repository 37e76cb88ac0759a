// Package zetautil provides consumer adapters that sit outside the core
// zeta package, for callers who want zeros delivered asynchronously
// instead of inline in Stream's call stack.
package zetautil

import (
	"math/big"
	"sync"

	"github.com/VictorVanWeyenberg/zeta"
)

// BufferedConsumer is a zeta.Consumer that hands zeros off to a buffered
// channel instead of invoking a callback directly, so a Stream call can run
// on its own goroutine while the caller drains Zeros at its own pace.
//
// Close stops the BufferedConsumer from accepting further zeros and makes
// it report closed on the next poll; it does not interrupt a send already
// in flight.
type BufferedConsumer struct {
	zeros  chan zeta.Zero
	once   sync.Once
	closed chan struct{}
}

// NewBufferedConsumer returns a BufferedConsumer whose channel holds up to
// capacity zeros before OnZero blocks. A capacity of 0 yields an
// unbuffered, fully synchronous hand-off.
func NewBufferedConsumer(capacity int) *BufferedConsumer {
	return &BufferedConsumer{
		zeros:  make(chan zeta.Zero, capacity),
		closed: make(chan struct{}),
	}
}

// Zeros returns the channel zeros are delivered on. It's closed when Done
// is called, after which ranging over it drains whatever remains buffered
// and then stops.
func (b *BufferedConsumer) Zeros() <-chan zeta.Zero { return b.zeros }

// Close marks the consumer closed: IsClosed reports true from the next
// poll onward, and Stream winds down. Safe to call more than once.
func (b *BufferedConsumer) Close() {
	b.once.Do(func() { close(b.closed) })
}

// Done closes the delivery channel. Callers driving Stream in a goroutine
// should defer this immediately after the Stream call returns, so a
// ranging reader on Zeros unblocks.
func (b *BufferedConsumer) Done() { close(b.zeros) }

// IsClosed reports whether Close has been called.
func (b *BufferedConsumer) IsClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

// OnZero sends (index, value) on the Zeros channel, blocking if it's full.
func (b *BufferedConsumer) OnZero(index uint64, value *big.Float) {
	b.zeros <- zeta.Zero{Index: index, Value: value}
}
