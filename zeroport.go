package zeta

import "math/big"

// zeroPort sits between a File Processor and the caller's Consumer. It
// applies the seek pattern's predicate, is the sole authority for how many
// zeros have been delivered, and reports when the stream should wind down.
type zeroPort struct {
	consumer   Consumer
	pattern    SeekPattern
	amountSent uint64
}

func newZeroPort(consumer Consumer, pattern SeekPattern) *zeroPort {
	return &zeroPort{consumer: consumer, pattern: pattern}
}

// accept reports whether a zero at the given index/value satisfies the
// pattern's starting predicate.
func (p *zeroPort) accept(index uint64, value *big.Float) bool {
	switch p.pattern.kind {
	case patternFromT:
		return value.Cmp(big.NewFloat(p.pattern.t)) >= 0
	case patternFromN:
		return index >= p.pattern.n
	default:
		return true
	}
}

// amountReached reports whether the pattern's count cap, if any, has been
// hit.
func (p *zeroPort) amountReached() bool {
	return p.pattern.hasCt && p.amountSent >= p.pattern.count
}

// Send forwards (index, value) to the Consumer if it passes the pattern's
// predicate, the count cap hasn't been reached and the Consumer hasn't
// closed; otherwise it's dropped silently. This lets a File Processor emit every zero in a partially
// covered block without special-casing the block's unwanted prefix.
//
// Exported so that internal/fileproc, which drives the decode loop, can
// treat a *zeroPort as a fileproc.Sink without this package exposing its
// internals any more broadly than that one interface requires.
func (p *zeroPort) Send(index uint64, value *big.Float) {
	if !p.accept(index, value) || p.IsClosed() {
		return
	}
	p.consumer.OnZero(index, value)
	p.amountSent++
	ZerosStreamed.Inc()
}

// IsClosed reports whether the stream should stop: either the count cap has
// been reached, or the Consumer itself has signaled closure.
func (p *zeroPort) IsClosed() bool {
	return p.amountReached() || p.consumer.IsClosed()
}
