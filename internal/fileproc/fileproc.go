// Package fileproc decodes one archive data file: a block count, followed
// by length-prefixed blocks of delta-encoded zeros, reconstructed as
// arbitrary-precision reals.
package fileproc

import (
	"fmt"
	"io"
	"log"
	"math/big"

	"github.com/VictorVanWeyenberg/zeta/internal/index"
	"github.com/VictorVanWeyenberg/zeta/internal/seeker"
)

// Sink is the destination for decoded zeros. *zeta's internal zeroPort type
// satisfies this, which is the only thing fileproc needs to know about the
// rest of the package: it never imports the root package, since the root
// package is what drives fileproc.
type Sink interface {
	Send(index uint64, value *big.Float)
	IsClosed() bool
}

// blockHeader is the 32-byte header preceding every block's entries: t0,
// t1 float64 and n_t0, n_t1 uint64.
type blockHeader struct {
	t0, t1   float64
	nT0, nT1 uint64
}

// Processor decodes one data file's blocks and feeds reconstructed zeros to
// a Sink. A file is fully self-describing: every block's bounds and entry
// count live in its own header, so a Processor needs nothing from the
// Index beyond the single Block a seek lands on.
type Processor struct {
	fileName string
	seeker   *seeker.Seeker
}

// New creates a Processor for fileName, reading from r.
func New(fileName string, r io.Reader) *Processor {
	return &Processor{fileName: fileName, seeker: seeker.New(r)}
}

// readHeader reads the 32-byte header preceding a block's entries.
func readHeader(s *seeker.Seeker) (blockHeader, error) {
	t0, err := s.F64()
	if err != nil {
		return blockHeader{}, err
	}
	t1, err := s.F64()
	if err != nil {
		return blockHeader{}, err
	}
	nT0, err := s.U64()
	if err != nil {
		return blockHeader{}, err
	}
	nT1, err := s.U64()
	if err != nil {
		return blockHeader{}, err
	}
	if t1 <= t0 {
		return blockHeader{}, fmt.Errorf("fileproc: malformed header: t1 %v <= t0 %v", t1, t0)
	}
	if nT1 < nT0 {
		return blockHeader{}, fmt.Errorf("fileproc: malformed header: n_t1 %v < n_t0 %v", nT1, nT0)
	}
	return blockHeader{t0: t0, t1: t1, nT0: nT0, nT1: nT1}, nil
}

// delta128 is a 128-bit unsigned accumulator, held as two 64-bit limbs with
// explicit carry, for implementations without a native 128-bit integer.
type delta128 struct {
	lo, hi uint64
}

// add adds a 104-bit delta (z3<<96 | z2<<64 | z1) to the accumulator. It
// reports true if the addition overflowed the 128-bit accumulator, which
// should never happen on valid data.
func (d *delta128) add(z1 uint64, z2 uint32, z3 uint8) (overflowed bool) {
	addHi := (uint64(z3) << 32) | uint64(z2)

	newLo := d.lo + z1
	carry := uint64(0)
	if newLo < d.lo {
		carry = 1
	}
	d.lo = newLo

	newHi := d.hi + addHi + carry
	overflowed = newHi < d.hi
	d.hi = newHi
	return overflowed
}

// bigFloat renders the accumulator as a *big.Float at the given precision:
// hi*2^64 + lo.
func (d *delta128) bigFloat(prec uint) *big.Float {
	hi := new(big.Float).SetPrec(prec).SetUint64(d.hi)
	hi.SetMantExp(hi, 64)
	lo := new(big.Float).SetPrec(prec).SetUint64(d.lo)
	return new(big.Float).SetPrec(prec).Add(hi, lo)
}

// precisionFor returns the binary precision to reconstruct zeros in a block
// whose upper imaginary-part bound is t1: floor(log2(t1)) + 111 bits.
func precisionFor(t1 float64) uint {
	e := 0
	for v := t1; v >= 2; v /= 2 {
		e++
	}
	for v := t1; v < 1 && v > 0; v *= 2 {
		e--
	}
	return uint(e + 111)
}

// epsilon is 2^-101, the resolution unit of the delta encoding.
func epsilon(prec uint) *big.Float {
	eps := new(big.Float).SetPrec(prec).SetInt64(1)
	return eps.SetMantExp(eps, -101)
}

// Process reads the file's block count, then decodes every block in order
// off the stream, stopping early if sink.IsClosed() between blocks or
// within one.
func (p *Processor) Process(sink Sink) error {
	count, err := p.readBlockCount()
	if err != nil {
		return err
	}
	for b := uint32(0); uint64(b) < count; b++ {
		if err := p.processBlock(sink, b, nil); err != nil {
			return err
		}
		if sink.IsClosed() {
			return nil
		}
	}
	return nil
}

// ProcessFrom reads the file's block count, advances to first's byte
// offset, and decodes every block from first.BlockNumber through the end
// of the file (or until closure). first.FileName must match this
// Processor's file.
func (p *Processor) ProcessFrom(sink Sink, first index.Block) error {
	if first.FileName != p.fileName {
		return fmt.Errorf("fileproc: first block belongs to %q, not %q", first.FileName, p.fileName)
	}
	count, err := p.readBlockCount()
	if err != nil {
		return err
	}
	if err := p.seeker.AdvanceTo(uint64(first.Offset)); err != nil {
		return err
	}
	expectedT0 := &first.T
	for b := first.BlockNumber; uint64(b) < count; b++ {
		if err := p.processBlock(sink, b, expectedT0); err != nil {
			return err
		}
		expectedT0 = nil
		if sink.IsClosed() {
			return nil
		}
	}
	return nil
}

// readBlockCount reads the file's declared block count.
func (p *Processor) readBlockCount() (uint64, error) {
	return p.seeker.U64()
}

// processBlock decodes one block's header and entries, reconstructing and
// sending each zero in turn. expectedT0, when non-nil (i.e. the block was
// reached via a seek), is the t the Index promised for this block; a
// mismatch against the header's own t0 is logged, not fatal, matching the
// spec's validation note.
func (p *Processor) processBlock(sink Sink, blockNumber uint32, expectedT0 *float64) error {
	hdr, err := readHeader(p.seeker)
	if err != nil {
		return err
	}
	if expectedT0 != nil && hdr.t0 != *expectedT0 {
		log.Printf("fileproc: %q block %d: header t0 %v != index t %v", p.fileName, blockNumber, hdr.t0, *expectedT0)
	}

	prec := precisionFor(hdr.t1)
	eps := epsilon(prec)
	t0 := new(big.Float).SetPrec(prec).SetFloat64(hdr.t0)

	var acc delta128
	n := hdr.nT1 - hdr.nT0
	for i := uint64(0); i < n; i++ {
		z1, err := p.seeker.U64()
		if err != nil {
			return err
		}
		z2, err := p.seeker.U32()
		if err != nil {
			return err
		}
		z3, err := p.seeker.U8()
		if err != nil {
			return err
		}
		if acc.add(z1, z2, z3) {
			return fmt.Errorf("fileproc: %q block %d: %w", p.fileName, blockNumber, ErrOverflow)
		}

		offset := new(big.Float).SetPrec(prec).Mul(acc.bigFloat(prec), eps)
		value := new(big.Float).SetPrec(prec).Add(t0, offset)

		sink.Send(hdr.nT0+i, value)
		if sink.IsClosed() {
			return nil
		}
	}
	return nil
}
