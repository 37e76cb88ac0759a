package fileproc

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"testing"

	"github.com/VictorVanWeyenberg/zeta/internal/index"
)

// collector is a Sink that records everything sent to it, and can be told
// to close after a fixed number of deliveries.
type collector struct {
	indices []uint64
	values  []*big.Float
	closeAt int // 0 means never
}

func (c *collector) Send(idx uint64, value *big.Float) {
	c.indices = append(c.indices, idx)
	c.values = append(c.values, value)
}

func (c *collector) IsClosed() bool {
	return c.closeAt > 0 && len(c.indices) >= c.closeAt
}

// buildFile encodes a single-block synthetic data file: a block count of 1,
// followed by the header (t0, t1, nT0, nT1) and entries, each a
// (z1 uint64, z2 uint32, z3 uint8) triple.
func buildFile(t0, t1 float64, nT0, nT1 uint64, deltas []uint64) []byte {
	var buf bytes.Buffer
	writeU64(&buf, 1) // block_count
	writeF64(&buf, t0)
	writeF64(&buf, t1)
	writeU64(&buf, nT0)
	writeU64(&buf, nT1)
	for _, d := range deltas {
		writeU64(&buf, d)
		writeU32(&buf, 0)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeF64(buf *bytes.Buffer, v float64) {
	writeU64(buf, math.Float64bits(v))
}

// wantValue computes t0 + cumulative*2^-101 at precision prec, the
// reference implementation of the reconstruction law under test.
func wantValue(t0 float64, cumulative uint64, prec uint) *big.Float {
	eps := new(big.Float).SetPrec(prec).SetInt64(1)
	eps.SetMantExp(eps, -101)
	offset := new(big.Float).SetPrec(prec).SetUint64(cumulative)
	offset.Mul(offset, eps)
	base := new(big.Float).SetPrec(prec).SetFloat64(t0)
	return new(big.Float).SetPrec(prec).Add(base, offset)
}

// Seed test 2: Pattern None against a synthetic one-block file.
func TestProcessReconstructsSeedFile(t *testing.T) {
	data := buildFile(10.0, 20.0, 0, 3, []uint64{10, 20, 30})
	p := New("seed2.dat", bytes.NewReader(data))

	sink := &collector{}
	if err := p.Process(sink); err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantIdx := []uint64{0, 1, 2}
	wantCum := []uint64{10, 30, 60}
	if len(sink.indices) != 3 {
		t.Fatalf("got %d zeros, want 3", len(sink.indices))
	}
	for i := range wantIdx {
		if sink.indices[i] != wantIdx[i] {
			t.Errorf("index[%d] = %d, want %d", i, sink.indices[i], wantIdx[i])
		}
		want := wantValue(10.0, wantCum[i], 115)
		if sink.values[i].Cmp(want) != 0 {
			t.Errorf("value[%d] = %v, want %v", i, sink.values[i], want)
		}
		if sink.values[i].Prec() != 115 {
			t.Errorf("value[%d] precision = %d, want 115", i, sink.values[i].Prec())
		}
	}
}

// Invariant: processing a file with no seek emits exactly sum(nT1-nT0) pairs,
// and indices are strictly increasing.
func TestProcessEmitsAllAndIncreasing(t *testing.T) {
	data := buildFile(10.0, 20.0, 5, 8, []uint64{1, 1, 1})
	p := New("all.dat", bytes.NewReader(data))

	sink := &collector{}
	if err := p.Process(sink); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sink.indices) != 3 {
		t.Fatalf("got %d zeros, want 3", len(sink.indices))
	}
	for i, idx := range sink.indices {
		if idx != uint64(5+i) {
			t.Errorf("index[%d] = %d, want %d", i, idx, 5+i)
		}
	}
	for i := 1; i < len(sink.indices); i++ {
		if sink.indices[i] <= sink.indices[i-1] {
			t.Fatalf("indices not strictly increasing: %v", sink.indices)
		}
	}
}

// Boundary: an empty block (n_t1 == n_t0) advances without emitting.
func TestProcessEmptyBlock(t *testing.T) {
	data := buildFile(10.0, 20.0, 0, 0, nil)
	p := New("empty.dat", bytes.NewReader(data))

	sink := &collector{}
	if err := p.Process(sink); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sink.indices) != 0 {
		t.Fatalf("got %d zeros, want 0", len(sink.indices))
	}
}

// Boundary: a consumer that closes after the first delivery receives
// exactly one pair.
func TestProcessStopsOnClosure(t *testing.T) {
	data := buildFile(10.0, 20.0, 0, 3, []uint64{10, 20, 30})
	p := New("close.dat", bytes.NewReader(data))

	sink := &collector{closeAt: 1}
	if err := p.Process(sink); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sink.indices) != 1 {
		t.Fatalf("got %d zeros, want 1", len(sink.indices))
	}
}

// Truncated synthetic data file: header promises 5 entries, bytes for 3;
// the first 3 pairs are delivered, then a truncation error.
func TestProcessTruncatedStream(t *testing.T) {
	full := buildFile(10.0, 20.0, 0, 5, []uint64{10, 20, 30, 40, 50})
	headerEnd := 8 + 32 // block_count + header
	entryLen := 8 + 4 + 1
	truncated := full[:headerEnd+3*entryLen]

	p := New("trunc.dat", bytes.NewReader(truncated))
	sink := &collector{}
	err := p.Process(sink)
	if err == nil {
		t.Fatal("Process: want error, got nil")
	}
	if len(sink.indices) != 3 {
		t.Fatalf("got %d zeros before truncation, want 3", len(sink.indices))
	}
}

// ProcessFrom on the same file and consumer produces the suffix of Process
// starting at first_block.block_number.
func TestProcessFromMatchesProcessSuffix(t *testing.T) {
	var buf bytes.Buffer
	writeU64(&buf, 2) // block_count
	writeF64(&buf, 10.0)
	writeF64(&buf, 20.0)
	writeU64(&buf, 0)
	writeU64(&buf, 2)
	writeU64(&buf, 5)
	writeU32(&buf, 0)
	buf.WriteByte(0)
	writeU64(&buf, 5)
	writeU32(&buf, 0)
	buf.WriteByte(0)
	block1Offset := uint32(buf.Len())
	writeF64(&buf, 20.0)
	writeF64(&buf, 30.0)
	writeU64(&buf, 2)
	writeU64(&buf, 4)
	writeU64(&buf, 7)
	writeU32(&buf, 0)
	buf.WriteByte(0)
	writeU64(&buf, 7)
	writeU32(&buf, 0)
	buf.WriteByte(0)
	data := buf.Bytes()

	blocks := []index.Block{
		{FileName: "suffix.dat", T: 10.0, Offset: 8, BlockNumber: 0},
		{FileName: "suffix.dat", T: 20.0, Offset: block1Offset, BlockNumber: 1},
	}

	full := New("suffix.dat", bytes.NewReader(data))
	fullSink := &collector{}
	if err := full.Process(fullSink); err != nil {
		t.Fatalf("Process: %v", err)
	}

	fromSecond := New("suffix.dat", bytes.NewReader(data))
	fromSink := &collector{}
	if err := fromSecond.ProcessFrom(fromSink, blocks[1]); err != nil {
		t.Fatalf("ProcessFrom: %v", err)
	}

	wantSuffix := fullSink.indices[2:]
	if len(fromSink.indices) != len(wantSuffix) {
		t.Fatalf("got %d zeros, want %d", len(fromSink.indices), len(wantSuffix))
	}
	for i := range wantSuffix {
		if fromSink.indices[i] != wantSuffix[i] {
			t.Errorf("index[%d] = %d, want %d", i, fromSink.indices[i], wantSuffix[i])
		}
		if fromSink.values[i].Cmp(fullSink.values[2+i]) != 0 {
			t.Errorf("value[%d] mismatch", i)
		}
	}
}

func TestPrecisionFor(t *testing.T) {
	cases := []struct {
		t1   float64
		want uint
	}{
		{20.0, 115},
		{1.0, 111},
		{0.5, 110},
		{1 << 20, 131},
	}
	for _, c := range cases {
		if got := precisionFor(c.t1); got != c.want {
			t.Errorf("precisionFor(%v) = %d, want %d", c.t1, got, c.want)
		}
	}
}

func TestDelta128Overflow(t *testing.T) {
	var acc delta128
	acc.hi = math.MaxUint64
	acc.lo = math.MaxUint64
	if overflowed := acc.add(1, 0, 0); !overflowed {
		t.Fatal("add: want overflow, got none")
	}
}

func TestDelta128NoOverflow(t *testing.T) {
	var acc delta128
	if overflowed := acc.add(10, 0, 0); overflowed {
		t.Fatal("add: unexpected overflow")
	}
	if overflowed := acc.add(20, 0, 0); overflowed {
		t.Fatal("add: unexpected overflow")
	}
	if acc.lo != 30 || acc.hi != 0 {
		t.Fatalf("acc = {lo: %d, hi: %d}, want {30, 0}", acc.lo, acc.hi)
	}
}
