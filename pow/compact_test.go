package pow

import (
	"math/big"
	"testing"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

func TestCompactRoundTrip(t *testing.T) {
	cases := []uint32{0x1d00ffff, 0x207fffff, 0x1b0404cb, 0x03123456}
	for _, compact := range cases {
		target := CompactToBig(compact)
		got := BigToCompact(target)
		if got != compact {
			t.Errorf("compact %#08x round-tripped to %#08x via target %s", compact, got, target)
		}
	}
}

func TestCompactToBigLowExponent(t *testing.T) {
	// E=3, M=0x123456 places all three bytes at the low end unshifted.
	got := CompactToBig(0x03123456)
	want := big.NewInt(0x123456)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestCompactToBigZeroExponent(t *testing.T) {
	got := CompactToBig(0x00123456)
	if got.Sign() != 0 {
		t.Fatalf("E=0 mantissa shifted out of range should decode to zero, got %s", got)
	}
}

func TestCompactToBigOverflowExponent(t *testing.T) {
	got := CompactToBig(0xff123456)
	if got.Sign() != 0 {
		t.Fatalf("E>32 should decode to zero, got %s", got)
	}
}

func TestCheckProofOfWork(t *testing.T) {
	// The zero hash satisfies any positive target.
	var zero chainhash.Hash
	if !CheckProofOfWork(zero, 0x1d00ffff) {
		t.Fatal("zero hash must satisfy any positive target")
	}

	// All-0xff hash (maximum value) fails against the mainnet limit.
	var max chainhash.Hash
	for i := range max {
		max[i] = 0xff
	}
	if CheckProofOfWork(max, 0x1d00ffff) {
		t.Fatal("maximal hash must not satisfy a bounded target")
	}
}

func TestBigToCompactMantissaHighBitShift(t *testing.T) {
	// A target whose top mantissa byte has its high bit set must shift
	// right by 8 and bump the exponent so the compact form never reads
	// as a signed negative number.
	target := big.NewInt(0x80)
	got := BigToCompact(target)
	gotExp := byte(got >> 24)
	gotMantissa := got & 0x00ffffff
	if gotExp != 2 || gotMantissa != 0x008000 {
		t.Fatalf("got exponent=%d mantissa=%#06x, want exponent=2 mantissa=0x008000", gotExp, gotMantissa)
	}

	roundTrip := CompactToBig(got)
	if roundTrip.Cmp(target) != 0 {
		t.Fatalf("round trip mismatch: got %s want %s", roundTrip, target)
	}
}
