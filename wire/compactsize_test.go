package wire

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []uint64{0, 1, 252, 253, 254, 0xffff, 0x10000, 0xffffffff, 0x100000000, ^uint64(0)}
	for _, v := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if got, want := buf.Len(), VarIntSerializeSize(v); got != want {
			t.Fatalf("serialize size mismatch for %d: got %d want %d", v, got, want)
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: got %d want %d", got, v)
		}
	}
}

func TestReadVarIntNonCanonical(t *testing.T) {
	// 0xfd followed by a 16-bit value that fits in one byte is non-minimal.
	buf := bytes.NewReader([]byte{0xfd, 0x05, 0x00})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected non-canonical encoding to fail")
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	buf := bytes.NewReader([]byte{0xfd, 0x05})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected truncated read to fail")
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("pantheon")
	if err := WriteVarBytes(&buf, payload); err != nil {
		t.Fatal(err)
	}
	got, err := ReadVarBytes(&buf, 1024, "test")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q want %q", got, payload)
	}
}

func TestReadVarBytesTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteVarBytes(&buf, make([]byte, 100))
	if _, err := ReadVarBytes(&buf, 10, "test"); err == nil {
		t.Fatal("expected oversize payload to fail")
	}
}
