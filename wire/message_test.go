package wire

import (
	"bytes"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello pantheon")
	if err := WriteMessage(&buf, MainNet, CmdPing, payload); err != nil {
		t.Fatal(err)
	}
	cmd, got, err := ReadMessage(&buf, MainNet)
	if err != nil {
		t.Fatal(err)
	}
	if cmd != CmdPing {
		t.Fatalf("got command %q want %q", cmd, CmdPing)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %q want %q", got, payload)
	}
}

func TestMessageWrongMagicRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteMessage(&buf, TestNet, CmdPing, nil)
	if _, _, err := ReadMessage(&buf, MainNet); err == nil {
		t.Fatal("expected wrong-network magic to be rejected")
	}
}

func TestMessageChecksumMismatchRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteMessage(&buf, MainNet, CmdPing, []byte("abc"))
	raw := buf.Bytes()
	// Corrupt the payload without touching the checksum.
	raw[MessageHeaderLen] ^= 0xff
	if _, _, err := ReadMessage(bytes.NewReader(raw), MainNet); err == nil {
		t.Fatal("expected checksum mismatch to be rejected")
	}
}

func TestMessageOversizeRejected(t *testing.T) {
	var buf bytes.Buffer
	oversize := make([]byte, MaxMessagePayload+1)
	if err := WriteMessage(&buf, MainNet, CmdTx, oversize); err == nil {
		t.Fatal("expected oversize payload to be rejected")
	}
}
