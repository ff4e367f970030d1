package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadWriteMessageRoundTrip(t *testing.T) {
	payload := []byte("referee control payload")
	var buf bytes.Buffer
	if err := WriteMessage(&buf, payload, DefaultLimits()); err != nil {
		t.Fatalf("write message: %v", err)
	}
	out, err := ReadMessage(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("payload mismatch: got %q want %q", out, payload)
	}
}

func TestReadMessageEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, nil, DefaultLimits()); err != nil {
		t.Fatalf("write message: %v", err)
	}
	out, err := ReadMessage(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(out))
	}
}

func TestReadMessageCleanCloseIsEOF(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(nil), DefaultLimits())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadMessageTruncatedPrefix(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{0, 0}), DefaultLimits())
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadMessageTruncatedPayload(t *testing.T) {
	// Prefix promises 8 bytes, stream carries 3.
	_, err := ReadMessage(bytes.NewReader([]byte{0, 0, 0, 8, 'a', 'b', 'c'}), DefaultLimits())
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadMessageRejectsOversizedLength(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF}), Limits{MaxMessageBytes: 64})
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
}

func TestWriteMessageRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMessage(&buf, make([]byte, 65), Limits{MaxMessageBytes: 64})
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}
