package frame

import (
	"encoding/binary"
	"errors"
	"io"
)

// PrefixLen is the wire size of the length prefix.
const PrefixLen = 4

var (
	ErrTruncated       = errors.New("frame: stream closed mid-message")
	ErrMessageTooLarge = errors.New("frame: message exceeds size limit")
)

// Limits constrains decode memory use against corrupt or hostile
// length prefixes.
type Limits struct {
	MaxMessageBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxMessageBytes: 512 * 1024,
	}
}

// ReadMessage blocks until one length-prefixed message is available and
// returns its payload. A stream that closes mid-prefix or mid-payload
// yields ErrTruncated; a clean close before any prefix byte yields io.EOF.
func ReadMessage(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [PrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > limits.MaxMessageBytes {
		return nil, ErrMessageTooLarge
	}
	if n == 0 {
		return nil, nil
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	return payload, nil
}

// WriteMessage writes the 4-byte big-endian length prefix followed by
// exactly len(payload) bytes.
func WriteMessage(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > uint64(limits.MaxMessageBytes) {
		return ErrMessageTooLarge
	}
	var prefix [PrefixLen]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}
