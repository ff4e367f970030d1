package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeFieldsRoundTripPreservesUnknown(t *testing.T) {
	in := []Field{
		{ID: 1, Type: TypeU32, Value: U32Bytes(42)},
		{ID: 9999, Type: TypeBytes, Value: []byte{0xAA, 0xBB}}, // unknown field id
	}
	b := EncodeFields(in)
	out, err := DecodeFields(b)
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[1].ID != 9999 || out[1].Type != TypeBytes || !bytes.Equal(out[1].Value, []byte{0xAA, 0xBB}) {
		t.Fatalf("unknown field not preserved: %+v", out[1])
	}
}

func TestDecodeFieldsMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := DecodeFields([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortFieldHeader) {
		t.Fatalf("expected ErrShortFieldHeader, got %v", err)
	}
}

func TestDecodeFieldsMalformedLengthIsDeterministic(t *testing.T) {
	// id=1, type=string, len=5, value only 2 bytes
	payload := []byte{0, 1, TypeString, 0, 0, 0, 5, 'a', 'b'}
	_, err := DecodeFields(payload)
	if !errors.Is(err, ErrShortFieldValue) {
		t.Fatalf("expected ErrShortFieldValue, got %v", err)
	}
}

func TestNumericHelpersRoundTrip(t *testing.T) {
	if v, err := U32FromBytes(U32Bytes(7341)); err != nil || v != 7341 {
		t.Fatalf("u32 round trip: v=%d err=%v", v, err)
	}
	if v, err := U8FromBytes(U8Bytes(17)); err != nil || v != 17 {
		t.Fatalf("u8 round trip: v=%d err=%v", v, err)
	}
	if v, err := F32FromBytes(F32Bytes(-1250.5)); err != nil || v != -1250.5 {
		t.Fatalf("f32 round trip: v=%v err=%v", v, err)
	}
}

func TestNumericHelpersRejectBadLengths(t *testing.T) {
	if _, err := U32FromBytes([]byte{1, 2}); err == nil {
		t.Fatalf("expected error for short u32")
	}
	if _, err := U8FromBytes(nil); err == nil {
		t.Fatalf("expected error for empty u8")
	}
	if _, err := F32FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short f32")
	}
}

func TestMustTypeMismatch(t *testing.T) {
	f := Field{ID: 3, Type: TypeU8, Value: []byte{1}}
	if err := MustType(f, TypeU32); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}
