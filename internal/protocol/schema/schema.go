// Package schema maps TLV payloads to control requests and replies.
// Direction fixes the message kind: client to server is always a request,
// server to client always a reply. Unknown fields are ignored by design;
// duplicate fields, wrong field types, bad enum values, and broken
// pairings (position halves, card halves) are protocol faults.
package schema

import (
	"fmt"

	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/protocol/tlv"
)

// Field IDs of RefereeRemoteControlRequest.
const (
	FieldMessageID        uint16 = 1
	FieldStage            uint16 = 2
	FieldCommand          uint16 = 3
	FieldDesignatedX      uint16 = 4
	FieldDesignatedY      uint16 = 5
	FieldCardType         uint16 = 6
	FieldCardTeam         uint16 = 7
	FieldLastCounter      uint16 = 8
	FieldImplementationID uint16 = 9
	FieldGameEvent        uint16 = 10
)

// Field IDs of RefereeRemoteControlReply.
const (
	FieldReplyMessageID uint16 = 1
	FieldReplyOutcome   uint16 = 2
)

type ValidationError struct {
	FieldID uint16
	Reason  string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("schema: %s", e.Reason)
	}
	return fmt.Sprintf("schema: field=%d: %s", e.FieldID, e.Reason)
}

func errField(id uint16, reason string) error {
	return ValidationError{FieldID: id, Reason: reason}
}

// DecodeRequest parses one request payload. It enforces wire-level shape
// only; action exclusivity and state-dependent rules belong to the
// validator, which must see a request that could legally carry more than
// one action.
func DecodeRequest(payload []byte) (match.Request, error) {
	fields, err := tlv.DecodeFields(payload)
	if err != nil {
		return match.Request{}, err
	}
	if err := rejectDuplicates(fields); err != nil {
		return match.Request{}, err
	}

	var req match.Request

	id, ok, err := u32Field(fields, FieldMessageID)
	if err != nil {
		return match.Request{}, err
	}
	if !ok {
		return match.Request{}, errField(FieldMessageID, "message_id is required")
	}
	req.MessageID = id

	if v, ok, err := u8Field(fields, FieldStage); err != nil {
		return match.Request{}, err
	} else if ok {
		stage := match.Stage(v)
		if !stage.Valid() {
			return match.Request{}, errField(FieldStage, "unknown stage")
		}
		req.Stage = &stage
	}

	if v, ok, err := u8Field(fields, FieldCommand); err != nil {
		return match.Request{}, err
	} else if ok {
		cmd := match.Command(v)
		if !cmd.Valid() {
			return match.Request{}, errField(FieldCommand, "unknown command")
		}
		req.Command = &cmd
	}

	x, okX, err := f32Field(fields, FieldDesignatedX)
	if err != nil {
		return match.Request{}, err
	}
	y, okY, err := f32Field(fields, FieldDesignatedY)
	if err != nil {
		return match.Request{}, err
	}
	if okX != okY {
		return match.Request{}, errField(FieldDesignatedY, "designated position needs both coordinates")
	}
	if okX {
		req.Position = &match.Point{X: x, Y: y}
	}

	cardType, okType, err := u8Field(fields, FieldCardType)
	if err != nil {
		return match.Request{}, err
	}
	cardTeam, okTeam, err := u8Field(fields, FieldCardTeam)
	if err != nil {
		return match.Request{}, err
	}
	if okType != okTeam {
		return match.Request{}, errField(FieldCardTeam, "card needs both type and team")
	}
	if okType {
		ct := match.CardType(cardType)
		team := match.Team(cardTeam)
		if !ct.Valid() {
			return match.Request{}, errField(FieldCardType, "unknown card type")
		}
		if !team.Valid() {
			return match.Request{}, errField(FieldCardTeam, "unknown team")
		}
		req.Card = &match.Card{Type: ct, Team: team}
	}

	if v, ok, err := u32Field(fields, FieldLastCounter); err != nil {
		return match.Request{}, err
	} else if ok {
		counter := v
		req.LastCounter = &counter
	}

	if v, ok, err := stringField(fields, FieldImplementationID); err != nil {
		return match.Request{}, err
	} else if ok {
		req.ImplementationID = v
	}

	if v, ok, err := stringField(fields, FieldGameEvent); err != nil {
		return match.Request{}, err
	} else if ok {
		req.GameEvent = v
	}

	return req, nil
}

// EncodeRequest is the client-side counterpart of DecodeRequest.
func EncodeRequest(req match.Request) []byte {
	fields := []tlv.Field{
		{ID: FieldMessageID, Type: tlv.TypeU32, Value: tlv.U32Bytes(req.MessageID)},
	}
	if req.Stage != nil {
		fields = append(fields, tlv.Field{ID: FieldStage, Type: tlv.TypeU8, Value: tlv.U8Bytes(uint8(*req.Stage))})
	}
	if req.Command != nil {
		fields = append(fields, tlv.Field{ID: FieldCommand, Type: tlv.TypeU8, Value: tlv.U8Bytes(uint8(*req.Command))})
	}
	if req.Position != nil {
		fields = append(fields,
			tlv.Field{ID: FieldDesignatedX, Type: tlv.TypeF32, Value: tlv.F32Bytes(req.Position.X)},
			tlv.Field{ID: FieldDesignatedY, Type: tlv.TypeF32, Value: tlv.F32Bytes(req.Position.Y)},
		)
	}
	if req.Card != nil {
		fields = append(fields,
			tlv.Field{ID: FieldCardType, Type: tlv.TypeU8, Value: tlv.U8Bytes(uint8(req.Card.Type))},
			tlv.Field{ID: FieldCardTeam, Type: tlv.TypeU8, Value: tlv.U8Bytes(uint8(req.Card.Team))},
		)
	}
	if req.LastCounter != nil {
		fields = append(fields, tlv.Field{ID: FieldLastCounter, Type: tlv.TypeU32, Value: tlv.U32Bytes(*req.LastCounter)})
	}
	if req.ImplementationID != "" {
		fields = append(fields, tlv.Field{ID: FieldImplementationID, Type: tlv.TypeString, Value: []byte(req.ImplementationID)})
	}
	if req.GameEvent != "" {
		fields = append(fields, tlv.Field{ID: FieldGameEvent, Type: tlv.TypeString, Value: []byte(req.GameEvent)})
	}
	return tlv.EncodeFields(fields)
}

// EncodeReply serializes one reply payload.
func EncodeReply(reply match.Reply) []byte {
	return tlv.EncodeFields([]tlv.Field{
		{ID: FieldReplyMessageID, Type: tlv.TypeU32, Value: tlv.U32Bytes(reply.MessageID)},
		{ID: FieldReplyOutcome, Type: tlv.TypeU8, Value: tlv.U8Bytes(uint8(reply.Outcome))},
	})
}

// DecodeReply parses one reply payload.
func DecodeReply(payload []byte) (match.Reply, error) {
	fields, err := tlv.DecodeFields(payload)
	if err != nil {
		return match.Reply{}, err
	}
	if err := rejectDuplicates(fields); err != nil {
		return match.Reply{}, err
	}

	id, ok, err := u32Field(fields, FieldReplyMessageID)
	if err != nil {
		return match.Reply{}, err
	}
	if !ok {
		return match.Reply{}, errField(FieldReplyMessageID, "message_id is required")
	}

	v, ok, err := u8Field(fields, FieldReplyOutcome)
	if err != nil {
		return match.Reply{}, err
	}
	if !ok {
		return match.Reply{}, errField(FieldReplyOutcome, "outcome is required")
	}
	outcome := match.Outcome(v)
	if !outcome.Valid() {
		return match.Reply{}, errField(FieldReplyOutcome, "unknown outcome")
	}

	return match.Reply{MessageID: id, Outcome: outcome}, nil
}

func rejectDuplicates(fields []tlv.Field) error {
	seen := make(map[uint16]bool, len(fields))
	for _, f := range fields {
		if seen[f.ID] {
			return errField(f.ID, "duplicate field")
		}
		seen[f.ID] = true
	}
	return nil
}

func u8Field(fields []tlv.Field, id uint16) (uint8, bool, error) {
	f, ok := tlv.GetField(fields, id)
	if !ok {
		return 0, false, nil
	}
	if err := tlv.MustType(f, tlv.TypeU8); err != nil {
		return 0, false, errField(id, err.Error())
	}
	v, err := tlv.U8FromBytes(f.Value)
	if err != nil {
		return 0, false, errField(id, err.Error())
	}
	return v, true, nil
}

func u32Field(fields []tlv.Field, id uint16) (uint32, bool, error) {
	f, ok := tlv.GetField(fields, id)
	if !ok {
		return 0, false, nil
	}
	if err := tlv.MustType(f, tlv.TypeU32); err != nil {
		return 0, false, errField(id, err.Error())
	}
	v, err := tlv.U32FromBytes(f.Value)
	if err != nil {
		return 0, false, errField(id, err.Error())
	}
	return v, true, nil
}

func f32Field(fields []tlv.Field, id uint16) (float32, bool, error) {
	f, ok := tlv.GetField(fields, id)
	if !ok {
		return 0, false, nil
	}
	if err := tlv.MustType(f, tlv.TypeF32); err != nil {
		return 0, false, errField(id, err.Error())
	}
	v, err := tlv.F32FromBytes(f.Value)
	if err != nil {
		return 0, false, errField(id, err.Error())
	}
	return v, true, nil
}

func stringField(fields []tlv.Field, id uint16) (string, bool, error) {
	f, ok := tlv.GetField(fields, id)
	if !ok {
		return "", false, nil
	}
	if err := tlv.MustType(f, tlv.TypeString); err != nil {
		return "", false, errField(id, err.Error())
	}
	return string(f.Value), true, nil
}
