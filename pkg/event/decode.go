package event

import (
	"encoding/json"
	"time"
)

// payload is the superset of fields across all update payload shapes.
type payload struct {
	Chat         *Chat           `json:"chat"`
	From         *User           `json:"from"`
	Text         string          `json:"text"`
	Timestamp    int64           `json:"timestamp"`
	MsgID        string          `json:"msgId"`
	Parts        []Part          `json:"parts"`
	NewMembers   []User          `json:"newMembers"`
	LeftMembers  []User          `json:"leftMembers"`
	AddedBy      *User           `json:"addedBy"`
	QueryID      string          `json:"queryId"`
	CallbackData string          `json:"callbackData"`
	Message      json.RawMessage `json:"message"`
}

// Decode classifies a raw update into a typed Event. It returns a
// *DecodeError when the type discriminator is unrecognized or a required
// payload field is absent or malformed. A decode failure concerns only the
// one update and must not stop processing of its siblings.
func Decode(raw Raw) (*Event, error) {
	typ := Type(raw.Type)
	if !typ.known() {
		return nil, &DecodeError{Kind: UnknownType, EventID: raw.EventID, Type: raw.Type}
	}

	var p payload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &DecodeError{Kind: MalformedValue, EventID: raw.EventID, Type: raw.Type, Err: err}
	}

	ev := &Event{
		ID:      raw.EventID,
		Type:    typ,
		Text:    p.Text,
		MsgID:   p.MsgID,
		Parts:   p.Parts,
		From:    p.From,
		Payload: raw.Payload,
	}
	if p.Timestamp != 0 {
		ev.Timestamp = time.Unix(p.Timestamp, 0)
	}

	if typ == CallbackQuery {
		return decodeCallback(ev, raw, p)
	}

	if p.Chat == nil || p.Chat.ID == "" {
		return nil, &DecodeError{Kind: MissingField, EventID: raw.EventID, Type: raw.Type, Field: "chat"}
	}
	ev.Chat = *p.Chat

	switch typ {
	case NewChatMembers:
		ev.Members = p.NewMembers
		ev.AddedBy = p.AddedBy
	case LeftChatMembers:
		ev.Members = p.LeftMembers
		if len(ev.Members) == 0 {
			ev.Members = p.NewMembers
		}
	}

	return ev, nil
}

// decodeCallback fills the callbackQuery-specific fields. The chat is taken
// from the message the button was attached to.
func decodeCallback(ev *Event, raw Raw, p payload) (*Event, error) {
	switch {
	case p.QueryID == "":
		return nil, &DecodeError{Kind: MissingField, EventID: raw.EventID, Type: raw.Type, Field: "queryId"}
	case p.From == nil || p.From.ID == "":
		return nil, &DecodeError{Kind: MissingField, EventID: raw.EventID, Type: raw.Type, Field: "from"}
	case len(p.Message) == 0:
		return nil, &DecodeError{Kind: MissingField, EventID: raw.EventID, Type: raw.Type, Field: "message"}
	}

	msg, err := Decode(Raw{EventID: raw.EventID, Type: string(NewMessage), Payload: p.Message})
	if err != nil {
		return nil, err
	}

	ev.QueryID = p.QueryID
	ev.CallbackData = p.CallbackData
	ev.Message = msg
	ev.Chat = msg.Chat
	return ev, nil
}
