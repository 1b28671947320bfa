package event

import (
	"errors"
	"testing"
)

func TestDecodeNewMessage(t *testing.T) {
	raw := Raw{
		EventID: 42,
		Type:    "newMessage",
		Payload: []byte(`{
			"msgId": "7077",
			"text": "/start now",
			"timestamp": 1700000000,
			"chat": {"chatId": "c1", "type": "private"},
			"from": {"userId": "u1", "firstName": "Alice"},
			"parts": [{"type": "reply"}]
		}`),
	}

	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.ID != 42 {
		t.Errorf("ID = %d, want 42", ev.ID)
	}
	if ev.Type != NewMessage {
		t.Errorf("Type = %q, want %q", ev.Type, NewMessage)
	}
	if ev.Chat.ID != "c1" || !ev.Chat.IsPrivate() {
		t.Errorf("Chat = %+v, want private c1", ev.Chat)
	}
	if ev.From == nil || ev.From.ID != "u1" {
		t.Errorf("From = %+v, want u1", ev.From)
	}
	if ev.Timestamp.Unix() != 1700000000 {
		t.Errorf("Timestamp = %v, want 1700000000", ev.Timestamp.Unix())
	}
	if !ev.HasPart(PartReply) {
		t.Error("HasPart(reply) = false, want true")
	}
	if cmd, ok := ev.Command(); !ok || cmd != "/start" {
		t.Errorf("Command() = %q, %v; want /start, true", cmd, ok)
	}
}

func TestDecodeCallbackQuery(t *testing.T) {
	raw := Raw{
		EventID: 7,
		Type:    "callbackQuery",
		Payload: []byte(`{
			"queryId": "q1",
			"callbackData": "confirm",
			"from": {"userId": "u2"},
			"message": {
				"msgId": "m1",
				"text": "pick one",
				"chat": {"chatId": "c9", "type": "group", "title": "ops"}
			}
		}`),
	}

	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.QueryID != "q1" || ev.CallbackData != "confirm" {
		t.Errorf("callback fields = %q/%q, want q1/confirm", ev.QueryID, ev.CallbackData)
	}
	// The chat comes from the message the button was attached to.
	if ev.Chat.ID != "c9" {
		t.Errorf("Chat.ID = %q, want c9", ev.Chat.ID)
	}
	if ev.Message == nil || ev.Message.Text != "pick one" {
		t.Errorf("Message = %+v, want nested message", ev.Message)
	}
}

func TestDecodeMembers(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		payload string
		want    int
	}{
		{
			name:    "new members",
			typ:     "newChatMembers",
			payload: `{"chat": {"chatId": "c1", "type": "group"}, "newMembers": [{"userId": "a"}, {"userId": "b"}], "addedBy": {"userId": "z"}}`,
			want:    2,
		},
		{
			name:    "left members",
			typ:     "leftChatMembers",
			payload: `{"chat": {"chatId": "c1", "type": "group"}, "leftMembers": [{"userId": "a"}]}`,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(Raw{EventID: 1, Type: tt.typ, Payload: []byte(tt.payload)})
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(ev.Members) != tt.want {
				t.Errorf("len(Members) = %d, want %d", len(ev.Members), tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		kind DecodeErrorKind
	}{
		{
			name: "unknown type",
			raw:  Raw{EventID: 1, Type: "unknown_x", Payload: []byte(`{}`)},
			kind: UnknownType,
		},
		{
			name: "missing chat",
			raw:  Raw{EventID: 2, Type: "newMessage", Payload: []byte(`{"text": "hi"}`)},
			kind: MissingField,
		},
		{
			name: "malformed payload",
			raw:  Raw{EventID: 3, Type: "newMessage", Payload: []byte(`{"chat": 12}`)},
			kind: MalformedValue,
		},
		{
			name: "callback without queryId",
			raw:  Raw{EventID: 4, Type: "callbackQuery", Payload: []byte(`{"from": {"userId": "u"}, "message": {"chat": {"chatId": "c"}}}`)},
			kind: MissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Decode() error = %v, want *DecodeError", err)
			}
			if decErr.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", decErr.Kind, tt.kind)
			}
			if decErr.EventID != tt.raw.EventID {
				t.Errorf("EventID = %d, want %d", decErr.EventID, tt.raw.EventID)
			}
		})
	}
}

func TestMetaIsPerEvent(t *testing.T) {
	a := &Event{ID: 1}
	b := &Event{ID: 2}

	a.SetMeta("role", "admin")
	if _, ok := b.Meta("role"); ok {
		t.Error("meta leaked across event instances")
	}
	v, ok := a.Meta("role")
	if !ok || v != "admin" {
		t.Errorf("Meta(role) = %v, %v; want admin, true", v, ok)
	}
}
