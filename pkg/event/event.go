package event

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Raw is one update as returned by a poll call, not yet classified.
// EventID doubles as the update's cursor position.
type Raw struct {
	EventID int64           `json:"eventId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event is a decoded, typed update. Decoded fields are treated as immutable;
// Meta is the per-dispatch side channel middleware may annotate.
type Event struct {
	ID        int64
	Type      Type
	Chat      Chat
	From      *User
	Text      string
	Timestamp time.Time
	MsgID     string
	Parts     []Part

	// Callback query fields, set only for Type == CallbackQuery.
	QueryID      string
	CallbackData string
	// Message is the message the pressed button was attached to.
	Message *Event

	// Membership fields, set for NewChatMembers and LeftChatMembers.
	Members []User
	AddedBy *User

	// Payload is the raw update payload the event was decoded from.
	Payload json.RawMessage

	metaMu sync.RWMutex
	meta   map[string]any
}

// SetMeta stores a side-channel value under key. The side channel is scoped
// to a single dispatch of this event; it is never shared across events.
func (e *Event) SetMeta(key string, value any) {
	e.metaMu.Lock()
	defer e.metaMu.Unlock()
	if e.meta == nil {
		e.meta = make(map[string]any)
	}
	e.meta[key] = value
}

// Meta returns the side-channel value stored under key, if any.
func (e *Event) Meta(key string) (any, bool) {
	e.metaMu.RLock()
	defer e.metaMu.RUnlock()
	v, ok := e.meta[key]
	return v, ok
}

// Command returns the leading command token of a message text ("/start" for
// "/start now") and true, or "" and false when the text is not a command.
func (e *Event) Command() (string, bool) {
	text := strings.TrimSpace(e.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		text = text[:i]
	}
	return text, true
}

// HasPart reports whether the event carries a part of the given type.
func (e *Event) HasPart(t PartType) bool {
	for _, p := range e.Parts {
		if p.Type == t {
			return true
		}
	}
	return false
}
