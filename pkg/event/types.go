// Package event defines the typed representation of VK Teams Bot API updates
// and the decoder that classifies raw updates into it.
package event

import "encoding/json"

// Type discriminates the kind of update the platform delivered.
type Type string

// Supported event types.
const (
	NewMessage      Type = "newMessage"
	EditedMessage   Type = "editedMessage"
	DeletedMessage  Type = "deletedMessage"
	PinnedMessage   Type = "pinnedMessage"
	UnpinnedMessage Type = "unpinnedMessage"
	NewChatMembers  Type = "newChatMembers"
	LeftChatMembers Type = "leftChatMembers"
	ChangedChatInfo Type = "changedChatInfo"
	CallbackQuery   Type = "callbackQuery"
)

// known reports whether t is one of the types the decoder understands.
func (t Type) known() bool {
	switch t {
	case NewMessage, EditedMessage, DeletedMessage, PinnedMessage,
		UnpinnedMessage, NewChatMembers, LeftChatMembers,
		ChangedChatInfo, CallbackQuery:
		return true
	}
	return false
}

// ChatType indicates the kind of conversation an event belongs to.
type ChatType string

// Supported chat types.
const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
	ChatChannel ChatType = "channel"
)

// Chat identifies the conversation an event belongs to.
type Chat struct {
	ID    string   `json:"chatId"`
	Type  ChatType `json:"type"`
	Title string   `json:"title,omitempty"`
}

// IsPrivate reports whether the chat is a one-to-one conversation.
func (c Chat) IsPrivate() bool {
	return c.Type == ChatPrivate
}

// User identifies a platform user referenced by an event.
type User struct {
	ID        string `json:"userId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Nick      string `json:"nick,omitempty"`
}

// PartType discriminates message part attachments.
type PartType string

// Supported part types.
const (
	PartFile    PartType = "file"
	PartSticker PartType = "sticker"
	PartMention PartType = "mention"
	PartVoice   PartType = "voice"
	PartForward PartType = "forward"
	PartReply   PartType = "reply"
)

// Part is one attachment of a message payload. The payload shape varies by
// part type and is kept raw for callers that need it.
type Part struct {
	Type    PartType        `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
