// Package filter provides pure, composable predicates used to route events
// to handlers. Filters never perform I/O and never fail; combinators return
// new filter values without mutating their operands.
package filter

import (
	"regexp"
	"slices"
	"strings"

	"github.com/teambot-io/teambot/pkg/event"
)

// Filter decides whether a handler applies to an event.
type Filter interface {
	Matches(ev *event.Event) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(ev *event.Event) bool

// Matches implements Filter.
func (f Func) Matches(ev *event.Event) bool { return f(ev) }

// Any matches every event.
func Any() Filter {
	return Func(func(*event.Event) bool { return true })
}

// Type matches events of the given type.
func Type(t event.Type) Filter {
	return typeFilter{t: t}
}

type typeFilter struct{ t event.Type }

func (f typeFilter) Matches(ev *event.Event) bool { return ev.Type == f.t }

// Message matches new message events.
func Message() Filter { return Type(event.NewMessage) }

// Command matches messages whose leading token equals cmd (e.g. "/start").
// A missing leading slash in cmd is tolerated and added.
func Command(cmd string) Filter {
	if !strings.HasPrefix(cmd, "/") {
		cmd = "/" + cmd
	}
	return commandFilter{cmd: cmd}
}

type commandFilter struct{ cmd string }

func (f commandFilter) Matches(ev *event.Event) bool {
	if ev.Type != event.NewMessage {
		return false
	}
	got, ok := ev.Command()
	return ok && got == f.cmd
}

// TextContains matches messages whose text contains sub.
func TextContains(sub string) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.NewMessage && strings.Contains(ev.Text, sub)
	})
}

// Regexp matches messages whose text matches re.
func Regexp(re *regexp.Regexp) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.NewMessage && re.MatchString(strings.TrimSpace(ev.Text))
	})
}

// ChatID matches events originating from any of the given chats.
func ChatID(ids ...string) Filter {
	owned := slices.Clone(ids)
	return Func(func(ev *event.Event) bool {
		return slices.Contains(owned, ev.Chat.ID)
	})
}

// CallbackData matches callback queries carrying exactly data.
func CallbackData(data string) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.CallbackQuery && ev.CallbackData == data
	})
}

// CallbackDataRegexp matches callback queries whose data matches re.
func CallbackDataRegexp(re *regexp.Regexp) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.CallbackQuery && re.MatchString(ev.CallbackData)
	})
}

// HasPart matches messages carrying a part of the given type
// (file, reply, forward, ...).
func HasPart(t event.PartType) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.NewMessage && ev.HasPart(t)
	})
}

// State matches messages from chats whose conversation state, as reported by
// lookup, equals want. The lookup must be a read-only view (typically
// state.Store.StateOf); the filter itself stays side-effect free.
func State(lookup func(chatID string) string, want string) Filter {
	return Func(func(ev *event.Event) bool {
		return ev.Type == event.NewMessage && lookup(ev.Chat.ID) == want
	})
}
