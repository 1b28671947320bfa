package filter

import "github.com/teambot-io/teambot/pkg/event"

// And matches when every operand matches. And() with no operands matches
// everything.
func And(fs ...Filter) Filter { return andFilter{fs: fs} }

type andFilter struct{ fs []Filter }

func (f andFilter) Matches(ev *event.Event) bool {
	for _, sub := range f.fs {
		if !sub.Matches(ev) {
			return false
		}
	}
	return true
}

// Or matches when at least one operand matches. Or() with no operands
// matches nothing.
func Or(fs ...Filter) Filter { return orFilter{fs: fs} }

type orFilter struct{ fs []Filter }

func (f orFilter) Matches(ev *event.Event) bool {
	for _, sub := range f.fs {
		if sub.Matches(ev) {
			return true
		}
	}
	return false
}

// Not inverts a filter.
func Not(f Filter) Filter { return notFilter{f: f} }

type notFilter struct{ f Filter }

func (f notFilter) Matches(ev *event.Event) bool { return !f.f.Matches(ev) }
