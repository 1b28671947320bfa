package dispatch

import (
	"context"
	"fmt"

	"github.com/teambot-io/teambot/pkg/event"
	"github.com/teambot-io/teambot/pkg/filter"
)

// HandlerFunc is an application callback bound to a filter.
type HandlerFunc func(ctx context.Context, ev *event.Event) error

// handlerEntry is one (filter, callback) registration.
type handlerEntry struct {
	name   string
	filter filter.Filter
	fn     HandlerFunc
}

// registry is the ordered handler list. It is built before Run and read-only
// afterwards, so matching needs no locking.
type registry struct {
	entries []handlerEntry
	names   map[string]struct{}
}

func newRegistry() *registry {
	return &registry{names: make(map[string]struct{})}
}

// add appends a handler. Names must be unique; they identify the handler in
// logs and metrics.
func (r *registry) add(name string, f filter.Filter, fn HandlerFunc) error {
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
	}
	if f == nil {
		f = filter.Any()
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, handlerEntry{name: name, filter: f, fn: fn})
	return nil
}

// match scans in registration order and returns the first handler whose
// filter matches. A miss is not an error; the dispatcher drops the event.
func (r *registry) match(ev *event.Event) (handlerEntry, bool) {
	for _, e := range r.entries {
		if e.filter.Matches(ev) {
			return e, true
		}
	}
	return handlerEntry{}, false
}
