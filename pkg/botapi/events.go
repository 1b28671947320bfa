package botapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/teambot-io/teambot/pkg/event"
)

// errMissingEvents marks a 200 response without the mandatory events key.
var errMissingEvents = errors.New("botapi: events key missing in response")

// Poll fetches the next batch of updates after cursor, blocking server-side
// for up to pollTime. It returns the updates in arrival order and the cursor
// for the following poll (unchanged when the batch is empty). A response
// without the events key is a malformed envelope and surfaces as a retryable
// transport error. Poll implements dispatch.Poller.
func (c *Client) Poll(ctx context.Context, cursor int64, pollTime int) ([]event.Raw, int64, error) {
	params := url.Values{}
	params.Set("lastEventId", strconv.FormatInt(cursor, 10))
	params.Set("pollTime", strconv.Itoa(pollTime))

	var resp struct {
		OK     bool         `json:"ok"`
		Events *[]event.Raw `json:"events"`
	}
	if err := c.call(ctx, "events/get", params, &resp); err != nil {
		return nil, cursor, err
	}
	if resp.Events == nil {
		return nil, cursor, &TransportError{Kind: ServerError, Endpoint: "events/get", Err: errMissingEvents}
	}

	updates := *resp.Events
	next := cursor
	if len(updates) > 0 {
		next = updates[len(updates)-1].EventID
	}
	return updates, next, nil
}
