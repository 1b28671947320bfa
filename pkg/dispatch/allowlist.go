package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/teambot-io/teambot/pkg/event"
)

// Sender is the outbound surface of the transport collaborator. The engine
// never retries sends on the caller's behalf.
type Sender interface {
	Send(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// AllowListConfig configures the AllowChats middleware.
type AllowListConfig struct {
	// Chats lists the chat IDs allowed to use the bot. An empty list
	// allows everyone.
	Chats []string

	// Sender, when set together with RejectText, is used to notify
	// rejected chats before the event is aborted.
	Sender Sender

	// RejectText is the notice sent to rejected chats.
	RejectText string

	Logger *slog.Logger
}

// AllowChats returns a middleware that aborts events from chats outside the
// allow list. The rejection notice send is a best-effort side effect: a send
// failure is logged and the event is still aborted.
func AllowChats(cfg AllowListConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]struct{}, len(cfg.Chats))
	for _, id := range cfg.Chats {
		allowed[id] = struct{}{}
	}

	return MiddlewareFunc(func(ctx context.Context, ev *event.Event) (Result, error) {
		if len(allowed) == 0 {
			return Continue, nil
		}
		if _, ok := allowed[ev.Chat.ID]; ok {
			return Continue, nil
		}

		logger.Warn("chat denied by allow list",
			"event_id", ev.ID,
			"chat_id", ev.Chat.ID,
		)

		if cfg.Sender != nil && cfg.RejectText != "" {
			params := url.Values{}
			params.Set("chatId", ev.Chat.ID)
			params.Set("text", cfg.RejectText)
			if _, err := cfg.Sender.Send(ctx, "messages/sendText", params); err != nil {
				logger.Error("rejection notice failed",
					"chat_id", ev.Chat.ID,
					"error", err,
				)
			}
		}
		return Abort, nil
	})
}
