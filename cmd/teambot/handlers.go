package main

import (
	"context"
	"fmt"

	"github.com/teambot-io/teambot/internal/state"
	"github.com/teambot-io/teambot/pkg/app"
	"github.com/teambot-io/teambot/pkg/event"
	"github.com/teambot-io/teambot/pkg/filter"
)

// registerHandlers wires the reference bot's handlers: a greeting command,
// a keyboard-free ping, a two-step name conversation, callback
// acknowledgement, and a plain-text echo.
func registerHandlers(a *app.App) error {
	client := a.Client

	err := a.Dispatcher.Handle("start", filter.Command("/start"),
		func(ctx context.Context, ev *event.Event) error {
			text := "Hello! I am a teambot reference bot. Try /ping or send me any text."
			return client.SendText(ctx, ev.Chat.ID, text, nil)
		})
	if err != nil {
		return err
	}

	err = a.Dispatcher.Handle("ping", filter.Command("/ping"),
		func(ctx context.Context, ev *event.Event) error {
			return client.SendText(ctx, ev.Chat.ID, "pong", nil)
		})
	if err != nil {
		return err
	}

	// Two-step flow: /name parks the chat in a conversation state; the
	// next message from that chat is the answer. The state expires after
	// the configured TTL, so an abandoned flow falls back to the echo.
	stateTTL := a.Config.State.TTL
	err = a.Dispatcher.Handle("name", filter.Command("/name"),
		func(ctx context.Context, ev *event.Event) error {
			if err := a.State.Set(ctx, ev.Chat.ID, "awaiting_name", nil, stateTTL); err != nil {
				return err
			}
			return client.SendText(ctx, ev.Chat.ID, "What is your name?", nil)
		})
	if err != nil {
		return err
	}

	err = a.Dispatcher.Handle("name-reply", filter.State(state.StateOf(a.State), "awaiting_name"),
		func(ctx context.Context, ev *event.Event) error {
			if err := a.State.Delete(ctx, ev.Chat.ID); err != nil {
				return err
			}
			return client.SendText(ctx, ev.Chat.ID, "Nice to meet you, "+ev.Text+"!", nil)
		})
	if err != nil {
		return err
	}

	err = a.Dispatcher.Handle("callback", filter.Type(event.CallbackQuery),
		func(ctx context.Context, ev *event.Event) error {
			return client.AnswerCallbackQuery(ctx, ev.QueryID,
				fmt.Sprintf("got %q", ev.CallbackData), false)
		})
	if err != nil {
		return err
	}

	// Catch-all echo for any remaining new message.
	return a.Dispatcher.Handle("echo", filter.Message(),
		func(ctx context.Context, ev *event.Event) error {
			if ev.Text == "" {
				return nil
			}
			return client.SendText(ctx, ev.Chat.ID, ev.Text, nil)
		})
}
