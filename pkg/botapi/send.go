package botapi

import (
	"context"
	"net/url"
	"strings"
)

// TextOptions carries optional parameters for SendText and EditText.
type TextOptions struct {
	// ReplyMsgID quotes the given messages. Cannot be combined with the
	// forward fields.
	ReplyMsgID []string
	// ForwardChatID and ForwardMsgID forward messages from another chat.
	ForwardChatID string
	ForwardMsgID  []string
	// ParseMode selects markup processing ("MarkdownV2" or "HTML").
	ParseMode string
}

func (o *TextOptions) apply(params url.Values) {
	if o == nil {
		return
	}
	if len(o.ReplyMsgID) > 0 {
		params.Set("replyMsgId", strings.Join(o.ReplyMsgID, ","))
	}
	if o.ForwardChatID != "" {
		params.Set("forwardChatId", o.ForwardChatID)
	}
	if len(o.ForwardMsgID) > 0 {
		params.Set("forwardMsgId", strings.Join(o.ForwardMsgID, ","))
	}
	if o.ParseMode != "" {
		params.Set("parseMode", o.ParseMode)
	}
}

// SendText sends a text message to a chat.
func (c *Client) SendText(ctx context.Context, chatID, text string, opts *TextOptions) error {
	params := url.Values{}
	params.Set("chatId", chatID)
	params.Set("text", text)
	opts.apply(params)
	return c.call(ctx, "messages/sendText", params, nil)
}

// EditText replaces the text of an already sent message.
func (c *Client) EditText(ctx context.Context, chatID, msgID, text string, opts *TextOptions) error {
	params := url.Values{}
	params.Set("chatId", chatID)
	params.Set("msgId", msgID)
	params.Set("text", text)
	opts.apply(params)
	return c.call(ctx, "messages/editText", params, nil)
}

// DeleteMessages removes messages from a chat.
func (c *Client) DeleteMessages(ctx context.Context, chatID string, msgIDs ...string) error {
	params := url.Values{}
	params.Set("chatId", chatID)
	params.Set("msgId", strings.Join(msgIDs, ","))
	return c.call(ctx, "messages/deleteMessages", params, nil)
}

// AnswerCallbackQuery responds to a callbackQuery event. text may be empty
// for a silent acknowledgement; showAlert displays a modal instead of a
// notification.
func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID, text string, showAlert bool) error {
	params := url.Values{}
	params.Set("queryId", queryID)
	if text != "" {
		params.Set("text", text)
	}
	if showAlert {
		params.Set("showAlert", "true")
	}
	return c.call(ctx, "messages/answerCallbackQuery", params, nil)
}

// BotInfo describes the bot behind the token.
type BotInfo struct {
	UserID    string `json:"userId"`
	Nick      string `json:"nick"`
	FirstName string `json:"firstName"`
	About     string `json:"about"`
}

// SelfGet fetches the bot's own profile. Used at startup as a token check.
func (c *Client) SelfGet(ctx context.Context) (*BotInfo, error) {
	var info BotInfo
	if err := c.call(ctx, "self/get", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FileInfo describes a previously uploaded file.
type FileInfo struct {
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// GetFileInfo resolves a file id into its metadata and download URL.
func (c *Client) GetFileInfo(ctx context.Context, fileID string) (*FileInfo, error) {
	params := url.Values{}
	params.Set("fileId", fileID)
	var info FileInfo
	if err := c.call(ctx, "files/getInfo", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
