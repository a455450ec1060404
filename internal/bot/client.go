package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Telegram Bot API over plain HTTP.
type Client struct {
	httpClient *http.Client
	base       string
}

// NewClient builds a Client for the given API base and bot token. The
// HTTP timeout leaves room for long-poll waits.
func NewClient(apiBase, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 35 * time.Second},
		base:       fmt.Sprintf("%s/bot%s", strings.TrimRight(apiBase, "/"), token),
	}
}

// Update is a single inbound event from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *Peer  `json:"from"`
	Chat      Peer   `json:"chat"`
	Text      string `json:"text"`
}

// Peer is the id of a chat or a user.
type Peer struct {
	ID int64 `json:"id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// GetUpdates long-polls for new updates starting at offset. The call may
// block up to timeoutSec server side.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	url := fmt.Sprintf("%s/getUpdates?offset=%d&timeout=%d", c.base, offset, timeoutSec)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	if !body.OK {
		return nil, fmt.Errorf("getUpdates: %s", body.Description)
	}
	var updates []Update
	if err := json.Unmarshal(body.Result, &updates); err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	return updates, nil
}

// SendMessage sends a plain text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendPhoto sends a photo with a caption, falling back to a plain
// message when no photo URL is given.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	if photoURL == "" {
		return c.SendMessage(ctx, chatID, caption)
	}
	return c.call(ctx, "sendPhoto", map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+method, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if !body.OK {
		return fmt.Errorf("%s: %s", method, body.Description)
	}
	return nil
}
