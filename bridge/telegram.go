package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultTelegramAPI = "https://api.telegram.org"
	longPollWindow     = 25 * time.Second
)

// Telegram is the minimal Bot API surface the bridge needs: plain messages,
// in-place edits, and pinning. It speaks the HTTP API directly.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     int64
}

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultTelegramAPI,
		token:      token,
		chatID:     chatID,
	}
}

// SendMessage posts text to the configured chat and returns the new message
// id.
func (t *Telegram) SendMessage(ctx context.Context, text string) (int64, error) {
	var result struct {
		MessageID int64 `json:"message_id"`
	}
	err := t.call(ctx, "sendMessage", map[string]any{
		"chat_id": t.chatID,
		"text":    text,
	}, &result)
	if err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// EditMessageText rewrites an existing message in place.
func (t *Telegram) EditMessageText(ctx context.Context, messageID int64, text string) error {
	return t.call(ctx, "editMessageText", map[string]any{
		"chat_id":    t.chatID,
		"message_id": messageID,
		"text":       text,
	}, nil)
}

// Update is one inbound item from getUpdates. Only the fields the command
// listener reads are modelled.
type Update struct {
	UpdateID int64            `json:"update_id"`
	Message  *IncomingMessage `json:"message"`
}

type IncomingMessage struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// GetUpdates long-polls for inbound messages starting at offset. The poll
// window stays under the HTTP client timeout so a quiet chat returns an
// empty batch instead of a timeout error.
func (t *Telegram) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var result []Update
	err := t.call(ctx, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         int(longPollWindow / time.Second),
		"allowed_updates": []string{"message"},
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PinChatMessage pins a message in the configured chat.
func (t *Telegram) PinChatMessage(ctx context.Context, messageID int64) error {
	return t.call(ctx, "pinChatMessage", map[string]any{
		"chat_id":              t.chatID,
		"message_id":           messageID,
		"disable_notification": true,
	}, nil)
}

func (t *Telegram) call(ctx context.Context, method string, params map[string]any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram %s: decoding response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s: %s", method, envelope.Description)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decoding result: %w", method, err)
		}
	}
	return nil
}
