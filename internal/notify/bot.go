package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// BotClient sends messages through the Telegram Bot API. A nil client is
// a valid no-op, so callers do not branch on whether notification is
// configured.
type BotClient struct {
	token   string
	apiBase string
	http    *http.Client
}

func NewBotClient(token string) *BotClient {
	if token == "" {
		return nil
	}
	return &BotClient{
		token:   token,
		apiBase: defaultAPIBase,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// SendMessage posts a plain-text message to the given chat.
func (c *BotClient) SendMessage(ctx context.Context, chatID, text string) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("telegram api: status %d: %s", resp.StatusCode, apiErr.Description)
	}

	return nil
}
