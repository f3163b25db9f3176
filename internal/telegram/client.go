// Package telegram runs the Telegram channel. It long-polls the Bot
// API and feeds incoming messages into the chat service.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ruffo_chat_backend/platform/logger"
)

const pollTimeoutSeconds = 30

// MessageHandler processes one inbound message. Satisfied by the chat
// service.
type MessageHandler interface {
	HandleMessage(ctx context.Context, threadID, channel, message string) (string, error)
}

// Client long-polls getUpdates and replies via sendMessage.
type Client struct {
	httpClient *http.Client
	baseURL    string
	handler    MessageHandler
	log        *logger.Logger
	offset     int64
}

// NewClient creates a Telegram client for the given bot token.
func NewClient(token string, handler MessageHandler, log *logger.Logger) *Client {
	return &Client{
		// Slightly above the long-poll timeout so the request itself
		// never races the server-side wait.
		httpClient: &http.Client{Timeout: (pollTimeoutSeconds + 10) * time.Second},
		baseURL:    "https://api.telegram.org/bot" + token,
		handler:    handler,
		log:        log,
	}
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// Run polls for updates until the context is cancelled.
func (c *Client) Run(ctx context.Context) {
	c.log.Info("telegram channel started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("telegram channel stopped")
			return
		default:
		}

		updates, err := c.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("telegram channel stopped")
				return
			}
			c.log.Error("telegram poll failed", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= c.offset {
				c.offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			c.handleUpdate(ctx, u)
		}
	}
}

func (c *Client) handleUpdate(ctx context.Context, u update) {
	chatID := u.Message.Chat.ID
	threadID := fmt.Sprintf("tg-%d", chatID)

	reply, err := c.handler.HandleMessage(ctx, threadID, "telegram", u.Message.Text)
	if err != nil {
		c.log.Error("telegram message handling failed", "thread_id", threadID, "error", err)
		reply = "🐕 ¡Woof! Tuve un problemita. ¿Me lo repites, humano-amigo?"
	}

	if err := c.sendMessage(ctx, chatID, reply); err != nil {
		c.log.Error("telegram reply failed", "thread_id", threadID, "error", err)
	}
}

func (c *Client) getUpdates(ctx context.Context) ([]update, error) {
	url := fmt.Sprintf("%s/getUpdates?timeout=%d&offset=%d", c.baseURL, pollTimeoutSeconds, c.offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build getUpdates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram getUpdates not ok")
	}

	return result.Result, nil
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
