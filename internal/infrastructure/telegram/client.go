// Package telegram talks to the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// maxMessageRunes is Telegram's text limit.
const maxMessageRunes = 4096

const parseModeMarkdown = "Markdown"

// Update is the subset of a Bot API update the monitor reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

// Client implements ports.Messenger and ports.BotIdentity.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for token. pollTimeout bounds long polls; the
// HTTP timeout is set above it.
func NewClient(apiBase, token string, pollTimeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(apiBase, "/") + "/bot" + token)
	client.SetTimeout(pollTimeout + 30*time.Second)
	client.SetHeader("Accept", "application/json")
	return &Client{http: client}
}

// SendText sends a Markdown message, falling back to plain text when
// Telegram rejects the markup.
func (c *Client) SendText(ctx context.Context, to domain.RecipientID, text string) error {
	text = truncate(text)
	err := c.sendMessage(ctx, to, text, parseModeMarkdown)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == 400 && strings.Contains(apiErr.Description, "can't parse entities") {
		return c.sendMessage(ctx, to, text, "")
	}
	return err
}

func (c *Client) sendMessage(ctx context.Context, to domain.RecipientID, text, parseMode string) error {
	payload := map[string]interface{}{
		"chat_id": int64(to),
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	req := c.http.R().SetContext(ctx).SetBody(payload)
	return c.do(req, "POST", "sendMessage", nil)
}

// SendImage uploads image as a photo with caption.
func (c *Client) SendImage(ctx context.Context, to domain.RecipientID, image []byte, caption string) error {
	req := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": strconv.FormatInt(int64(to), 10),
			"caption": caption,
		}).
		SetFileReader("photo", "screenshot.png", bytes.NewReader(image))
	return c.do(req, "POST", "sendPhoto", nil)
}

// GetUpdates long-polls for updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":          strconv.FormatInt(offset, 10),
			"timeout":         strconv.Itoa(int(timeout / time.Second)),
			"allowed_updates": `["message"]`,
		})
	var updates []Update
	if err := c.do(req, "GET", "getUpdates", &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Identity calls getMe and returns the bot username.
func (c *Client) Identity(ctx context.Context) (string, error) {
	var me User
	if err := c.do(c.http.R().SetContext(ctx), "GET", "getMe", &me); err != nil {
		return "", err
	}
	return me.Username, nil
}

func (c *Client) do(req *resty.Request, verb, method string, out interface{}) error {
	var env envelope
	req.SetResult(&env).SetError(&env)
	resp, err := req.Execute(verb, "/"+method)
	if err != nil {
		// The URL embeds the token; keep it out of logs.
		return fmt.Errorf("telegram %s: request failed: %w", method, redact(err))
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return &APIError{Method: method, Code: code, Description: env.Description}
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageRunes {
		return text
	}
	const suffix = "\n\n... (truncated)"
	return string(runes[:maxMessageRunes-len([]rune(suffix))]) + suffix
}

var (
	_ ports.Messenger   = (*Client)(nil)
	_ ports.BotIdentity = (*Client)(nil)
)
