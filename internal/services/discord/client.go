package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client talks to the Discord REST API with a bot token. Only the three
// message operations the workflow needs are implemented; gateway and slash
// command handling belong to the chat front end, not this daemon.
type Client struct {
	token          string
	adminChannelID string
	baseURL        string
	httpClient     *http.Client
}

var _ Messenger = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a Discord REST client.
func NewClient(token, adminChannelID string, opts ...ClientOption) *Client {
	client := &Client{
		token:          strings.TrimSpace(token),
		adminChannelID: strings.TrimSpace(adminChannelID),
		baseURL:        defaultBaseURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type messagePayload struct {
	Content string `json:"content"`
}

type messageResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

type dmChannelRequest struct {
	RecipientID string `json:"recipient_id"`
}

type dmChannelResponse struct {
	ID string `json:"id"`
}

// SendChannelMessage posts content to a channel and returns the new
// message's id for later in-place edits.
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) (string, error) {
	if channelID == "" {
		return "", errors.New("channel id required")
	}
	var resp messageResponse
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.do(ctx, http.MethodPost, path, messagePayload{Content: content}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdateMessage edits a previously posted message in place.
func (c *Client) UpdateMessage(ctx context.Context, channelID, messageID, content string) error {
	if channelID == "" || messageID == "" {
		return errors.New("channel and message ids required")
	}
	path := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	return c.do(ctx, http.MethodPatch, path, messagePayload{Content: content}, nil)
}

// SendDirectMessage opens (or reuses) the DM channel with a user and posts
// content there. Returns the channel and message ids for later edits.
func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) (string, string, error) {
	if userID == "" {
		return "", "", errors.New("user id required")
	}
	var channel dmChannelResponse
	if err := c.do(ctx, http.MethodPost, "/users/@me/channels", dmChannelRequest{RecipientID: userID}, &channel); err != nil {
		return "", "", fmt.Errorf("open dm channel: %w", err)
	}
	messageID, err := c.SendChannelMessage(ctx, channel.ID, content)
	if err != nil {
		return "", "", err
	}
	return channel.ID, messageID, nil
}

// NotifyAdmin posts content to the configured admin channel.
func (c *Client) NotifyAdmin(ctx context.Context, content string) error {
	if c.adminChannelID == "" {
		return errors.New("admin channel not configured")
	}
	_, err := c.SendChannelMessage(ctx, c.adminChannelID, content)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode discord response: %w", err)
	}
	return nil
}
