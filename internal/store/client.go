// Package store is the client for the external message store, the service of
// record for user profiles and persisted messages. Every call is bounded by
// the configured timeout and failures collapse to "no result": the relay
// keeps running without the store, it just has less to say.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chat-relay/internal/models"
)

// ErrUnavailable reports that the store could not produce a result: not
// configured, unreachable, timed out, or a fault status.
var ErrUnavailable = errors.New("message store unavailable")

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// UserProfile fetches the profile for userID. A nil profile with a non-nil
// error means the store had nothing for us.
func (c *Client) UserProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))

	raw, err := c.get(ctx, "user/profile", params)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{Raw: raw}
	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("%w: decoding profile: %v", ErrUnavailable, err)
	}
	return profile, nil
}

// Messages lists up to limit persisted messages, older than beforeID when
// beforeID is non-zero.
func (c *Client) Messages(ctx context.Context, limit int, beforeID int64) (*models.MessagesPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if beforeID != 0 {
		params.Set("before_id", strconv.FormatInt(beforeID, 10))
	}

	raw, err := c.get(ctx, "messages", params)
	if err != nil {
		return nil, err
	}

	var page models.MessagesPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: decoding messages: %v", ErrUnavailable, err)
	}
	return &page, nil
}

// SaveMessage persists a message and returns the canonical stored object.
func (c *Client) SaveMessage(ctx context.Context, userID int64, text string, replyToID *int64) (json.RawMessage, error) {
	return c.post(ctx, "send_message", map[string]any{
		"user_id":     userID,
		"text":        text,
		"reply_to_id": replyToID,
	})
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if c.baseURL == "" {
		slog.Warn("Message store not configured")
		return nil, ErrUnavailable
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	if c.baseURL == "" {
		slog.Warn("Message store not configured")
		return nil, ErrUnavailable
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Store request failed", "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("Store request failed", "url", req.URL.String(), "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Store response unreadable", "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return raw, nil
}
