// Package client is an HTTP client for the Quetzal API. It implements the
// narrow Store and Resolver interfaces the session package needs, plus the
// account and conversation-listing calls the terminal client uses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// APIError carries the status and message of a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to one Quetzal server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Register creates an account from a name and email pair.
func (c *Client) Register(ctx context.Context, name, email string) (*domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodPost, "/register",
		map[string]string{"name": name, "email": email}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login looks up an existing account by its name and email pair.
func (c *Client) Login(ctx context.Context, name, email string) (*domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodPost, "/login",
		map[string]string{"name": name, "email": email}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Resolve sends a chat message and returns the assistant's answer. It
// implements session.Resolver; the server itself never fails a resolution,
// so an error here means transport or request trouble.
func (c *Client) Resolve(ctx context.Context, text string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/chat",
		map[string]string{"message": text}, &out)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// CreateConversation implements session.Store.
func (c *Client) CreateConversation(ctx context.Context, userID uint, title string) (uint, error) {
	var conv domain.Conversation
	err := c.doJSON(ctx, http.MethodPost, "/conversations",
		map[string]any{"user_id": userID, "title": title}, &conv)
	if err != nil {
		return 0, err
	}
	return conv.ID, nil
}

// AppendMessage implements session.Store.
func (c *Client) AppendMessage(ctx context.Context, conversationID uint, role, text string) error {
	return c.doJSON(ctx, http.MethodPost, "/messages",
		map[string]any{"conversation_id": conversationID, "role": role, "text": text}, nil)
}

// ListMessages implements session.Store.
func (c *Client) ListMessages(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	var messages []domain.Message
	err := c.doJSON(ctx, http.MethodGet,
		fmt.Sprintf("/messages/%d", conversationID), nil, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListConversations returns a user's conversations, newest first.
func (c *Client) ListConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := c.doJSON(ctx, http.MethodGet,
		fmt.Sprintf("/conversations?user_id=%d", userID), nil, &conversations)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// DeleteConversation removes a conversation and all its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID uint) error {
	return c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/conversations/%d", conversationID), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
}
