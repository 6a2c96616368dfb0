package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/models"
)

// ListSessions returns the caller's sessions in server order
func (c *Client) ListSessions(ctx context.Context, skip, limit int) (*models.SessionList, error) {
	path := fmt.Sprintf("%s?skip=%d&limit=%d", models.PathSessions, skip, limit)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list models.SessionList
	if err := c.doJSON("list sessions", req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListMessages returns all messages of a session, oldest first
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	path := fmt.Sprintf("%s/%s/messages", models.PathSessions, sessionID)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := c.doJSON("list messages", req, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// RenameSession sets a session's title. The caller reloads the canonical
// list after acknowledgment instead of patching locally.
func (c *Client) RenameSession(ctx context.Context, sessionID, title string) error {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return fmt.Errorf("failed to marshal rename request: %w", err)
	}

	path := fmt.Sprintf("%s/%s", models.PathSessions, sessionID)
	req, err := c.newRequest(ctx, http.MethodPatch, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON("rename session", req, nil)
}

// DeleteSession removes a session and its messages
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("%s/%s", models.PathSessions, sessionID)

	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	return c.doJSON("delete session", req, nil)
}
