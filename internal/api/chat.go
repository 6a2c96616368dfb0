package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/models"
)

// SendChat dispatches a completion request over the JSON transport. Used
// whenever no local file bytes need to travel.
func (c *Client) SendChat(ctx context.Context, chatReq models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, models.PathChat, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.ChatResponse
	if err := c.doJSON("send chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatUploadRequest is a completion request carrying raw file bytes.
// FileIDs travel alongside as a JSON-encoded form field.
type ChatUploadRequest struct {
	Message    string
	SessionID  string
	Files      []attach.LocalFile
	FileIDs    []string
	ProviderID int
	Model      string
	Progress   ProgressFunc
}

// SendChatWithFiles dispatches a completion request over the multipart
// transport. Progress, when set, receives the upload percentage.
func (c *Client) SendChatWithFiles(ctx context.Context, upReq ChatUploadRequest) (*models.ChatResponse, error) {
	if len(upReq.Files) == 0 {
		return nil, fmt.Errorf("multipart chat requires at least one local file")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("message", upReq.Message); err != nil {
		return nil, fmt.Errorf("failed to write message field: %w", err)
	}
	if upReq.SessionID != "" {
		if err := writer.WriteField("session_id", upReq.SessionID); err != nil {
			return nil, fmt.Errorf("failed to write session_id field: %w", err)
		}
	}
	if len(upReq.FileIDs) > 0 {
		ids, err := json.Marshal(upReq.FileIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal file_ids: %w", err)
		}
		if err := writer.WriteField("file_ids", string(ids)); err != nil {
			return nil, fmt.Errorf("failed to write file_ids field: %w", err)
		}
	}
	if upReq.ProviderID != 0 {
		if err := writer.WriteField("provider_id", strconv.Itoa(upReq.ProviderID)); err != nil {
			return nil, fmt.Errorf("failed to write provider_id field: %w", err)
		}
	}
	if upReq.Model != "" {
		if err := writer.WriteField("model", upReq.Model); err != nil {
			return nil, fmt.Errorf("failed to write model field: %w", err)
		}
	}

	for _, f := range upReq.Files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write file data: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if upReq.Progress != nil {
		reader = newProgressReader(&body, total, upReq.Progress)
	}

	req, err := c.newRequest(ctx, http.MethodPost, models.PathChatWithFile, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	var resp models.ChatResponse
	if err := c.doJSON("send chat with files", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
