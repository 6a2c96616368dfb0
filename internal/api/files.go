package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/attach"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

// MaxFileSize is the client-side upload limit
const MaxFileSize = 50 * 1024 * 1024 // 50MB

// ListFiles returns the caller's file library
func (c *Client) ListFiles(ctx context.Context, skip, limit int) (*models.FileList, error) {
	path := fmt.Sprintf("%s?skip=%d&limit=%d", models.PathFiles, skip, limit)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list models.FileList
	if err := c.doJSON("list files", req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UploadFile uploads one file to the library. Progress, when set, receives
// the byte-level upload percentage.
func (c *Client) UploadFile(ctx context.Context, file attach.LocalFile, progress ProgressFunc) (*models.FileInfo, error) {
	if int64(len(file.Data)) > MaxFileSize {
		return nil, apierrors.NewUploadError(file.Name, fmt.Errorf("file size exceeds maximum %d bytes", MaxFileSize))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if progress != nil {
		reader = newProgressReader(&body, total, progress)
	}

	req, err := c.newRequest(ctx, http.MethodPost, models.PathFileUpload, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	var info models.FileInfo
	if err := c.doJSON("upload file", req, &info); err != nil {
		if apierrors.IsTransportError(err) {
			return nil, apierrors.NewUploadError(file.Name, err)
		}
		return nil, err
	}
	return &info, nil
}

// DownloadFile fetches a file's bytes and writes them to destPath
func (c *Client) DownloadFile(ctx context.Context, fileID, destPath string) error {
	path := fmt.Sprintf("%s%s/download", models.PathFiles, fileID)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	body, err := c.do("download file", req)
	if err != nil {
		return err
	}

	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return fmt.Errorf("failed to write downloaded file: %w", err)
	}
	return nil
}

// DeleteFile removes a file from the library
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	path := fmt.Sprintf("%s%s", models.PathFiles, fileID)

	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	return c.doJSON("delete file", req, nil)
}
