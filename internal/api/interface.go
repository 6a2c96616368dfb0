package api

import (
	"context"

	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/models"
)

// ClientInterface is the API surface consumed by the orchestrator, the TUI
// and the CLI commands. *Client is the production implementation;
// MockClient serves tests.
type ClientInterface interface {
	Init() error
	Close()
	IsClosed() bool
	Token() string
	BaseURL() string

	Login(ctx context.Context, username, password string) error
	Logout() error

	SendChat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	SendChatWithFiles(ctx context.Context, req ChatUploadRequest) (*models.ChatResponse, error)

	ListSessions(ctx context.Context, skip, limit int) (*models.SessionList, error)
	ListMessages(ctx context.Context, sessionID string) ([]models.Message, error)
	RenameSession(ctx context.Context, sessionID, title string) error
	DeleteSession(ctx context.Context, sessionID string) error

	ListProviders(ctx context.Context, activeOnly bool) ([]models.Provider, error)

	ListFiles(ctx context.Context, skip, limit int) (*models.FileList, error)
	UploadFile(ctx context.Context, file attach.LocalFile, progress ProgressFunc) (*models.FileInfo, error)
	DownloadFile(ctx context.Context, fileID, destPath string) error
	DeleteFile(ctx context.Context, fileID string) error

	Usage(ctx context.Context) (*models.UsageSummary, error)
	UsageChart(ctx context.Context, rangeHours float64, model string) ([]models.UsagePoint, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)
