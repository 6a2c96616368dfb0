package api

import (
	"context"

	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	InitErr            error
	TokenVal           string
	BaseURLVal         string
	IsClosedVal        bool
	LoginErr           error
	SendChatVal        *models.ChatResponse
	SendChatErr        error
	SendChatUploadVal  *models.ChatResponse
	SendChatUploadErr  error
	SessionListVal     *models.SessionList
	SessionListErr     error
	MessagesVal        []models.Message
	MessagesErr        error
	RenameErr          error
	DeleteSessionErr   error
	ProvidersVal       []models.Provider
	ProvidersErr       error
	FileListVal        *models.FileList
	FileListErr        error
	UploadFileVal      *models.FileInfo
	UploadFileErr      error
	DownloadFileErr    error
	DeleteFileErr      error
	UsageVal           *models.UsageSummary
	UsageErr           error
	UsageChartVal      []models.UsagePoint
	UsageChartErr      error
	UploadProgressPcts []int // progress values replayed to the caller

	// Call counters/recorders
	InitCalled          bool
	CloseCalled         bool
	SendChatCalled      int
	SendChatUploadCalls int
	LastChatRequest     models.ChatRequest
	LastUploadRequest   ChatUploadRequest
	ListSessionsCalled  int
	ListMessagesCalled  int
	LastMessagesID      string
	RenamedID           string
	RenamedTitle        string
	DeletedSessionID    string
	DeletedFileID       string
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Init() error {
	m.InitCalled = true
	return m.InitErr
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}

func (m *MockClient) IsClosed() bool {
	return m.IsClosedVal
}

func (m *MockClient) Token() string {
	return m.TokenVal
}

func (m *MockClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockClient) Login(ctx context.Context, username, password string) error {
	return m.LoginErr
}

func (m *MockClient) Logout() error {
	m.TokenVal = ""
	return nil
}

func (m *MockClient) SendChat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.SendChatCalled++
	m.LastChatRequest = req
	return m.SendChatVal, m.SendChatErr
}

func (m *MockClient) SendChatWithFiles(ctx context.Context, req ChatUploadRequest) (*models.ChatResponse, error) {
	m.SendChatUploadCalls++
	m.LastUploadRequest = req
	if req.Progress != nil {
		for _, pct := range m.UploadProgressPcts {
			req.Progress(pct)
		}
	}
	return m.SendChatUploadVal, m.SendChatUploadErr
}

func (m *MockClient) ListSessions(ctx context.Context, skip, limit int) (*models.SessionList, error) {
	m.ListSessionsCalled++
	return m.SessionListVal, m.SessionListErr
}

func (m *MockClient) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	m.ListMessagesCalled++
	m.LastMessagesID = sessionID
	return m.MessagesVal, m.MessagesErr
}

func (m *MockClient) RenameSession(ctx context.Context, sessionID, title string) error {
	m.RenamedID = sessionID
	m.RenamedTitle = title
	return m.RenameErr
}

func (m *MockClient) DeleteSession(ctx context.Context, sessionID string) error {
	m.DeletedSessionID = sessionID
	return m.DeleteSessionErr
}

func (m *MockClient) ListProviders(ctx context.Context, activeOnly bool) ([]models.Provider, error) {
	return m.ProvidersVal, m.ProvidersErr
}

func (m *MockClient) ListFiles(ctx context.Context, skip, limit int) (*models.FileList, error) {
	return m.FileListVal, m.FileListErr
}

func (m *MockClient) UploadFile(ctx context.Context, file attach.LocalFile, progress ProgressFunc) (*models.FileInfo, error) {
	if progress != nil {
		for _, pct := range m.UploadProgressPcts {
			progress(pct)
		}
	}
	return m.UploadFileVal, m.UploadFileErr
}

func (m *MockClient) DownloadFile(ctx context.Context, fileID, destPath string) error {
	return m.DownloadFileErr
}

func (m *MockClient) DeleteFile(ctx context.Context, fileID string) error {
	m.DeletedFileID = fileID
	return m.DeleteFileErr
}

func (m *MockClient) Usage(ctx context.Context) (*models.UsageSummary, error) {
	return m.UsageVal, m.UsageErr
}

func (m *MockClient) UsageChart(ctx context.Context, rangeHours float64, model string) ([]models.UsagePoint, error) {
	return m.UsageChartVal, m.UsageChartErr
}
