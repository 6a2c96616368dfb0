package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/models"
)

func TestSendChat(t *testing.T) {
	body := []byte(`{
		"message_id": "msg-1",
		"session_id": "sess-1",
		"content": "The report covers Q3. [ref:report.pdf|4]",
		"citations": [
			{"source": "report.pdf", "file_id": "f-1", "page": "4", "content": "Q3 revenue", "relevance_score": 0.92}
		],
		"tokens_used": 128,
		"created_at": "2025-06-01T10:00:00Z"
	}`)
	mock := NewMockHttpClient(body, 200)
	client, _ := newTestClient(t, mock)

	resp, err := client.SendChat(context.Background(), models.ChatRequest{
		Message:    "Summarize the report",
		SessionID:  "sess-1",
		FileIDs:    []string{"f-1"},
		ProviderID: 2,
		Model:      "gpt-4o",
	})
	if err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}

	req := mock.LastRequest
	if req.Method != "POST" || req.URL.Path != models.PathChat {
		t.Errorf("request = %s %s, want POST %s", req.Method, req.URL.Path, models.PathChat)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	var sent models.ChatRequest
	if err := json.Unmarshal(mock.LastBody, &sent); err != nil {
		t.Fatalf("request body parse error = %v", err)
	}
	if sent.Message != "Summarize the report" || sent.ProviderID != 2 || sent.Model != "gpt-4o" {
		t.Errorf("request body = %+v", sent)
	}
	if len(sent.FileIDs) != 1 || sent.FileIDs[0] != "f-1" {
		t.Errorf("file_ids = %v, want [f-1]", sent.FileIDs)
	}

	if resp.MessageID != "msg-1" || resp.SessionID != "sess-1" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].Source != "report.pdf" {
		t.Errorf("citations = %+v", resp.Citations)
	}
	if resp.TokensUsed != 128 {
		t.Errorf("tokens_used = %d, want 128", resp.TokensUsed)
	}
}

func TestSendChatWithFiles(t *testing.T) {
	body := []byte(`{
		"message_id": "msg-2",
		"session_id": "sess-2",
		"content": "Done.",
		"citations": [],
		"new_files": [{"id": "f-9", "filename": "notes.txt"}]
	}`)
	mock := NewMockHttpClient(body, 200)
	client, _ := newTestClient(t, mock)

	var pcts []int
	resp, err := client.SendChatWithFiles(context.Background(), ChatUploadRequest{
		Message:    "Read this",
		SessionID:  "sess-2",
		FileIDs:    []string{"f-1", "f-2"},
		ProviderID: 1,
		Model:      "claude-sonnet",
		Files: []attach.LocalFile{
			{Name: "notes.txt", MimeType: "text/plain", Data: []byte("hello world")},
		},
		Progress: func(pct int) { pcts = append(pcts, pct) },
	})
	if err != nil {
		t.Fatalf("SendChatWithFiles() error = %v", err)
	}

	req := mock.LastRequest
	if req.URL.Path != models.PathChatWithFile {
		t.Errorf("path = %q, want %q", req.URL.Path, models.PathChatWithFile)
	}

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("Content-Type = %q (err %v)", req.Header.Get("Content-Type"), err)
	}

	fields := map[string]string{}
	var fileNames []string
	var fileData []string
	mr := multipart.NewReader(bytes.NewReader(mock.LastBody), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("multipart read error = %v", err)
		}
		data, _ := io.ReadAll(part)
		if part.FileName() != "" {
			fileNames = append(fileNames, part.FileName())
			fileData = append(fileData, string(data))
			continue
		}
		fields[part.FormName()] = string(data)
	}

	if fields["message"] != "Read this" {
		t.Errorf("message field = %q", fields["message"])
	}
	if fields["session_id"] != "sess-2" {
		t.Errorf("session_id field = %q", fields["session_id"])
	}
	if fields["file_ids"] != `["f-1","f-2"]` {
		t.Errorf("file_ids field = %q, want JSON array", fields["file_ids"])
	}
	if fields["provider_id"] != "1" || fields["model"] != "claude-sonnet" {
		t.Errorf("provider fields = %q / %q", fields["provider_id"], fields["model"])
	}
	if len(fileNames) != 1 || fileNames[0] != "notes.txt" || fileData[0] != "hello world" {
		t.Errorf("file parts = %v %v", fileNames, fileData)
	}

	if len(pcts) == 0 {
		t.Fatal("no progress was reported")
	}
	for i := 1; i < len(pcts); i++ {
		if pcts[i] <= pcts[i-1] {
			t.Errorf("progress not strictly increasing: %v", pcts)
		}
	}
	if pcts[len(pcts)-1] != 100 {
		t.Errorf("final progress = %d, want 100", pcts[len(pcts)-1])
	}

	if len(resp.NewFiles) != 1 || resp.NewFiles[0].ID != "f-9" {
		t.Errorf("new_files = %+v", resp.NewFiles)
	}
}

func TestSendChatWithFilesRequiresFiles(t *testing.T) {
	client, _ := newTestClient(t, NewMockHttpClient(nil, 200))

	_, err := client.SendChatWithFiles(context.Background(), ChatUploadRequest{
		Message: "no files here",
	})
	if err == nil {
		t.Error("expected error for multipart request without files")
	}
}

func TestSendChatWithFilesOmitsEmptyFields(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"message_id": "m", "session_id": "s", "content": ""}`), 200)
	client, _ := newTestClient(t, mock)

	_, err := client.SendChatWithFiles(context.Background(), ChatUploadRequest{
		Message: "fresh session",
		Files:   []attach.LocalFile{{Name: "a.txt", Data: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("SendChatWithFiles() error = %v", err)
	}

	raw := string(mock.LastBody)
	for _, field := range []string{"session_id", "file_ids", "provider_id"} {
		if strings.Contains(raw, `name="`+field+`"`) {
			t.Errorf("empty field %q should be omitted", field)
		}
	}
}

func TestProgressReader(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)
	var pcts []int
	pr := newProgressReader(bytes.NewReader(data), int64(len(data)), func(pct int) {
		pcts = append(pcts, pct)
	})

	buf := make([]byte, 64)
	for {
		if _, err := pr.Read(buf); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if len(pcts) == 0 {
		t.Fatal("no progress was reported")
	}
	for i, pct := range pcts {
		if pct < 0 || pct > 100 {
			t.Errorf("pct[%d] = %d, out of range", i, pct)
		}
		if i > 0 && pct <= pcts[i-1] {
			t.Errorf("progress not monotonic: %v", pcts)
		}
	}
	if pcts[len(pcts)-1] != 100 {
		t.Errorf("final progress = %d, want 100", pcts[len(pcts)-1])
	}
}
