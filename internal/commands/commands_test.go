package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/models"
)

func TestExecuteWrapperSuccess(t *testing.T) {
	old := rootCmd
	rootCmd = &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	defer func() { rootCmd = old }()

	// Should not call os.Exit for successful execution
	Execute()
}

func TestReadAttachments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	locals, err := readAttachments([]string{path})
	if err != nil {
		t.Fatalf("readAttachments failed: %v", err)
	}
	if len(locals) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(locals))
	}
	if locals[0].Name != "notes.txt" {
		t.Errorf("expected base name notes.txt, got %q", locals[0].Name)
	}
	if string(locals[0].Data) != "hello" {
		t.Errorf("unexpected data: %q", locals[0].Data)
	}
}

func TestReadAttachmentsMissingFile(t *testing.T) {
	_, err := readAttachments([]string{filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadAttachmentsEmpty(t *testing.T) {
	locals, err := readAttachments(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locals != nil {
		t.Errorf("expected nil for no paths, got %v", locals)
	}
}

func TestResolveFileRefs(t *testing.T) {
	mock := &api.MockClient{
		FileListVal: &models.FileList{
			Files: []models.FileInfo{
				{ID: "f-1", OriginalFilename: "report.pdf"},
				{ID: "f-2", OriginalFilename: "notes.txt"},
			},
			Total: 2,
		},
	}

	refs, err := resolveFileRefs(context.Background(), mock, []string{"f-2", "f-1"})
	if err != nil {
		t.Fatalf("resolveFileRefs failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != "f-2" || refs[0].Name != "notes.txt" {
		t.Errorf("refs[0] = %+v, want f-2 notes.txt", refs[0])
	}
	if refs[1].ID != "f-1" || refs[1].Name != "report.pdf" {
		t.Errorf("refs[1] = %+v, want f-1 report.pdf", refs[1])
	}
}

func TestResolveFileRefsUnknownID(t *testing.T) {
	mock := &api.MockClient{
		FileListVal: &models.FileList{
			Files: []models.FileInfo{{ID: "f-1", OriginalFilename: "report.pdf"}},
			Total: 1,
		},
	}

	if _, err := resolveFileRefs(context.Background(), mock, []string{"f-9"}); err == nil {
		t.Fatal("expected error for id not in the library")
	}
}

func TestResolveFileRefsEmpty(t *testing.T) {
	refs, err := resolveFileRefs(context.Background(), &api.MockClient{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refs != nil {
		t.Errorf("expected nil refs for no ids, got %v", refs)
	}
}

func TestFormatCitationFooter(t *testing.T) {
	citations := []models.Citation{
		{Source: "report.pdf", Page: "4,5", RelevanceScore: 0.92},
		{Source: "notes.txt", Page: "Unknown", RelevanceScore: 1.4},
	}

	out := formatCitationFooter(citations, 80)
	if !strings.Contains(out, "report.pdf · p.4+ · 92%") {
		t.Errorf("missing first citation line in %q", out)
	}
	if !strings.Contains(out, "notes.txt · p.? · 100%") {
		t.Errorf("missing normalized citation line in %q", out)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"bytes", 512, "512 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSize(tt.n); got != tt.want {
				t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("DOCCHAT_HOME", t.TempDir())

	if err := runConfigSet("tui_theme", "dark"); err != nil {
		t.Fatalf("runConfigSet failed: %v", err)
	}
	if err := runConfigSet("verbose", "true"); err != nil {
		t.Fatalf("runConfigSet failed: %v", err)
	}

	cfg := loadConfig()
	if cfg.TUITheme != "dark" {
		t.Errorf("expected tui_theme dark, got %q", cfg.TUITheme)
	}
	if !cfg.Verbose {
		t.Error("expected verbose true")
	}
}

func TestConfigSetInvalidKey(t *testing.T) {
	t.Setenv("DOCCHAT_HOME", t.TempDir())

	if err := runConfigSet("no_such_key", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestConfigSetInvalidBool(t *testing.T) {
	t.Setenv("DOCCHAT_HOME", t.TempDir())

	if err := runConfigSet("verbose", "maybe"); err == nil {
		t.Fatal("expected error for non-boolean value")
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("DOCCHAT_HOME", t.TempDir())

	oldServer, oldVerbose := serverFlag, verboseFlag
	defer func() { serverFlag, verboseFlag = oldServer, oldVerbose }()

	serverFlag = "http://override:9000"
	verboseFlag = true

	cfg := loadConfig()
	if cfg.ServerURL != "http://override:9000" {
		t.Errorf("expected server flag override, got %q", cfg.ServerURL)
	}
	if !cfg.Verbose {
		t.Error("expected verbose flag override")
	}
}
