package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/tui"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage the document library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilesList()
	},
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload documents to the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilesUpload(args)
	},
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download <file-id> [dest]",
	Short: "Download a document from the library",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}
		return runFilesDownload(args[0], dest)
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete <file-id>",
	Short: "Delete a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilesDelete(args[0])
	},
}

func init() {
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesDownloadCmd)
	filesCmd.AddCommand(filesDeleteCmd)
}

func runFilesList() error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	list, err := client.ListFiles(context.Background(), 0, 100)
	if err != nil {
		return err
	}
	if len(list.Files) == 0 {
		fmt.Println("Library is empty. Upload with 'docchat files upload <path>'.")
		return nil
	}

	idStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	nameStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	for _, f := range list.Files {
		status := "processed"
		if !f.IsProcessed {
			status = "processing"
		}
		fmt.Printf("%s  %s %s\n",
			idStyle.Render(f.ID),
			nameStyle.Render(f.OriginalFilename),
			metaStyle.Render(fmt.Sprintf("(%s, %s, %s)",
				f.FileType, formatSize(f.FileSize), status)),
		)
	}
	fmt.Printf("\n%d files\n", list.Total)
	return nil
}

func runFilesUpload(paths []string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := filepath.Base(path)
		spin := newSpinner("Uploading " + name)
		spin.start()

		info, err := client.UploadFile(context.Background(), attach.LocalFile{
			Name: name,
			Data: data,
		}, func(pct int) {
			if pct < 100 {
				spin.setMessage(fmt.Sprintf("Uploading %s %d%%", name, pct))
			} else {
				spin.setMessage("Processing " + name)
			}
		})
		if err != nil {
			spin.stopWithError()
			tui.PrintError(err)
			return err
		}
		spin.stopWithSuccess(fmt.Sprintf("Uploaded %s (id %s)", name, info.ID))
	}
	return nil
}

func runFilesDownload(fileID, dest string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if dest == "" {
		dest = fileID
	}

	spin := newSpinner("Downloading " + fileID)
	spin.start()
	if err := client.DownloadFile(context.Background(), fileID, dest); err != nil {
		spin.stopWithError()
		tui.PrintError(err)
		return err
	}
	spin.stopWithSuccess("Saved to " + dest)
	return nil
}

func runFilesDelete(fileID string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeleteFile(context.Background(), fileID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", fileID)
	return nil
}

// formatSize renders a byte count in a compact human form
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
