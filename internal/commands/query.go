package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/chat"
	"github.com/diogo/docchat/internal/citation"
	"github.com/diogo/docchat/internal/models"
	"github.com/diogo/docchat/internal/provider"
	"github.com/diogo/docchat/internal/render"
	"github.com/diogo/docchat/internal/tui"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	citationFooterStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(colorTextDim).
				Foreground(colorTextDim).
				PaddingLeft(1).
				MarginLeft(1)
)

// runQuery executes a single question and prints the answer.
// If rawOutput is true, only the raw answer text is printed.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	locals, err := readAttachments(attachFlag)
	if err != nil {
		return err
	}
	if prompt == "" && len(locals) == 0 && len(useFileFlag) == 0 {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg := loadConfig()
	ctx := context.Background()

	client, store, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	refs, err := resolveFileRefs(ctx, client, useFileFlag)
	if err != nil {
		return err
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Resolving provider")
		spin.start()
	}

	selector := provider.NewSelector(client, store)
	if _, err := selector.Resolve(ctx); err != nil {
		if !rawOutput {
			spin.stopWithError()
			tui.PrintError(err)
		}
		return err
	}
	sel := selector.Use(providerFlag, modelFlag)

	sessions := chat.NewSessionStore(client)
	if sessionFlag != "" {
		if err := sessions.Activate(ctx, sessionFlag); err != nil {
			if !rawOutput {
				spin.stopWithError()
				tui.PrintError(err)
			}
			return err
		}
	}

	if !rawOutput {
		spin.setMessage(fmt.Sprintf("Asking %s", sel.Model))
	}

	hooks := chat.Hooks{}
	if !rawOutput {
		hooks.OnStatus = func(status string) {
			if status != "" {
				spin.setMessage(strings.ToUpper(status[:1]) + status[1:])
			}
		}
		hooks.OnProgress = func(pct int) {
			if pct < 100 {
				spin.setMessage(fmt.Sprintf("Uploading %d%%", pct))
			}
		}
	}

	orch := chat.NewOrchestrator(client, sessions, selector, hooks)

	startTime := time.Now()
	resp, err := orch.Send(ctx, chat.Input{Text: prompt, Refs: refs, Locals: locals})
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			tui.PrintError(err)
		}
		return err
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
		fmt.Fprintf(os.Stderr, "[verbose] Session: %s, tokens used: %d\n", resp.SessionID, resp.TokensUsed)
	}

	text := resp.Content

	if rawOutput {
		if outputFlag != "" {
			return os.WriteFile(outputFlag, []byte(text), 0o644)
		}
		fmt.Print(text)
		return nil
	}

	fmt.Fprintln(os.Stderr)

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(citation.Strip(text)); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorFailure).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Answer saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Println(assistantLabelStyle.Render("❖ DocChat"))

	rendered, err := render.MarkdownWithWidth(text, contentWidth)
	if err != nil {
		rendered = text
	}
	fmt.Println(assistantBubbleStyle.Width(bubbleWidth).Render(strings.TrimRight(rendered, "\n")))

	if len(resp.Citations) > 0 {
		fmt.Println(formatCitationFooter(resp.Citations, contentWidth))
	}

	hint := lipgloss.NewStyle().Foreground(colorTextDim).Render(
		fmt.Sprintf("session %s · continue with: docchat -s %s \"...\"", resp.SessionID, resp.SessionID),
	)
	fmt.Fprintln(os.Stderr, hint)

	return nil
}

// readAttachments loads the --attach flag paths into local files
// resolveFileRefs maps library file ids to references carrying the
// original filename for the attachment marker line
func resolveFileRefs(ctx context.Context, client api.ClientInterface, ids []string) ([]attach.FileRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := client.ListFiles(ctx, 0, 100)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list.Files))
	for _, f := range list.Files {
		names[f.ID] = f.OriginalFilename
	}
	refs := make([]attach.FileRef, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			return nil, fmt.Errorf("file %s is not in the library", id)
		}
		refs = append(refs, attach.FileRef{ID: id, Name: name})
	}
	return refs, nil
}

func readAttachments(paths []string) ([]attach.LocalFile, error) {
	var locals []attach.LocalFile
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		locals = append(locals, attach.LocalFile{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return locals, nil
}

// formatCitationFooter renders the source list under an answer
func formatCitationFooter(citations []models.Citation, width int) string {
	var lines []string
	for _, c := range citations {
		page := citation.NormalizePage(c.Page)
		line := fmt.Sprintf("%s · p.%s · %.0f%%", c.Source, page, c.ClampedScore()*100)
		lines = append(lines, line)
	}
	return citationFooterStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// getTerminalWidth returns the terminal width, defaulting to 80
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
