package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/chat"
	"github.com/diogo/docchat/internal/models"
	"github.com/diogo/docchat/internal/render"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsList()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsShow(args[0])
	},
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <title>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsRename(args[0], args[1])
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsDelete(args[0])
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList() error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	store := chat.NewSessionStore(client)
	if err := store.Refresh(context.Background()); err != nil {
		return err
	}

	sessions := store.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Start one with 'docchat chat' or a one-shot query.")
		return nil
	}

	idStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	titleStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	for _, s := range sessions {
		fmt.Printf("%s  %s %s\n",
			idStyle.Render(s.ID),
			titleStyle.Render(s.Title),
			metaStyle.Render(fmt.Sprintf("(%d messages, updated %s)",
				s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))),
		)
	}
	fmt.Printf("\n%d sessions\n", store.Total())
	return nil
}

func runSessionsShow(sessionID string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	store := chat.NewSessionStore(client)
	if err := store.Activate(context.Background(), sessionID); err != nil {
		return err
	}

	width := getTerminalWidth() - 8
	if width < 40 {
		width = 40
	}

	for _, msg := range store.Timeline() {
		if msg.Role == models.RoleUser {
			fmt.Println(lipgloss.NewStyle().Foreground(colorTextDim).Bold(true).Render("⬤ You"))
			fmt.Println(msg.Content)
		} else {
			fmt.Println(assistantLabelStyle.Render("❖ DocChat"))
			rendered, err := render.MarkdownWithWidth(msg.Content, width)
			if err != nil {
				rendered = msg.Content
			}
			fmt.Println(strings.TrimRight(rendered, "\n"))
			if len(msg.Citations) > 0 {
				fmt.Println(formatCitationFooter(msg.Citations, width))
			}
		}
		fmt.Println()
	}
	return nil
}

func runSessionsRename(sessionID, title string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	store := chat.NewSessionStore(client)
	if err := store.Rename(context.Background(), sessionID, title); err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %q\n", sessionID, title)
	return nil
}

func runSessionsDelete(sessionID string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	store := chat.NewSessionStore(client)
	if err := store.Delete(context.Background(), sessionID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", sessionID)
	return nil
}
