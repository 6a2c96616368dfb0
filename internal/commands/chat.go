package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/provider"
	"github.com/diogo/docchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session against your documents.

Previous sessions can be reopened with /sessions inside the chat.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg := loadConfig()

	client, store, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	spin := newSpinner("Connecting to " + cfg.ServerURL)
	spin.start()

	selector := provider.NewSelector(client, store)
	if _, err := selector.Resolve(context.Background()); err != nil {
		spin.stopWithError()
		tui.PrintError(err)
		return err
	}
	selector.Use(providerFlag, modelFlag)
	spin.stopWithSuccess("Connected")

	return deps.TUI.RunChat(client, selector, cfg)
}
