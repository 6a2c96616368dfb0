package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/docchat/internal/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the server",
	Long: `Authenticate against the DocChat server and store the issued token.

The password is read from the terminal without echo. The token is kept
in the config directory and reused until the server rejects it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) > 0 {
			username = args[0]
		}
		return runLogin(username)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored auth token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client, _, err := newClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func runLogin(username string) error {
	cfg := loadConfig()

	if username == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	spin := newSpinner("Logging in to " + cfg.ServerURL)
	spin.start()

	if err := client.Login(context.Background(), username, string(password)); err != nil {
		spin.stopWithError()
		tui.PrintError(err)
		return err
	}

	spin.stopWithSuccess(fmt.Sprintf("Logged in as %s", username))
	return nil
}
