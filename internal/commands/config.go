package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Keys:
  server_url         backend base URL
  verbose            true or false
  copy_to_clipboard  true or false
  tui_theme          tokyonight or dark
  markdown.style     dark, light, or a path to a glamour theme JSON`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	fmt.Printf("%s  %s\n", keyStyle.Render("server_url       "), cfg.ServerURL)
	fmt.Printf("%s  %t\n", keyStyle.Render("verbose          "), cfg.Verbose)
	fmt.Printf("%s  %t\n", keyStyle.Render("copy_to_clipboard"), cfg.CopyToClipboard)
	fmt.Printf("%s  %s\n", keyStyle.Render("tui_theme        "), cfg.TUITheme)
	fmt.Printf("%s  %s\n", keyStyle.Render("markdown.style   "), cfg.Markdown.Style)

	path, err := config.GetConfigPath()
	if err == nil {
		dim := lipgloss.NewStyle().Foreground(colorTextDim)
		fmt.Printf("\n%s\n", dim.Render(path))
	}
	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "server_url":
		cfg.ServerURL = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		cfg.CopyToClipboard = b
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
