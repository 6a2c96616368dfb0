package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/provider"
)

var providersAllFlag bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List completion providers and models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvidersList()
	},
}

var providersUseCmd = &cobra.Command{
	Use:   "use <provider-id> [model]",
	Short: "Select the active provider and model",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("provider id must be a number: %w", err)
		}
		model := ""
		if len(args) > 1 {
			model = args[1]
		}
		return runProvidersUse(id, model)
	},
}

func init() {
	providersCmd.Flags().BoolVar(&providersAllFlag, "all", false, "Include inactive providers")
	providersCmd.AddCommand(providersUseCmd)
}

func runProvidersList() error {
	cfg := loadConfig()
	client, store, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	providers, err := client.ListProviders(context.Background(), !providersAllFlag)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		fmt.Println("No providers configured on the server.")
		return nil
	}

	selector := provider.NewSelector(client, store)
	current, _ := selector.Resolve(context.Background())

	nameStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	activeStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	for _, p := range providers {
		marker := "  "
		if p.ID == current.ProviderID {
			marker = activeStyle.Render("▸ ")
		}

		flags := []string{p.ProviderType}
		if p.IsDefault {
			flags = append(flags, "default")
		}
		if !p.IsActive {
			flags = append(flags, "inactive")
		}

		fmt.Printf("%s[%d] %s %s\n", marker, p.ID,
			nameStyle.Render(p.ProviderName),
			dimStyle.Render("("+strings.Join(flags, ", ")+")"))

		for _, m := range p.AvailableModels {
			modelMarker := "    "
			if p.ID == current.ProviderID && m == current.Model {
				modelMarker = "  " + activeStyle.Render("▸ ")
			}
			line := modelMarker + m
			if m == p.DefaultModel {
				line += dimStyle.Render(" (default)")
			}
			fmt.Println(line)
		}
	}
	return nil
}

func runProvidersUse(id int, model string) error {
	cfg := loadConfig()
	client, store, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	selector := provider.NewSelector(client, store)
	if _, err := selector.Resolve(context.Background()); err != nil {
		return err
	}
	if err := selector.Select(id, model); err != nil {
		return err
	}

	sel, _ := selector.Current()
	fmt.Printf("Using provider %d with model %s\n", sel.ProviderID, sel.Model)
	return nil
}
