package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/models"
)

var (
	usageChartFlag float64
	usageModelFlag string
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("chart") {
			return runUsageChart(usageChartFlag, usageModelFlag)
		}
		return runUsageSummary()
	},
}

func init() {
	usageCmd.Flags().Float64Var(&usageChartFlag, "chart", 24, "show per-sample usage for the last N hours")
	usageCmd.Flags().StringVar(&usageModelFlag, "model", "", "filter chart samples by model")
}

func runUsageSummary() error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Usage(context.Background())
	if err != nil {
		return err
	}

	labelStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	printPeriod := func(name string, p models.UsagePeriod) {
		fmt.Printf("%s\n", labelStyle.Render(name))
		fmt.Printf("  tokens:   %d (prompt %d, completion %d)\n",
			p.TotalTokens, p.PromptTokens, p.CompletionTokens)
		fmt.Printf("  requests: %d\n", p.RequestCount)
		fmt.Printf("  %s\n\n", dimStyle.Render(fmt.Sprintf("%s to %s",
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))))
	}

	printPeriod("Daily", summary.Daily)
	printPeriod("Weekly", summary.Weekly)
	printPeriod("Monthly", summary.Monthly)

	if summary.LastMessage != nil {
		fmt.Printf("Last message: %d tokens\n", *summary.LastMessage)
	}
	return nil
}

func runUsageChart(rangeHours float64, model string) error {
	cfg := loadConfig()
	client, _, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	points, err := client.UsageChart(context.Background(), rangeHours, model)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("No usage in the requested window.")
		return nil
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	for _, p := range points {
		fmt.Printf("%s  %6d tokens  %s\n",
			p.Timestamp.Format("2006-01-02 15:04"),
			p.TotalTokens,
			dimStyle.Render(p.Model),
		)
	}
	return nil
}
