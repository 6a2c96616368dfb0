// Package commands provides the CLI commands for docchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/config"
)

var (
	// Global flags
	serverFlag   string
	modelFlag    string
	providerFlag int
	verboseFlag  bool

	// Query flags
	outputFlag  string
	fileFlag    string
	attachFlag  []string
	useFileFlag []string
	sessionFlag string
	rawFlag     bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docchat [prompt]",
	Short: "CLI for the DocChat document Q&A service",
	Long: `docchat is a command-line client for a DocChat server. It sends
questions against your uploaded documents and renders the answers,
source citations included, in the terminal.

Examples:
  docchat login                          Authenticate against the server
  docchat chat                           Start the interactive chat TUI
  docchat "What does the report say?"    Send a single query
  docchat -f prompt.md                   Read the prompt from a file
  cat prompt.md | docchat                Read the prompt from stdin
  docchat "Summarize" --attach notes.txt Upload a file with the question
  docchat "Summarize" --use-file <id>    Reference an uploaded library file
  docchat "Hello" -o answer.md           Save the answer to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("docchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawFlag)
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), rawFlag)
		}

		if len(args) > 0 {
			return runQuery(args[0], rawFlag)
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use for this invocation")
	rootCmd.PersistentFlags().IntVarP(&providerFlag, "provider", "p", 0, "Provider id to use for this invocation")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringArrayVar(&attachFlag, "attach", nil, "Upload a local file with the question (repeatable)")
	rootCmd.Flags().StringArrayVar(&useFileFlag, "use-file", nil, "Reference an already uploaded library file by id (repeatable)")
	rootCmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Continue an existing session id")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw answer without decoration")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the user config with CLI flag overrides applied
func loadConfig() config.Config {
	cfg, _ := config.LoadConfig()
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	return cfg
}

// newClient builds an initialized API client from config and state
func newClient(cfg config.Config) (*api.Client, *config.FileStateStore, error) {
	store, err := config.DefaultStateStore()
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(cfg.ServerURL, store, api.WithVerbose(cfg.Verbose))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	if err := client.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	return client, store, nil
}
