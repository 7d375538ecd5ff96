package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	storePath  string
	apiURL     string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "Prompt enhancement engine for AI chat platforms",
	Long: `A companion engine for AI chat platforms that tracks your conversation,
offers consolidated prompts, and rewrites drafts in place.

The engine watches inputs you submit to a supported chat platform, and after
repeated refinements offers to synthesize one better prompt from all of them.
A quick-action control follows your caret for one-keystroke enhancement of
the draft under your cursor.

Supported platforms:
  chatgpt, claude, gemini, deepseek, grok, perplexity

Quick Start:
  autopilot detect <url>                 # Identify the platform behind a URL
  autopilot replay session.yaml          # Replay a scripted session
  autopilot enhance "my rough prompt"    # Enhance a prompt from the terminal
  autopilot login                        # Sign in to the enhancement service

For detailed usage, see: https://github.com/solthron/autopilot`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Custom store location (path to database file)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Enhancement API base URL (defaults to the production service)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openStore opens the persistent store, defaulting to ~/.autopilot/store.db.
func openStore() (internal.Store, error) {
	path := storePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir := filepath.Join(home, ".autopilot")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		path = filepath.Join(dir, "store.db")
	}
	return internal.OpenStore(path)
}

// newGateway builds the API client backed by the store's credential.
func newGateway(store internal.Store) internal.Gateway {
	return internal.NewHTTPGateway(apiURL, internal.NewStoreTokens(store))
}

// loadConfig loads the engine config, applying the --config override.
func loadConfig() (internal.Config, error) {
	return internal.LoadConfig(configPath)
}
