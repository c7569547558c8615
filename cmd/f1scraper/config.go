package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"f1scraper/pkg/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage f1scraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (F1SCRAPER_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.f1scraper.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging all sources:
command line flags, environment variables, configuration file, and
defaults.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

const exampleConfig = `# f1scraper configuration file
#
# Every option can also be set through environment variables prefixed
# with F1SCRAPER_, e.g. F1SCRAPER_OUTPUT_DIR, F1SCRAPER_START_YEAR.

# Upstream API settings
api:
  # Ergast-compatible API base URL
  base_url: "https://api.jolpi.ca/ergast/f1"

  # Per-request socket timeout
  timeout: 60s

  # Pagination batch size for the flat list endpoints
  batch_size: 1000

  # Politeness delay between round-scoped requests
  request_delay: 2s

# Retry and backoff policy
retry:
  # Total request budget per fetch, first attempt included
  max_attempts: 5

  # Seed for the rate-limit backoff, fixed delay for other failures
  base_delay: 2s

  # Cap for the rate-limit backoff
  max_delay: 5m

# Output settings
output:
  # Directory for the CSV artifacts, created at startup
  directory: "f1_data"

# Season range to fetch, inclusive on both ends
years:
  start: 2024
  end: 2024

# Logging
logging:
  # debug, info, warn or error
  level: "info"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".f1scraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
