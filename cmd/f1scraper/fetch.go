package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"f1scraper/pkg/config"
	"f1scraper/pkg/logger"
	"f1scraper/pkg/scraper"
)

var (
	// Fetch command flags
	outputDir    string
	startYear    int
	endYear      int
	baseURL      string
	batchSize    int
	maxAttempts  int
	requestDelay time.Duration
	datasets     []string
)

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the data pipeline and export CSV artifacts",
	Long: `Fetch every dataset from the upstream API and write one CSV
artifact per dataset into the output directory.

The flat lists (seasons, drivers, constructors, circuits) are fetched
once with pagination; the round-scoped datasets (results, qualifying,
sprint, standings, pit stops, laps) are fetched per round across the
configured year range. Datasets that produced no rows are omitted from
the output directory.`,
	Example: `  # Full pipeline with defaults (2024 season, ./f1_data)
  f1scraper fetch

  # A multi-year range into a custom directory
  f1scraper fetch --start-year 2020 --end-year 2024 --output ./data

  # Only a subset of datasets
  f1scraper fetch --datasets Seasons,Results,DriverStandings`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for CSV artifacts")
	fetchCmd.Flags().IntVar(&startYear, "start-year", 0, "first season to fetch")
	fetchCmd.Flags().IntVar(&endYear, "end-year", 0, "last season to fetch (inclusive)")
	fetchCmd.Flags().StringVar(&baseURL, "base-url", "", "upstream API base URL")
	fetchCmd.Flags().IntVar(&batchSize, "batch-size", 0, "pagination batch size")
	fetchCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "retry budget per request")
	fetchCmd.Flags().DurationVar(&requestDelay, "request-delay", -1, "politeness delay between round requests")
	fetchCmd.Flags().StringSliceVar(&datasets, "datasets", nil, "subset of datasets to fetch (default: all)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Build the flags map for config merging
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if startYear > 0 {
		flags["start-year"] = startYear
	}
	if endYear > 0 {
		flags["end-year"] = endYear
	}
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if batchSize > 0 {
		flags["batch-size"] = batchSize
	}
	if maxAttempts > 0 {
		flags["max-attempts"] = maxAttempts
	}
	if requestDelay >= 0 {
		flags["request-delay"] = requestDelay
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("f1scraper starting")

	s, err := scraper.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize scraper")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx, datasets); err != nil {
		log.WithError(err).Error("pipeline failed")
		return err
	}

	log.WithField("output_dir", cfg.Output.Directory).Info("all datasets exported")
	return nil
}
