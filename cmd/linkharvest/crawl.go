package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkharvest/internal/config"
	"github.com/nao1215/linkharvest/internal/crawler"
	"github.com/nao1215/linkharvest/internal/database"
	"github.com/nao1215/linkharvest/internal/extract"
	"github.com/nao1215/linkharvest/internal/fetch"
	applog "github.com/nao1215/linkharvest/internal/log"
	"github.com/nao1215/linkharvest/internal/model"
	"github.com/nao1215/linkharvest/internal/report"
	"github.com/nao1215/linkharvest/internal/seed"
	"github.com/nao1215/linkharvest/internal/sink"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Fetch seed URLs and harvest the links they contain",
		Long: `Crawl fetches each seed URL exactly once, extracts the hyperlinks
from the response body, and appends (source, target) pairs to a
tab-separated output file.

Seeds come from positional arguments, from --seeds-file, or both.
Relative links are resolved against the page they were found on.
Discovered links are recorded but never followed.

A seed that fails (connection error, timeout, non-2xx status) is
logged and skipped; the rest of the run is unaffected.

Examples:
  # Harvest links from two pages
  linkharvest crawl https://example.com https://example.org

  # Read seeds from a file, one URL per line
  linkharvest crawl --seeds-file seeds.txt

  # Limit concurrency and write output elsewhere
  linkharvest crawl -n 4 -o links.tsv https://example.com

  # Render the run summary as Markdown to a file
  linkharvest crawl -m -r report.md https://example.com

Configuration file (.linkharvest) example:
  hosts:
    api.example.com:
      userAgent: "mybot/1.0"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Seed source flags
	cmd.Flags().StringP("seeds-file", "s", "",
		"Read seed URLs from a file (one per line, # comments allowed)")

	// Crawl behavior flags
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of seeds fetched at once")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body bytes to read per page")
	cmd.Flags().StringP("parser", "p", config.ParserPattern,
		`Link extractor: "pattern" (href regex scan) or "html" (HTML tokenizer)`)

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"TSV output file for (source, target) rows")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkharvest in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("markdown", "m", false,
		"Render the run summary as Markdown instead of plain text")
	cmd.Flags().StringP("report", "r", "",
		"Write the run summary to this file instead of stdout")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Skip saving the run to the crawl database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel in-flight fetches on interrupt; completed batches stay in
	// the output file.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.SeedsFile, err = cmd.Flags().GetString("seeds-file")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.Parser, err = cmd.Flags().GetString("parser")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host overrides from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. Otherwise silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Hosts, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	seeds, err := collectSeeds(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting crawl",
		"seeds", len(seeds),
		"concurrency", cfg.Concurrency,
		"output", cfg.OutputFile,
		"parser", cfg.Parser,
	)

	// Open database connection if saving is enabled
	var db *database.CrawlDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// TSV output, fresh file with header row. A memory sink rides along
	// when the run is persisted so link records reach the database too.
	tsv, err := sink.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer tsv.Close()

	var out sink.Sink = tsv
	var mem *sink.MemorySink
	if db != nil {
		mem = sink.NewMemorySink()
		out = sink.NewMultiSink(tsv, mem)
	}

	coord := crawler.NewCoordinator(
		newExtractor(cfg, logger),
		out,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithCoordinatorLogger(logger),
		crawler.WithClientFactory(func() (*fetch.Client, error) {
			return fetch.NewClient(
				fetch.WithTimeout(cfg.Timeout),
				fetch.WithUserAgent(cfg.UserAgent),
				fetch.WithMaxBodySize(cfg.MaxBodySize),
				fetch.WithHostConfig(cfg.Hosts),
				fetch.WithLogger(logger),
			)
		}),
	)

	startTime := time.Now()
	runReport, err := coord.CrawlAll(ctx, seeds)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Crawl completed in %s\n\n",
		time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report failed", "error", err)
	}

	if db != nil {
		runID, err := db.SaveRun(ctx, runReport, mem.Records())
		if err != nil {
			logger.Error("failed to save run", "error", err)
		} else {
			logger.Info("run saved to database", "runID", runID)
		}
	}

	return nil
}

// collectSeeds assembles the seed list from positional arguments and the
// optional seeds file. Order is preserved: arguments first, file second.
func collectSeeds(cfg *config.Config) ([]string, error) {
	seeds := make([]string, 0, len(cfg.Seeds))
	seeds = append(seeds, cfg.Seeds...)

	if cfg.SeedsFile != "" {
		fromFile, err := seed.LoadFile(cfg.SeedsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seeds file: %w", err)
		}
		seeds = append(seeds, fromFile...)
	}

	return seeds, nil
}

// newExtractor returns the link extractor selected by the configuration.
func newExtractor(cfg *config.Config, logger *slog.Logger) extract.Extractor {
	if cfg.Parser == config.ParserHTML {
		return extract.NewTokenExtractor(logger)
	}
	return extract.NewPatternExtractor(logger)
}

// outputReport renders the run summary in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(runReport)
		return err
	}

	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(runReport)
	return err
}
