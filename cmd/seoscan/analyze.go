package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/pipeline"
)

// errAllTargetsFailed is returned when no target produced a report.
var errAllTargetsFailed = errors.New("no target could be analyzed")

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Analyze web pages for SEO issues",
		Long: `Analyze fetches each page and runs the on-page SEO checks:
- Title, meta description, canonical and robots directives
- Heading hierarchy, content length, readability and keywords
- Images, links, social tags and structured data
- Technical signals such as HTTPS, mixed content and load time

Examples:
  # Analyze a single page
  seoscan analyze https://example.com/

  # Analyze several pages, three at a time, and print a batch summary
  seoscan analyze --batch 3 https://example.com/ https://example.com/about

  # Analyze a local file, resolving links against its public address
  seoscan analyze --file index.html --source https://example.com/

  # Write a Markdown report and keep it in the history database
  seoscan analyze --markdown -o reports/home.md --save https://example.com/

Configuration file (.seoscan.yaml) example:
  sites:
    example.com:
      cookie: "session=abc123"
  keywords:
    - widgets
  thresholds:
    titleMax: 65`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Input flags
	cmd.Flags().StringP("file", "F", "",
		"Analyze a local HTML file instead of fetching")
	cmd.Flags().StringP("source", "s", "",
		"Address the local HTML file is published at, used to resolve links")

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Number of attempts per page")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of pages analyzed concurrently")
	cmd.Flags().Float64("rate-limit", config.DefaultRateLimit,
		"Requests per second sent to one host (0 disables)")
	cmd.Flags().Bool("respect-robots", false,
		"Skip pages disallowed by robots.txt")

	// Analysis flags
	cmd.Flags().Bool("inspect-images", false,
		"Download same-site images and check their EXIF metadata")
	cmd.Flags().Bool("check-canonical", false,
		"Probe each page's canonical URL with HEAD")
	cmd.Flags().StringSliceP("keyword", "k", nil,
		"Target keyword to track (repeatable)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("save", false,
		"Store reports in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.HTMLFile, err = flags.GetString("file"); err != nil {
		return nil, err
	}
	if cfg.Source, err = flags.GetString("source"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Retries, err = flags.GetInt("retries"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = flags.GetFloat64("rate-limit"); err != nil {
		return nil, err
	}
	if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
		return nil, err
	}
	if cfg.InspectImages, err = flags.GetBool("inspect-images"); err != nil {
		return nil, err
	}
	if cfg.CheckCanonical, err = flags.GetBool("check-canonical"); err != nil {
		return nil, err
	}
	if cfg.Keywords, err = flags.GetStringSlice("keyword"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	cfg.Targets = args
	return cfg, nil
}

// runAnalyze analyzes every target and writes the report. A single target
// gets a full report; several targets get every report plus a summary.
func runAnalyze(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	targets, err := collectTargets(cfg)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return config.ErrNoTarget
	}

	logger.Info("starting analysis",
		"targets", len(targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var store pipeline.ReportStore
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		store = db
		logger.Info("database opened", "path", db.Path())
	}

	client := newFetchClient(cfg, logger)
	a, err := newAnalyzer(cfg, client, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	factory := newPipelineFactory(cfg, client, a, store, logger)

	writer, closeOutput, err := newReportWriter(cfg, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	start := time.Now()
	if len(targets) == 1 {
		target := targets[0]
		if err := factory().Execute(ctx, target); err != nil {
			return fmt.Errorf("analysis of %s failed: %w", targetLabel(target), err)
		}
		logger.Info("analysis complete", "url", targetLabel(target), "elapsed", time.Since(start))
		_, err := writer.Write(target.Report)
		return err
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	result, err := bp.ProcessTargets(ctx, targets)
	if err != nil {
		return err
	}
	logger.Info("batch complete", "targets", len(targets), "elapsed", time.Since(start))

	reports := result.Reports()
	if _, err := writer.WriteBatch(reports, result.Summary()); err != nil {
		return err
	}
	if len(reports) == 0 {
		return errAllTargetsFailed
	}
	return nil
}

// collectTargets turns the local file and the addresses into targets.
func collectTargets(cfg *config.Config) ([]*pipeline.Target, error) {
	targets := make([]*pipeline.Target, 0, len(cfg.Targets)+1)
	if cfg.HTMLFile != "" {
		markup, err := os.ReadFile(cfg.HTMLFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", cfg.HTMLFile, err)
		}
		targets = append(targets, pipeline.NewMarkupTarget(string(markup), cfg.Source))
	}
	for _, address := range cfg.Targets {
		targets = append(targets, pipeline.NewTarget(address))
	}
	return targets, nil
}

// targetLabel names a target in messages.
func targetLabel(target *pipeline.Target) string {
	if source := target.Source(); source != "" {
		return source
	}
	return "local file"
}
