package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/analyzer"
	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/fetch"
	seolog "github.com/nao1215/seoscan/internal/log"
	"github.com/nao1215/seoscan/internal/pipeline"
	"github.com/nao1215/seoscan/internal/report"
)

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

// setupLogger creates the redacting logger used by every command.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return seolog.NewSecureLogger(w, verbose)
}

// loadConfigFile fills cfg.File. A missing file is an error only when the
// user named one explicitly.
func loadConfigFile(cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File = file
	case cfg.ConfigFilePath != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.File = &config.File{Sites: make(map[string]config.SiteConfig)}
	}
	return nil
}

// siteSettings adapts the configuration file to the fetch client's
// per-host lookup.
func siteSettings(file *config.File) func(host string) fetch.SiteSettings {
	return func(host string) fetch.SiteSettings {
		site := file.GetSiteConfig(host)
		return fetch.SiteSettings{
			Cookie:    site.Cookie,
			Headers:   site.Headers,
			UserAgent: site.UserAgent,
		}
	}
}

// newFetchClient builds the HTTP client shared by all pipelines of a run.
func newFetchClient(cfg *config.Config, logger *slog.Logger) *fetch.Client {
	opts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithRetries(cfg.Retries),
		fetch.WithHeadRetries(cfg.HeadRetries),
		fetch.WithLogger(logger),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, fetch.WithMaxBodySize(cfg.MaxBodySize))
	}
	if cfg.CacheTTL > 0 {
		opts = append(opts, fetch.WithCache(fetch.NewCache(cfg.CacheTTL)))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, fetch.WithLimiter(fetch.NewLimiter(cfg.RateLimit, 1)))
	}
	if cfg.File != nil {
		opts = append(opts, fetch.WithSiteSettings(siteSettings(cfg.File)))
	}
	return fetch.New(opts...)
}

// newAnalyzer builds the analyzer with thresholds and keywords from cfg.
func newAnalyzer(cfg *config.Config, client *fetch.Client, logger *slog.Logger) (*analyzer.Analyzer, error) {
	thresholds := analyzer.DefaultThresholds()
	if cfg.File != nil {
		var err error
		thresholds, err = cfg.File.Thresholds.Apply(thresholds)
		if err != nil {
			return nil, err
		}
	}

	a := analyzer.NewAnalyzer(
		analyzer.WithThresholds(thresholds),
		analyzer.WithTargetKeywords(cfg.AllKeywords()...),
		analyzer.WithImageInspection(cfg.InspectImages),
		analyzer.WithLogger(logger),
	)
	if cfg.InspectImages {
		a.SetHTTPClient(client.HTTPClient())
	}
	return a, nil
}

// newPipelineFactory returns a factory building one pipeline per target.
// robots.txt is always consulted so blocked pages are reported; with
// cfg.RespectRobots set, blocked pages are skipped instead. cfg.CheckCanonical
// adds a HEAD probe of each canonical URL. store may be nil.
func newPipelineFactory(cfg *config.Config, client *fetch.Client, a *analyzer.Analyzer, store pipeline.ReportStore, logger *slog.Logger) func() *pipeline.Pipeline {
	checker := fetch.NewRobotsChecker(client.HTTPClient(), client.UserAgent(), logger)
	return func() *pipeline.Pipeline {
		opts := []pipeline.DefaultPipelineOption{
			pipeline.WithPipelineRobots(checker, cfg.RespectRobots),
			pipeline.WithPipelineLogger(logger),
		}
		if cfg.CheckCanonical {
			opts = append(opts, pipeline.WithPipelineCanonicalCheck(client))
		}
		if store != nil {
			opts = append(opts, pipeline.WithPipelineStore(store))
		}
		return pipeline.DefaultPipeline(client, a, []pipeline.Option{pipeline.WithLogger(logger)}, opts...)
	}
}

// newReportWriter selects the writer for the requested format. The returned
// close function must be called once writing is done.
func newReportWriter(cfg *config.Config, stdout io.Writer) (report.Writer, func() error, error) {
	output := stdout
	closeFn := func() error { return nil }

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		output = f
		closeFn = f.Close
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), closeFn, nil
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output), closeFn, nil
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)), closeFn, nil
	}
}
