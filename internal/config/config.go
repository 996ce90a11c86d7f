package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"

	// DefaultTimeout bounds a single GET attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is the number of GET attempts per page.
	DefaultRetries = 3

	// DefaultHeadRetries is the number of HEAD attempts per status probe.
	DefaultHeadRetries = 2

	// DefaultUserAgent identifies seoscan in HTTP requests and robots.txt matching.
	DefaultUserAgent = "Mozilla/5.0 (compatible; seoscan/1.0; +https://github.com/nao1215/seoscan)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultCacheTTL is how long fetched pages are reused.
	DefaultCacheTTL = time.Hour

	// DefaultBatchSize is the number of pages analyzed concurrently.
	DefaultBatchSize = 5

	// DefaultRateLimit is the number of requests per second sent to one host.
	DefaultRateLimit = 2.0

	// DefaultServerAddr is the listen address of the serve command.
	DefaultServerAddr = ":8080"
)

// Config holds all options of one seoscan run. It is populated from CLI
// flags and the configuration file, then passed down explicitly.
type Config struct {
	// Targets are the addresses to fetch and analyze.
	Targets []string

	// HTMLFile is a local markup file to analyze instead of fetching.
	HTMLFile string

	// Source is the address the local markup belongs to, used to resolve links.
	Source string

	// Timeout bounds a single GET attempt.
	Timeout time.Duration

	// Retries is the number of GET attempts per page.
	Retries int

	// HeadRetries is the number of HEAD attempts per status probe.
	HeadRetries int

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize limits the response body size. 0 uses the default.
	MaxBodySize int64

	// CacheTTL is how long fetched pages are reused within one process.
	CacheTTL time.Duration

	// BatchSize is the number of pages analyzed concurrently.
	BatchSize int

	// RateLimit is the number of requests per second per host. 0 disables it.
	RateLimit float64

	// RespectRobots makes the pipeline consult robots.txt before analyzing.
	RespectRobots bool

	// InspectImages downloads same-site images to inspect their EXIF metadata.
	InspectImages bool

	// CheckCanonical probes the canonical URL of each page with HEAD.
	CheckCanonical bool

	// Keywords are target keywords whose share of the content is reported.
	Keywords []string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path. Empty means
	// search the current and home directories.
	ConfigFilePath string

	// File is the loaded configuration file, or nil.
	File *File

	// JSONReport and MarkdownReport select the output format; the default
	// is a plain text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// SaveToDB stores reports in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		HeadRetries: DefaultHeadRetries,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		CacheTTL:    DefaultCacheTTL,
		BatchSize:   DefaultBatchSize,
		RateLimit:   DefaultRateLimit,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/seoscan on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 && c.HTMLFile == "" {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Retries < 1 {
		return ErrInvalidRetries
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// AllKeywords returns the keywords from the flags followed by those of the
// configuration file, without duplicates.
func (c *Config) AllKeywords() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(c.Keywords))
	add := func(keywords []string) {
		for _, k := range keywords {
			if k != "" && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	add(c.Keywords)
	if c.File != nil {
		add(c.File.Keywords)
	}
	return out
}
