package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/server"
)

// envAddr names the environment variable holding the listen address.
const envAddr = "SEOSCAN_ADDR"

// defaultEnvFile is loaded when present; it is not an error if missing.
const defaultEnvFile = ".env"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve starts an HTTP API that analyzes pages and serves stored reports.

Routes:
  POST /api/v1/analyze       {"url": "..."} or {"html": "...", "url": "..."}
  GET  /api/v1/reports       list stored reports (?url=&limit=)
  GET  /api/v1/reports/:id   get one stored report
  GET  /healthz              liveness

Every analyzed report is stored in the history database.
The listen address comes from --addr, then SEOSCAN_ADDR (also read from a
.env file), then :8080.

Examples:
  # Serve on the default address
  seoscan serve

  # Serve on port 9090, allowing 5 requests per second per client
  seoscan serve --addr :9090 --rate-limit 5`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address")
	cmd.Flags().String("env-file", "",
		"Environment file to load (default: .env when present)")
	cmd.Flags().Float64("rate-limit", server.DefaultRateLimit,
		"API requests per second per client (0 disables)")
	cmd.Flags().Int("burst", server.DefaultRateBurst,
		"API request burst per client")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each outgoing request")
	cmd.Flags().Bool("respect-robots", false,
		"Refuse pages disallowed by robots.txt")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan.yaml in current or home directory)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// loadEnvFile loads path, or the default .env file when path is empty.
// Only an explicitly named file must exist.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", defaultEnvFile, err)
	}
	return nil
}

// resolveAddr picks the listen address: an explicit flag wins over the
// environment, which wins over the default.
func resolveAddr(cmd *cobra.Command) (string, error) {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return "", err
	}
	if !cmd.Flags().Changed("addr") {
		if env := os.Getenv(envAddr); env != "" {
			addr = env
		}
	}
	return server.Addr(addr), nil
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return err
	}
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	addr, err := resolveAddr(cmd)
	if err != nil {
		return err
	}

	rps, err := flags.GetFloat64("rate-limit")
	if err != nil {
		return err
	}
	burst, err := flags.GetInt("burst")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("configuration error: %w", config.ErrInvalidTimeout)
	}
	if err := loadConfigFile(cfg); err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	client := newFetchClient(cfg, logger)
	a, err := newAnalyzer(cfg, client, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(
		newPipelineFactory(cfg, client, a, db, logger),
		db,
		server.WithLogger(logger),
		server.WithRateLimit(rps, burst),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "seoscan API listening on %s\n", addr)
	return srv.Run(ctx, addr)
}
