package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/seoscan/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "seoscan.db"

// timeLayout stores analysis times with fixed width so that text ordering
// matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ReportDB stores analysis reports.
type ReportDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ReportDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the report database in dbDir.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := rdb.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return rdb, nil
}

// Path returns the database file path.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

func (rdb *ReportDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		analyzed_at TEXT NOT NULL,
		score INTEGER NOT NULL,
		critical_count INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0,
		warning_count INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_analyzed_at ON reports(analyzed_at);
	`
	_, err := rdb.db.ExecContext(ctx, schema)
	return err
}

// SaveReport stores report. A report without an ID gets a new UUID and one
// without an analysis time gets the current time; both are written back to
// the report. Saving an existing ID replaces the stored report.
func (rdb *ReportDB) SaveReport(ctx context.Context, report *model.Report) error {
	if report == nil {
		return ErrNilReport
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.AnalyzedAt == nil {
		now := time.Now().UTC()
		report.AnalyzedAt = &now
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO reports (id, url, analyzed_at, score, critical_count, error_count, warning_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		url = excluded.url,
		analyzed_at = excluded.analyzed_at,
		score = excluded.score,
		critical_count = excluded.critical_count,
		error_count = excluded.error_count,
		warning_count = excluded.warning_count,
		report_json = excluded.report_json
	`
	_, err = rdb.db.ExecContext(ctx, query,
		report.ID,
		report.URL,
		report.AnalyzedAt.UTC().Format(timeLayout),
		report.Health.Score,
		report.Health.CriticalCount,
		report.Health.ErrorCount,
		report.Health.WarningCount,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport returns the report with the given ID, or ErrReportNotFound.
func (rdb *ReportDB) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ReportMetadata is the listing view of a stored report.
type ReportMetadata struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
	Score         int       `json:"score"`
	CriticalCount int       `json:"critical_count"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
}

// ListReports returns report metadata, newest first. An empty url lists
// every address; limit <= 0 returns all rows.
func (rdb *ReportDB) ListReports(ctx context.Context, url string, limit int) ([]ReportMetadata, error) {
	query := `
	SELECT id, url, analyzed_at, score, critical_count, error_count, warning_count
	FROM reports
	WHERE (? = '' OR url = ?)
	ORDER BY analyzed_at DESC, id
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := rdb.db.QueryContext(ctx, query, url, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	results := make([]ReportMetadata, 0)
	for rows.Next() {
		var (
			meta       ReportMetadata
			analyzedAt string
		)
		if err := rows.Scan(&meta.ID, &meta.URL, &analyzedAt, &meta.Score,
			&meta.CriticalCount, &meta.ErrorCount, &meta.WarningCount); err != nil {
			return nil, fmt.Errorf("failed to scan report metadata: %w", err)
		}
		meta.AnalyzedAt = parseTimestamp(analyzedAt)
		results = append(results, meta)
	}
	return results, rows.Err()
}

// timestampFormats are tried in order when reading analyzed_at.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
