package database

import "errors"

var (
	// ErrReportNotFound is returned when no report has the requested ID.
	ErrReportNotFound = errors.New("report not found")

	// ErrDatabaseNotFound is returned by Open when the database file is
	// missing and creation is disabled.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrNilReport is returned when saving a nil report.
	ErrNilReport = errors.New("report is nil")
)
