// Package database stores analysis reports in SQLite for the history
// command and the HTTP API.
//
// Reports are kept whole as JSON next to the columns needed for listing
// (address, time, score and issue counts). The driver is modernc.org/sqlite,
// which needs no cgo, and the database runs in WAL mode so the server can
// read while a batch writes.
package database
