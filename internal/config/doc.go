// Package config provides configuration for seoscan: defaults, validation,
// the optional .seoscan.yaml file with per-site request settings, threshold
// overrides and target keywords, and the XDG data directory for the report
// history database.
package config
