// Package main provides the entry point for the seoscan CLI.
//
// seoscan fetches web pages (or reads local HTML), runs on-page SEO checks
// and reports the findings with a 0-100 health score.
//
// Usage:
//
//	seoscan analyze <url>
//	seoscan analyze --file page.html --source https://example.com/
//	seoscan history <url>
//	seoscan serve
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}
