// Package ui holds the terminal color themes shared by the CLI report, the
// error handler and the TUI dashboard.
package ui
