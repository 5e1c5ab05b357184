// Package logging builds the slog handler stack shared by the daemon and CLI.
//
// It provides a human-oriented console handler (color-aware via isatty), a
// normalized JSON handler for log files, a fanout handler for duplicating
// records, and standardized attribute helpers plus field-name constants so
// components emit consistent structured logs.
package logging
