// Package logging builds the process logger.
//
// Output is human-readable slog text on stdout. When a log file is
// configured, the same lines are also written to a size-rotated file.
package logging
