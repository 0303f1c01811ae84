// Package logging builds the slog loggers used across the server and CLI.
//
// It offers a console handler for interactive use (colorized when attached
// to a terminal) and a JSON handler for log files and machine consumption,
// plus shared attribute helpers so field names stay consistent between
// components.
package logging
