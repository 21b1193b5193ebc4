// Package logging assembles the slog loggers used by the kslingo CLI.
//
// Console output goes to stderr in a compact human format (or JSON when
// configured) and, when a log directory is set, every record is also
// appended as JSON to kslingo.log. Context helpers tag lines with the run
// identifier and the section being rendered.
package logging
