// Package staging manages per-run work directories under paths.work_dir.
//
// Each invocation gets its own kslingo-<uuid> directory so concurrent runs
// never share intermediate files. Directories left behind by crashed runs
// are removed by CleanStale once they exceed the retention window.
package staging
