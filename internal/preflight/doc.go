// Package preflight provides readiness checks for the paths, binaries and
// speech endpoint kslingo depends on.
//
// The audio workflow calls RunAll before rendering so a missing or read-only
// output directory fails before any synthesis request is spent. The
// "kslingo doctor" command shows the same results alongside CheckSystemDeps
// and CheckTTS.
package preflight
