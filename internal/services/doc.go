// Package services defines shared utilities consumed by the workflow and the
// external integrations (TTS, ffmpeg, clip cache).
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and section labels for
//     logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (not found, invalid format, synthesis, empty result) all
//     the way up to the CLI exit code.
//
// Use these helpers when wiring new integration code so error handling and
// log shape stay uniform across the pipeline.
package services
