// Package workflow ties the document, plan and audio packages into the
// operations the CLI exposes.
//
// The Manager loads a phrase document, assembles audio plans and renders
// them into the output directory. Each run takes an advisory lock on the
// output directory, works inside its own staging directory and publishes
// finished files by rename after ffprobe verification. Sections render in
// parallel up to audio.parallelism. The synthesizer, mixer and verifier are
// injectable so tests run without network or ffmpeg.
package workflow
