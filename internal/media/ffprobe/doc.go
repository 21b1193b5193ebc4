// Package ffprobe inspects rendered audio files.
//
// Inspect runs ffprobe and decodes its JSON; Verify checks that a file holds
// exactly one audio stream with a positive duration before it is published
// to the output directory.
package ffprobe
