// Package clipcache keeps synthesized speech clips between runs.
//
// Clips are stored as files under a cache directory and indexed in a small
// SQLite database keyed by sha256(lang, text). Cached decorates an
// audioplan.Synthesizer so repeated phrases are only fetched once.
package clipcache
