// Package phrase holds the canonical in-memory phrase document shared by the
// Markdown parser, the audio assembler and every format converter.
//
// A Document is an ordered list of Sections; each Section is an ordered list
// of Phrases keyed by language code. Order is significant: it drives audio
// playback order and spreadsheet row order. The package also owns the
// %%LEVEL,TYPE,STATUS%% flag codec and the Languages value that tells every
// stage which language plays the learn role, which the native role, and which
// languages the fixed JSON/spreadsheet schema carries.
package phrase
