// Package mdparse turns the phrase Markdown dialect (and the plain text
// dialect) into a phrase.Document.
//
// The scanner is a single pass over the input lines. Each line is folded into
// a scanState value; there is no package level state, so parsers may run
// concurrently on independent inputs. Malformed phrase lines never fail a
// parse: they are dropped or kept with a Warning that callers log.
//
// Known limitation: bilingual lines are split on the last separator, so a
// learn-side text that itself contains " - " is split at the wrong place.
package mdparse
