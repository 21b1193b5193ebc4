// Package convert maps a phrase.Document to and from its persisted forms:
// the Markdown dialect, the fixed-schema JSON layout, the spreadsheet layout
// and a rendered HTML page.
//
// Converters are structural. They never re-derive flags or text beyond what
// the flag codec and separator normalizer define, and they never alias the
// document they are given.
package convert
