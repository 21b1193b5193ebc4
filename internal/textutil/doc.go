// Package textutil provides the text processing helpers shared by the phrase
// parser, the converters and the audio assembler.
//
// The primary use cases are:
//   - Canonicalizing heterogeneous dash and equals separators into the single
//     " - " phrase separator without splitting compound words
//   - Splitting a normalized line into its learn/native pair
//   - Stripping the Markdown decorations used by phrase books (bold, italic,
//     list dashes, heading markers)
//   - Sanitizing titles for safe use as output file names
package textutil
