// Package language normalizes the language codes used for phrase columns
// and TTS requests.
//
// Configured codes may arrive as ISO 639-1, ISO 639-2, English words or
// BCP 47 tags ("sr-Latn"). Everything is reduced to the two-letter base
// language the TTS endpoint expects.
package language
