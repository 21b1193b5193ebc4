// Package tts talks to a Google-Translate-style speech endpoint
// (GET translate_tts?q=...&tl=...) and stores each synthesized utterance as
// an mp3 file in the run's work directory.
//
// Texts longer than the endpoint's limit are split on word boundaries and
// the returned mp3 streams are concatenated into one file. 429 and 5xx
// responses are retried with exponential backoff.
package tts
