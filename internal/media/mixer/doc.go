// Package mixer implements audioplan.Mixer on top of the ffmpeg CLI.
//
// Every intermediate clip is conformed to mono PCM WAV at the configured
// sample rate so the final concat can use ffmpeg's concat demuxer and encode
// once into the requested output format.
package mixer
