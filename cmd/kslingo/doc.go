// Package main hosts the kslingo CLI entrypoint and command graph.
//
// The Cobra command tree turns phrase documents into audio (audio, plan),
// inspects and converts them (inspect, convert, prefix) and maintains the
// local installation (config, doctor, cache). It centralizes configuration
// resolution and logger setup so subcommands only translate flags into
// workflow calls.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
