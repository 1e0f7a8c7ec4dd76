// Package cli defines the Cobra command tree for the oas CLI. Each file in
// this package registers one top-level command (init, update, validate, etc.)
// with the root command. Command implementations delegate to agentspec and
// scaffold for the work and only handle flags, output and user interaction.
package cli
