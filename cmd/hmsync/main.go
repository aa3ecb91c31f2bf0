// Package main provides the entry point for the hmsync CLI tool.
package main

import (
	"github.com/SophieMSL/hubspot-monday-sync/cmd/hmsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
