package main

import (
	"github.com/anstrom/meterexporter/cmd/cli"
)

// Build information, set via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
