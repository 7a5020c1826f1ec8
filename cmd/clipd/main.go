package main

import "github.com/tobq/clipboard-tray/internal/cli"

// Build metadata, injected via -ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

func main() {
	cli.SetVersionInfo(version, buildTime, commit)
	cli.Execute()
}
