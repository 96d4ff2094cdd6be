// Package main is the entry point for the orbit CLI.
//
// orbit onboards Cisco SD-WAN control components and edge devices against
// a Manager instance from a declarative inventory file, and drives
// configuration backup and restore including the multi-region fabric
// hierarchy.
//
// Commands: init, onboard, backup, restore.
//
// For detailed usage information, run:
//
//	orbit --help
package main

import (
	"fmt"
	"os"

	"github.com/torbbang/sdwan-orbit/cmd/orbit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
