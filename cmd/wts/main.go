// Package main is the entry point for the wts CLI.
//
// This binary manages git worktrees as disposable workspaces for parallel
// feature development. It delegates all functionality to the internal/cli
// package, which defines cobra commands.
package main

import (
	"github.com/vrachev/wts/internal/cli"
)

// version, commit, and date are set at build time via ldflags. They provide
// binary identification for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
