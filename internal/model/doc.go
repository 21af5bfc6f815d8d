// Package model defines the domain types for the wts CLI.
//
// This package contains pure data structures with no external dependencies:
// the merge request that drives worktree completion, worktree name
// validation, exit codes, and a custom error type (CLIError) that carries
// exit codes for proper OS process exit handling.
//
// All worktree state lives in git's own object/ref store and working-tree
// contents — there are no persistent state files, so these types are
// transient values constructed per invocation.
package model
