package model

import (
	"fmt"
	"regexp"
	"strings"
)

// MergeRequest describes one worktree completion: which worktree to merge,
// where, and how. It is validated in full before any mutating git operation
// begins.
type MergeRequest struct {
	// Name is the worktree identifier. It doubles as the branch name —
	// branch name == worktree name is a deliberate design choice, not
	// an accident of implementation.
	Name string

	// Message is the explicit squash commit message. Empty when
	// UseLatestMsg is set or when Squash is false.
	Message string

	// Into is the target branch to merge into.
	Into string

	// Cleanup removes the worktree and its branch after a successful merge.
	Cleanup bool

	// UseLatestMsg derives the squash commit message from the worktree
	// branch's most recent commit instead of requiring an explicit one.
	UseLatestMsg bool

	// AutoResolve enables the external conflict-resolution path when the
	// primary merge attempt fails.
	AutoResolve bool

	// Squash selects squash-merge (true) or a regular merge that preserves
	// the worktree's individual commits (false).
	Squash bool

	// StripCoAuthor removes Co-Authored-By trailers from a message derived
	// via UseLatestMsg before it is committed.
	StripCoAuthor bool
}

// Validate checks the request-level invariants that can be decided without
// touching git. In squash mode exactly one source for the commit message
// must be chosen: an explicit message or UseLatestMsg, never both, never
// neither. Preserve-commits mode needs no message at all.
func (r *MergeRequest) Validate() error {
	if err := ValidateWorktreeName(r.Name); err != nil {
		return err
	}
	if r.Squash {
		if r.Message != "" && r.UseLatestMsg {
			return NewCLIError(ExitGeneralError, "cannot specify both a message and --use-latest-msg")
		}
		if r.Message == "" && !r.UseLatestMsg {
			return NewCLIError(ExitGeneralError, "must specify either a message or --use-latest-msg")
		}
	}
	return nil
}

// nameRegex validates worktree names: alphanumeric characters, hyphens,
// and underscores only. The name is used both as a directory leaf and as
// a branch name, so path separators and whitespace are rejected outright.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateWorktreeName checks if the given name is a valid worktree name.
// The slash and space cases get their own messages because they are the
// two mistakes users actually make; everything else falls through to the
// character-set check.
func ValidateWorktreeName(name string) error {
	if strings.Contains(name, "/") {
		return NewCLIError(ExitInvalidName, fmt.Sprintf("invalid worktree name %q: cannot contain '/'", name))
	}
	if strings.Contains(name, " ") {
		return NewCLIError(ExitInvalidName, fmt.Sprintf("invalid worktree name %q: cannot contain spaces", name))
	}
	if !nameRegex.MatchString(name) {
		return NewCLIError(ExitInvalidName, fmt.Sprintf(
			"invalid worktree name %q: must contain only alphanumeric characters, hyphens, and underscores", name))
	}
	return nil
}

// ExitCode defines the CLI exit codes. Each error kind in the taxonomy maps
// to its own code so scripts and tests can branch on the outcome of a
// command without parsing messages.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidName indicates a worktree name failed validation.
	// Raised before any git mutation.
	ExitInvalidName ExitCode = 2

	// ExitWorktreeExists indicates a worktree or branch with the requested
	// name already exists.
	ExitWorktreeExists ExitCode = 3

	// ExitWorktreeNotFound indicates the named worktree is not registered
	// with git.
	ExitWorktreeNotFound ExitCode = 4

	// ExitWorktreeNotClean indicates the worktree has uncommitted changes.
	// Raised before the main repository is touched.
	ExitWorktreeNotClean ExitCode = 5

	// ExitRepoNotClean indicates the main repository has uncommitted
	// changes. Raised before any checkout of the target branch.
	ExitRepoNotClean ExitCode = 6

	// ExitMergeConflict indicates a merge failed. This is the only code
	// that implies mutating state was touched — and already rolled back —
	// by the time the error surfaces.
	ExitMergeConflict ExitCode = 7

	// ExitGitError indicates a git invocation failed for a reason outside
	// the merge taxonomy (e.g. worktree add/remove).
	ExitGitError ExitCode = 8

	// ExitConfigError indicates the configuration file could not be
	// loaded or written.
	ExitConfigError ExitCode = 9

	// ExitEditorError indicates an editor or terminal could not be
	// resolved or launched.
	ExitEditorError ExitCode = 10

	// ExitUserCancelled indicates the user declined an interactive prompt.
	ExitUserCancelled ExitCode = 11
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Warnings accumulates failures from best-effort recovery actions that
	// ran after the primary error. They accompany the error without
	// replacing it — the primary message is what the user needs to see.
	Warnings []string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
