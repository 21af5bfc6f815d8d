// Package gitcmd executes git commands as subprocesses and surfaces their
// failures with full context.
//
// We shell out to `git` rather than using a Go Git library (e.g., go-git)
// because the merge orchestration in internal/worktree depends on exact CLI
// semantics — `merge --squash`, `rebase --abort`, `worktree remove` — that
// library implementations do not cover faithfully.
//
// Every higher-level error message in the tool is built by wrapping the
// message produced here, so its format is load-bearing: tests and users
// both rely on seeing the failed command line and git's own stderr.
package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/vrachev/wts/internal/model"
)

// Result holds the outcome of one git invocation: the exit code and the
// captured output streams, trimmed of trailing whitespace on access but
// stored verbatim.
type Result struct {
	// ExitCode is the subprocess exit status. Zero on success.
	ExitCode int

	// Stdout is the captured standard output, as text.
	Stdout string

	// Stderr is the captured standard error, as text.
	Stderr string
}

// Run executes `git <args...>` in the given directory, capturing stdout and
// stderr. No retries happen at this layer — retry logic is a merge
// orchestrator concern.
//
// When strict is true and git exits non-zero, Run returns a
// model.CLIError (ExitGitError) whose message is
//
//	Command 'git <args joined>' failed: <stderr trimmed>
//
// or, if git produced no stderr,
//
//	Command 'git <args joined>' failed with exit code <code>
//
// When strict is false, a non-zero exit is not an error: the Result carries
// the exit code and the caller inspects it. A nil error with strict=false
// therefore does not imply success, only that git ran at all.
func Run(dir string, strict bool, args ...string) (Result, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// git itself could not be started (not installed, bad dir).
			return res, model.WrapCLIError(model.ExitGitError,
				fmt.Sprintf("Command '%s' failed to start", commandLine(args)), err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if strict && res.ExitCode != 0 {
		return res, model.NewCLIError(model.ExitGitError, FormatFailure(args, res))
	}

	return res, nil
}

// Output runs a strict git command and returns its stdout with surrounding
// whitespace trimmed. This is the common shape for read queries like
// `rev-parse --show-toplevel` where git's trailing newline is never wanted.
func Output(dir string, args ...string) (string, error) {
	res, err := Run(dir, true, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// RunStreaming executes an arbitrary command in dir with its stdout and
// stderr wired directly to the given writers, forwarding output as it is
// produced. This is a passthrough for long-running subprocesses whose
// output the user should watch live (init scripts, the external conflict
// resolver), not a capture.
func RunStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// FormatFailure builds the canonical failure message for a git command.
// Exposed so the orchestrator can format a captured non-strict failure the
// same way a strict one would have been.
//
// stderr is preferred, but some git failures — merge conflicts above all —
// report on stdout and leave stderr empty, so stdout is used before falling
// back to the bare exit code. The conflict hint in the merge orchestrator
// depends on the CONFLICT marker surviving into this message.
func FormatFailure(args []string, res Result) string {
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	if detail != "" {
		return fmt.Sprintf("Command '%s' failed: %s", commandLine(args), detail)
	}
	return fmt.Sprintf("Command '%s' failed with exit code %d", commandLine(args), res.ExitCode)
}

// commandLine renders the full invocation including the git binary name,
// matching what the user would have typed.
func commandLine(args []string) string {
	return "git " + strings.Join(args, " ")
}
