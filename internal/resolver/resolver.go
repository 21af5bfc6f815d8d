// Package resolver adapts an external conflict-resolution agent.
//
// When `wts complete --auto-resolve` hits a rebase that git cannot finish
// on its own, the merge orchestrator hands the worktree to an external
// coding agent with a natural-language prompt describing what to do. The
// agent is a black box: it either leaves the worktree with conflicts
// resolved and the rebase completed, or it exits non-zero.
//
// The agent's stdout and stderr are streamed to the user as they arrive so
// long resolution sessions stay observable.
package resolver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vrachev/wts/internal/gitcmd"
)

// Agent resolves merge conflicts inside a worktree directory.
// Implementations run synchronously and report success via a nil error.
type Agent interface {
	// Resolve runs the agent in dir with the given prompt. Output is
	// streamed to the user for the duration of the call.
	Resolve(ctx context.Context, dir, prompt string) error
}

// CLI invokes the Claude Code command-line agent as a subprocess.
type CLI struct {
	// Bin is the agent binary name. Defaults to "claude".
	Bin string

	// Stdout and Stderr receive the agent's streamed output.
	// They default to the process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCLI returns a CLI agent wired to the process's output streams.
func NewCLI() *CLI {
	return &CLI{Bin: "claude", Stdout: os.Stdout, Stderr: os.Stderr}
}

// Resolve runs the agent in the worktree directory with the prompt passed
// via -p. Permissions prompts are skipped because the agent must run
// unattended inside an already-sandboxed worktree.
func (c *CLI) Resolve(ctx context.Context, dir, prompt string) error {
	bin := c.Bin
	if bin == "" {
		bin = "claude"
	}
	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return gitcmd.RunStreaming(ctx, dir, stdout, stderr, bin,
		"--dangerously-skip-permissions", "-p", prompt)
}

// BuildPrompt generates the instruction handed to the agent. It names the
// exact rebase target so the agent does not guess, and includes the
// intended squash commit message when one is known, since that tells the
// agent what the change is trying to accomplish.
func BuildPrompt(into, message string) string {
	prompt := fmt.Sprintf(
		"This git worktree has a rebase onto 'origin/%s' that stopped on conflicts. "+
			"Resolve every conflict, keeping the intent of both sides where possible, "+
			"then continue the rebase until it completes (git rebase --continue). "+
			"Do not push. Do not create new commits beyond what the rebase requires.",
		into)
	if message != "" {
		prompt += fmt.Sprintf(
			" For context, this branch will be squash-merged with the commit message: %q.", message)
	}
	return prompt
}
