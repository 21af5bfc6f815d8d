package gitcmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrachev/wts/internal/model"
)

// setupTestRepo creates a temporary git repository with one commit so that
// read queries like rev-parse have something to answer.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0o644)
	require.NoError(t, err)
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func runTestGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

// TestRunSuccess verifies that a successful command returns its captured
// stdout and a zero exit code.
func TestRunSuccess(t *testing.T) {
	dir := setupTestRepo(t)

	res, err := Run(dir, true, "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "main")
}

// TestRunStrictFailure verifies the load-bearing error format: the full
// command line the user could retype, plus git's own stderr.
func TestRunStrictFailure(t *testing.T) {
	dir := setupTestRepo(t)

	_, err := Run(dir, true, "rev-parse", "--verify", "no-such-ref")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGitError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "Command 'git rev-parse --verify no-such-ref' failed")
	// git's own diagnostic must survive into the message.
	assert.Contains(t, cliErr.Message, "fatal")
}

// TestRunLenient verifies that strict=false reports the exit code in the
// Result instead of failing.
func TestRunLenient(t *testing.T) {
	dir := setupTestRepo(t)

	res, err := Run(dir, false, "rev-parse", "--verify", "no-such-ref")
	require.NoError(t, err)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

// TestOutputTrims verifies that Output strips git's trailing newline.
func TestOutputTrims(t *testing.T) {
	dir := setupTestRepo(t)

	branch, err := Output(dir, "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

// TestFormatFailure covers all three message variants: stderr present,
// stdout-only (the merge-conflict shape), and neither.
func TestFormatFailure(t *testing.T) {
	args := []string{"merge", "--squash", "feature"}

	withStderr := FormatFailure(args, Result{ExitCode: 1, Stderr: "fatal: bad ref\n"})
	assert.Equal(t, "Command 'git merge --squash feature' failed: fatal: bad ref", withStderr)

	withStdout := FormatFailure(args, Result{ExitCode: 1, Stdout: "CONFLICT (content): Merge conflict in a.txt\n"})
	assert.Equal(t, "Command 'git merge --squash feature' failed: CONFLICT (content): Merge conflict in a.txt", withStdout)

	bare := FormatFailure(args, Result{ExitCode: 128})
	assert.Equal(t, "Command 'git merge --squash feature' failed with exit code 128", bare)
}

// TestRunStreaming verifies the passthrough: output arrives on the given
// writers and the subprocess exit status is the only error signal.
func TestRunStreaming(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := RunStreaming(context.Background(), dir, &stdout, &stderr, "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())

	err = RunStreaming(context.Background(), dir, &stdout, &stderr, "sh", "-c", "exit 3")
	require.Error(t, err)
}
