package worktree

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/vrachev/wts/internal/config"
)

// setupTestRepo creates a temporary directory with an initialized git
// repository containing a single commit on main. Worktree operations need
// at least one commit to exist, because a worktree needs a branch and a
// branch needs a commit to point to.
//
// User identity is configured at the repo level so `git commit` works in
// CI environments without global git configuration.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0o644)
	require.NoError(t, err, "failed to create initial file")
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in dir and fails the test immediately on
// a non-zero exit. Keeps setup code free of repetitive error checks.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// newTestManager builds a Manager over repoRoot with a temporary worktree
// base and a silenced logger.
func newTestManager(t *testing.T, repoRoot string) *Manager {
	t.Helper()

	cfg := config.Default()
	cfg.WorktreeBase = filepath.Join(t.TempDir(), "worktrees")
	cfg.DefaultBranch = "main"

	logger := log.New(io.Discard)
	return NewManager(repoRoot, cfg, logger, nil)
}

// commitFile creates a file and commits it in the given working tree.
func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	require.NoError(t, err)
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", message)
}

// setupOriginRemote creates a bare repository, registers it as "origin" on
// repo, and pushes main to it. Returns the bare repository path.
func setupOriginRemote(t *testing.T, repo string) string {
	t.Helper()

	bare := filepath.Join(t.TempDir(), "origin.git")
	cmd := exec.Command("git", "init", "--bare", "-b", "main", bare)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git init --bare failed: %s", string(output))

	runTestGit(t, repo, "remote", "add", "origin", bare)
	runTestGit(t, repo, "push", "-u", "origin", "main")
	return bare
}
