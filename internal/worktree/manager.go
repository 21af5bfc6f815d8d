package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vrachev/wts/internal/config"
	"github.com/vrachev/wts/internal/gitcmd"
	"github.com/vrachev/wts/internal/model"
	"github.com/vrachev/wts/internal/resolver"
)

// Manager performs worktree operations against one repository.
//
// The repository context (root path, worktree base directory, repository
// name) is derived once at construction and is immutable for the duration
// of one command invocation.
type Manager struct {
	// RepoRoot is the absolute path to the main repository working tree.
	RepoRoot string

	// WorktreeBase is the directory under which this repository's
	// worktrees live: <WorktreeBase>/<RepoName>/<worktree-name>.
	WorktreeBase string

	// RepoName is the leaf name of the repository root directory.
	RepoName string

	cfg    config.Config
	logger *log.Logger
	agent  resolver.Agent
}

// RepoRoot returns the top-level directory of the repository containing
// dir, using `git rev-parse --show-toplevel`. For a worktree this is the
// worktree's own root, which is what callers operating inside one want.
func RepoRoot(dir string) (string, error) {
	root, err := gitcmd.Output(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "not inside a git repository", err)
	}
	return root, nil
}

// NewManager creates a Manager for the repository rooted at repoRoot.
// The logger receives recovery warnings and verbose traces; the agent is
// consulted only when a merge requests auto-resolution.
func NewManager(repoRoot string, cfg config.Config, logger *log.Logger, agent resolver.Agent) *Manager {
	if agent == nil {
		agent = resolver.NewCLI()
	}
	return &Manager{
		RepoRoot:     repoRoot,
		WorktreeBase: cfg.WorktreeBase,
		RepoName:     filepath.Base(repoRoot),
		cfg:          cfg,
		logger:       logger,
		agent:        agent,
	}
}

// Path returns the directory where the named worktree lives (or would
// live). The layout namespaces worktrees by repository so one base
// directory serves many repositories.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.WorktreeBase, m.RepoName, name)
}

// WorktreeExists reports whether a worktree by this name exists, checking
// both the filesystem and git's worktree registry. Both checks matter: a
// partially-created or partially-removed worktree can have either one true
// without the other.
func (m *Manager) WorktreeExists(name string) bool {
	path := m.Path(name)
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return m.IsGitWorktree(name)
}

// IsGitWorktree reports whether the named worktree is registered with git,
// ignoring whether its directory happens to exist on disk. Deletion and
// completion use this form: only a registered worktree can be operated on.
func (m *Manager) IsGitWorktree(name string) bool {
	res, err := gitcmd.Run(m.RepoRoot, false, "worktree", "list", "--porcelain")
	if err != nil || res.ExitCode != 0 {
		return false
	}
	return strings.Contains(res.Stdout, m.Path(name))
}

// BranchExists reports whether a local branch with the given name exists.
func (m *Manager) BranchExists(name string) bool {
	res, err := gitcmd.Run(m.RepoRoot, false, "branch", "--list", name)
	if err != nil || res.ExitCode != 0 {
		return false
	}
	return strings.Contains(res.Stdout, name)
}

// IsClean reports whether the working tree at path has no staged,
// unstaged, or untracked changes. Porcelain status output is empty exactly
// when the tree is clean.
func (m *Manager) IsClean(path string) (bool, error) {
	res, err := gitcmd.Run(path, true, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) == "", nil
}

// CurrentBranch returns the short name of the branch checked out at dir,
// or "HEAD" in a detached state.
func (m *Manager) CurrentBranch(dir string) (string, error) {
	return gitcmd.Output(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// LatestCommitMessage returns the full commit message (subject and body)
// of the most recent commit on the given branch.
func (m *Manager) LatestCommitMessage(branch string) (string, error) {
	return gitcmd.Output(m.RepoRoot, "log", "-1", "--pretty=%B", branch)
}

// HasRemote reports whether the repository has a remote named "origin".
// Local-branch reconciliation during merge retry is skipped when it
// doesn't — a repository with no remote simply proceeds with local state.
func (m *Manager) HasRemote() bool {
	res, err := gitcmd.Run(m.RepoRoot, false, "remote", "get-url", "origin")
	return err == nil && res.ExitCode == 0
}

// Create makes a new worktree named name on a new branch of the same name.
//
// The branch starts from HEAD when fromCurrent is true, otherwise from the
// configured default branch. When runInit is true and the repository has
// an init script (.wts/init.sh), it runs inside the new worktree with its
// output streamed to the caller's terminal.
//
// Name collisions with an existing worktree or branch are rejected before
// any mutation.
func (m *Manager) Create(ctx context.Context, name string, fromCurrent, runInit bool) (string, error) {
	if err := model.ValidateWorktreeName(name); err != nil {
		return "", err
	}
	if m.WorktreeExists(name) {
		return "", model.NewCLIError(model.ExitWorktreeExists,
			fmt.Sprintf("worktree %q already exists", name))
	}
	if m.BranchExists(name) {
		return "", model.NewCLIError(model.ExitWorktreeExists,
			fmt.Sprintf("branch %q already exists", name))
	}

	path := m.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create worktree base directory %s", filepath.Dir(path)), err)
	}

	baseRef := m.cfg.DefaultBranch
	if fromCurrent {
		baseRef = "HEAD"
	}

	if _, err := gitcmd.Run(m.RepoRoot, true, "worktree", "add", "-b", name, path, baseRef); err != nil {
		return "", err
	}

	if runInit {
		if script := m.InitScript(); script != "" {
			m.logger.Debug("running init script", "script", script, "worktree", name)
			if err := gitcmd.RunStreaming(ctx, path, os.Stdout, os.Stderr, "sh", script); err != nil {
				// The worktree itself was created fine; a failing init
				// script is reported but does not undo the creation.
				m.logger.Warn("init script failed", "err", err)
			}
		}
	}

	return path, nil
}

// InitScript returns the path of the repository's init script, or "" if
// the repository has none. The script is looked up in the main repository,
// not the worktree, so freshly created worktrees of older commits still
// get the current script.
func (m *Manager) InitScript() string {
	script := filepath.Join(m.RepoRoot, ".wts", "init.sh")
	if _, err := os.Stat(script); err != nil {
		return ""
	}
	return script
}

// Delete removes the named worktree's registration and directory and,
// unless keepBranch is set, force-deletes its branch.
//
// Removal and branch deletion are independently checked: a branch deletion
// failure after a successful removal still surfaces, because the branch is
// now orphaned and the user must know. force tolerates modified or
// untracked files in the worktree being removed.
func (m *Manager) Delete(name string, keepBranch, force bool) error {
	if err := model.ValidateWorktreeName(name); err != nil {
		return err
	}
	if !m.IsGitWorktree(name) {
		return model.NewCLIError(model.ExitWorktreeNotFound,
			fmt.Sprintf("worktree %q not found", name))
	}

	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, m.Path(name))
	if _, err := gitcmd.Run(m.RepoRoot, true, args...); err != nil {
		return err
	}

	if !keepBranch {
		if _, err := gitcmd.Run(m.RepoRoot, true, "branch", "-D", name); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names of this repository's worktrees, sorted. The
// listing is directory-based: it reflects what lives under the worktree
// base, which is what the create/select/delete commands operate on.
func (m *Manager) List() ([]string, error) {
	dir := filepath.Join(m.WorktreeBase, m.RepoName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read worktree directory %s", dir), err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
