package worktree

import (
	"context"
	"fmt"
	"strings"

	"github.com/vrachev/wts/internal/gitcmd"
	"github.com/vrachev/wts/internal/model"
	"github.com/vrachev/wts/internal/resolver"
)

// Complete merges the named worktree's branch into the target branch and,
// on success, optionally cleans the worktree up.
//
// The flow is a small state machine:
//
//	Validate → Preconditions → Merge → {Success | ConflictRecovery} → Cleanup
//
// with ConflictRecovery either re-entering Merge after a successful
// rebase-and-resolve pass or terminating in a MergeConflict error.
//
// Invariants on every exit path: the main repository is left with some
// valid branch checked out and no merge in progress. On failure that branch
// is the one that was checked out when Complete was called, which may
// differ from the merge target. Recovery actions are best-effort — their
// own failures are logged and attached as warnings, never raised, because
// the primary error is what the user needs to see.
func (m *Manager) Complete(ctx context.Context, req model.MergeRequest) error {
	// Step 1: request-level validation. Nothing here touches git state.
	if err := req.Validate(); err != nil {
		return err
	}

	// Step 2: preconditions, cheapest and least invasive first.
	// The worktree must be registered, its tree clean, and the main
	// repository clean — recovery relies on `reset --hard` restoring the
	// main repo, which only holds if we start from a clean slate.
	if !m.IsGitWorktree(req.Name) {
		return model.NewCLIError(model.ExitWorktreeNotFound,
			fmt.Sprintf("worktree %q not found", req.Name))
	}

	worktreePath := m.Path(req.Name)
	clean, err := m.IsClean(worktreePath)
	if err != nil {
		return err
	}
	if !clean {
		return model.NewCLIError(model.ExitWorktreeNotClean,
			fmt.Sprintf("worktree %q has uncommitted changes; commit or stash them first", req.Name))
	}

	clean, err = m.IsClean(m.RepoRoot)
	if err != nil {
		return err
	}
	if !clean {
		return model.NewCLIError(model.ExitRepoNotClean,
			"main repository has uncommitted changes; commit or stash them before completing")
	}

	// The branch to return to on any failure. It may differ from the
	// merge target — the user's checkout is theirs to keep.
	originalBranch, err := m.CurrentBranch(m.RepoRoot)
	if err != nil {
		return err
	}

	// Resolve the squash commit message. Read-only, so still safe to fail
	// here without any compensation.
	message := req.Message
	if req.Squash && req.UseLatestMsg {
		message, err = m.LatestCommitMessage(req.Name)
		if err != nil {
			return err
		}
		if req.StripCoAuthor {
			message = StripCoAuthors(message)
		}
	}

	// Step 3: primary merge attempt.
	mergeErr, failedAtCommit := m.mergeInto(req.Name, req.Into, message, req.Squash)
	if mergeErr != nil {
		captured := mergeErr.Error()
		m.logger.Debug("primary merge attempt failed", "worktree", req.Name, "into", req.Into)

		// Step 4: restore the main repository to a known-good state before
		// deciding what to surface. Always attempted, never raised.
		warnings := m.recoverMainRepo(originalBranch, failedAtCommit)

		if !req.AutoResolve {
			return mergeConflictError(mergeFailureMessage(req, captured), warnings)
		}

		// Step 5: rebase-and-resolve in the worktree, then retry.
		if resolveErr := m.resolveConflicts(ctx, req, message); resolveErr != nil {
			return resolveErr
		}
		if retryErr := m.retryMerge(ctx, req, message, originalBranch); retryErr != nil {
			return retryErr
		}
	}

	// Step 8: cleanup after a committed merge.
	if req.Cleanup {
		if err := m.Delete(req.Name, false, false); err != nil {
			return err
		}
	}
	return nil
}

// mergeInto checks out the target branch in the main repository and merges
// the worktree's branch into it: squash-merge plus explicit commit, or a
// plain merge. Any failure at checkout, merge, or commit is returned as
// one unit, along with whether it was specifically the commit step of a
// squash merge — the one recovery-relevant distinction, because a squash
// merge sets no mergeable ref for `merge --abort` to act on.
func (m *Manager) mergeInto(name, into, message string, squash bool) (err error, failedAtCommit bool) {
	if _, err := gitcmd.Run(m.RepoRoot, true, "checkout", into); err != nil {
		return err, false
	}

	if squash {
		if _, err := gitcmd.Run(m.RepoRoot, true, "merge", "--squash", name); err != nil {
			return err, false
		}
		if _, err := gitcmd.Run(m.RepoRoot, true, "commit", "-m", message); err != nil {
			return err, true
		}
		return nil, false
	}

	if _, err := gitcmd.Run(m.RepoRoot, true, "merge", name); err != nil {
		return err, false
	}
	return nil, false
}

// compensation is one recovery action in the ordered rollback list.
type compensation struct {
	desc string
	args []string
}

// recoverMainRepo runs the compensating actions that put the main
// repository back into a known-good state after a failed merge attempt:
// abort any in-progress merge, hard-reset to HEAD, and check the user's
// original branch back out.
//
// Each action is attempted even if an earlier one fails. Failures are
// logged as warnings and collected for attachment to the primary error —
// they never replace it. The merge abort is skipped when the failure was
// the commit step of a squash merge: squash merges leave no MERGE_HEAD, so
// aborting there would itself error and only add noise.
func (m *Manager) recoverMainRepo(originalBranch string, skipMergeAbort bool) []string {
	var actions []compensation
	if !skipMergeAbort {
		actions = append(actions, compensation{
			desc: "abort in-progress merge",
			args: []string{"merge", "--abort"},
		})
	}
	actions = append(actions,
		compensation{
			desc: "reset main repository to HEAD",
			args: []string{"reset", "--hard", "HEAD"},
		},
		compensation{
			desc: fmt.Sprintf("check out original branch %q", originalBranch),
			args: []string{"checkout", originalBranch},
		},
	)

	var warnings []string
	for _, action := range actions {
		if _, err := gitcmd.Run(m.RepoRoot, true, action.args...); err != nil {
			warning := fmt.Sprintf("recovery: failed to %s: %v", action.desc, err)
			warnings = append(warnings, warning)
			m.logger.Warn("recovery action failed", "action", action.desc, "err", err)
		}
	}
	return warnings
}

// resolveConflicts runs the auto-resolve path inside the worktree: fetch
// the target branch from origin and rebase the worktree's branch onto the
// fetched remote ref. A clean rebase means the conflicts are already
// resolved and the external agent is never invoked. If the rebase stops,
// it is aborted (best-effort) and the agent takes over with a generated
// prompt, its output streamed to the user. A non-zero agent result is
// terminal.
func (m *Manager) resolveConflicts(ctx context.Context, req model.MergeRequest, message string) error {
	worktreePath := m.Path(req.Name)

	if _, err := gitcmd.Run(worktreePath, true, "fetch", "origin", req.Into); err != nil {
		return mergeConflictError(fmt.Sprintf(
			"auto-resolve failed for %q: could not fetch 'origin/%s': %v", req.Name, req.Into, err), nil)
	}

	remoteRef := "origin/" + req.Into
	res, err := gitcmd.Run(worktreePath, false, "rebase", remoteRef)
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		// Clean rebase: the divergence resolved itself, no agent needed.
		m.logger.Debug("rebase onto remote succeeded, skipping external resolver", "ref", remoteRef)
		return nil
	}

	// The rebase stopped on conflicts. Put the worktree back into a state
	// the agent can work from its own rebase attempt.
	if _, abortErr := gitcmd.Run(worktreePath, true, "rebase", "--abort"); abortErr != nil {
		m.logger.Warn("failed to abort stopped rebase", "err", abortErr)
	}

	m.logger.Debug("invoking external resolver", "worktree", req.Name, "ref", remoteRef)
	prompt := resolver.BuildPrompt(req.Into, message)
	if agentErr := m.agent.Resolve(ctx, worktreePath, prompt); agentErr != nil {
		return mergeConflictError(fmt.Sprintf(
			"automated conflict resolution failed for %q; resolve the conflicts manually in %s",
			req.Name, worktreePath), nil)
	}
	return nil
}

// retryMerge re-runs the merge after conflict resolution. Before retrying
// it reconciles the local target branch with its remote counterpart: the
// worktree was rebased onto the *remote* ref, so the local target must
// match that exact ref or the retry won't apply cleanly. A fast-forward
// pull is tried first; if the local branch has diverged it is hard-reset
// to the remote ref. Repositories without an "origin" remote skip
// reconciliation and proceed with local state.
//
// A failure here is terminal: the worktree may already be in a rebased
// state, so the error suggests completing the merge manually.
func (m *Manager) retryMerge(ctx context.Context, req model.MergeRequest, message, originalBranch string) error {
	if _, err := gitcmd.Run(m.RepoRoot, true, "checkout", req.Into); err != nil {
		warnings := m.recoverMainRepo(originalBranch, true)
		return mergeConflictError(fmt.Sprintf(
			"retry merge failed for %q: could not check out %q: %v", req.Name, req.Into, err), warnings)
	}

	if m.HasRemote() {
		res, err := gitcmd.Run(m.RepoRoot, false, "pull", "--ff-only", "origin", req.Into)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			// Local target has diverged from the remote; force it to the
			// ref the worktree was rebased onto.
			if _, err := gitcmd.Run(m.RepoRoot, true, "reset", "--hard", "origin/"+req.Into); err != nil {
				warnings := m.recoverMainRepo(originalBranch, true)
				return mergeConflictError(fmt.Sprintf(
					"retry merge failed for %q: could not reconcile %q with origin: %v",
					req.Name, req.Into, err), warnings)
			}
		}
	}

	mergeErr, failedAtCommit := m.mergeInto(req.Name, req.Into, message, req.Squash)
	if mergeErr != nil {
		warnings := m.recoverMainRepo(originalBranch, failedAtCommit)
		return mergeConflictError(fmt.Sprintf(
			"%s failed for %q into %q even after auto-resolution:\n%s\n"+
				"The worktree may already be rebased; complete the merge manually.",
			mergeTypeLabel(req.Squash), req.Name, req.Into, mergeErr.Error()), warnings)
	}
	return nil
}

// mergeFailureMessage formats the terminal error for a failed primary
// merge when auto-resolve was not requested. When git's own output shows a
// conflict marker, the message points at the flag that would have helped.
func mergeFailureMessage(req model.MergeRequest, captured string) string {
	msg := fmt.Sprintf("%s failed for '%s' into '%s':\n%s",
		mergeTypeLabel(req.Squash), req.Name, req.Into, captured)
	if strings.Contains(captured, "CONFLICT") {
		msg += "\n\nHint: retry with --auto-resolve to attempt automated conflict resolution."
	}
	return msg
}

// mergeTypeLabel names the merge flavor for user-facing messages.
func mergeTypeLabel(squash bool) string {
	if squash {
		return "Squash merge"
	}
	return "Merge"
}

// mergeConflictError builds the one error kind that implies mutating state
// was touched — and already rolled back — by the time it surfaces.
func mergeConflictError(message string, warnings []string) *model.CLIError {
	return &model.CLIError{
		Code:     model.ExitMergeConflict,
		Message:  message,
		Warnings: warnings,
	}
}
