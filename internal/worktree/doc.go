// Package worktree manages git worktrees as disposable workspaces.
//
// A worktree is created from a base branch, worked on independently, and
// consumed exactly once by a merge-completion back into a target branch.
// The worktree name doubles as the branch name.
//
// This package wraps the git CLI (via internal/gitcmd) rather than a Go
// git library because the completion flow depends on exact CLI semantics:
// squash merges, rebase abort/continue, and worktree registration. Git's
// own metadata is the single source of truth — existence, cleanliness, and
// branch state are all derived on demand, never cached across invocations.
//
// The merge orchestration in merge.go is the transactional heart of the
// tool: a sequence of git operations across two working trees with
// compensating actions on every failure path.
package worktree
