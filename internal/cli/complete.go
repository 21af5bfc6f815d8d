// Package cli — complete.go implements the "wts complete" command, the
// user-facing entry to the merge orchestrator in internal/worktree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/model"
)

// completeFlags holds the flag values for the complete command.
type completeFlags struct {
	useLatestMsg    bool // -l: derive the message from the branch's last commit
	noCleanup       bool // --no-cleanup: keep worktree and branch after merge
	into            string
	autoResolve     bool // -a: attempt automated conflict resolution
	preserveCommits bool // -p: regular merge instead of squash
	noCoAuthor      bool // --no-coauthor / --coauthor tri-state, see run
	coAuthor        bool
}

// NewCompleteCommand creates the "complete" cobra command.
func NewCompleteCommand() *cobra.Command {
	flags := &completeFlags{}

	cmd := &cobra.Command{
		Use:   "complete <name> [message]",
		Short: "Merge a worktree into the target branch and clean it up",
		Long: `Merge worktree NAME into the target branch.

By default, performs a squash merge requiring MESSAGE (or --use-latest-msg).
Use --preserve-commits for a regular merge that keeps individual commits,
which needs no message.

On a merge conflict the main repository is restored to its original branch
and state. With --auto-resolve, wts instead rebases the worktree onto the
target's remote ref and, if the rebase itself conflicts, hands the worktree
to the claude CLI to resolve before retrying the merge.

Examples:
  wts complete feature-auth "Add JWT authentication"
  wts complete feature-auth --use-latest-msg
  wts complete feature-api -l --into develop
  wts complete bugfix-123 "Fix login bug" --no-cleanup
  wts complete feature-api --preserve-commits`,

		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeWorktreeNames,

		RunE: func(cmd *cobra.Command, args []string) error {
			message := ""
			if len(args) == 2 {
				message = args[1]
			}
			return runComplete(cmd, args[0], message, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.useLatestMsg, "use-latest-msg", "l", false,
		"Use the latest commit message from the worktree branch")
	cmd.Flags().BoolVar(&flags.noCleanup, "no-cleanup", false,
		"Keep worktree and branch after merge (default: cleanup)")
	cmd.Flags().StringVar(&flags.into, "into", "",
		"Target branch to merge into (default: configured default branch)")
	cmd.Flags().BoolVarP(&flags.autoResolve, "auto-resolve", "a", false,
		"Auto-resolve conflicts using the claude CLI (requires claude to be installed)")
	cmd.Flags().BoolVarP(&flags.preserveCommits, "preserve-commits", "p", false,
		"Use regular merge instead of squash merge (preserves individual commits)")
	cmd.Flags().BoolVarP(&flags.noCoAuthor, "no-coauthor", "n", false,
		"Strip Co-Authored-By trailers from derived commit messages")
	cmd.Flags().BoolVar(&flags.coAuthor, "coauthor", false,
		"Keep Co-Authored-By trailers (overrides config)")

	return cmd
}

// runComplete translates the CLI surface into a model.MergeRequest and
// hands it to the orchestrator.
func runComplete(cmd *cobra.Command, name, message string, flags *completeFlags) error {
	mgr, cfg, err := newManager()
	if err != nil {
		return err
	}

	into := flags.into
	if into == "" {
		into = cfg.DefaultBranch
	}

	// Co-author stripping is a tri-state: an explicit flag wins, otherwise
	// the config default applies (true when never configured).
	stripCoAuthor := cfg.NoCoAuthor
	if cmd.Flags().Changed("no-coauthor") {
		stripCoAuthor = flags.noCoAuthor
	}
	if cmd.Flags().Changed("coauthor") {
		stripCoAuthor = !flags.coAuthor
	}

	req := model.MergeRequest{
		Name:          name,
		Message:       message,
		Into:          into,
		Cleanup:       !flags.noCleanup,
		UseLatestMsg:  flags.useLatestMsg,
		AutoResolve:   flags.autoResolve,
		Squash:        !flags.preserveCommits,
		StripCoAuthor: stripCoAuthor,
	}

	if err := mgr.Complete(cmd.Context(), req); err != nil {
		return err
	}

	mergeType := "Squash merged"
	if flags.preserveCommits {
		mergeType = "Merged"
	}
	if flags.noCleanup {
		fmt.Printf("%s worktree '%s' into '%s'\n", mergeType, name, into)
	} else {
		fmt.Printf("%s worktree '%s' into '%s' and cleaned up\n", mergeType, name, into)
	}
	return nil
}
