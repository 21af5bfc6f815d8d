// Package cli — delete.go implements the "wts delete" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/model"
)

// deleteFlags holds the flag values for the delete command.
type deleteFlags struct {
	keepBranch bool // --keep-branch: remove the worktree but leave the branch
	force      bool // -f: skip the confirmation prompt
}

// NewDeleteCommand creates the "delete" cobra command.
func NewDeleteCommand() *cobra.Command {
	flags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete one or more worktrees and their branches",
		Long: `Delete the worktree(s) with the given NAME(s).

By default the branch is deleted along with the worktree. A worktree with
uncommitted changes is refused by git; commit, stash, or discard first.`,

		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeWorktreeNames,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.keepBranch, "keep-branch", false,
		"Keep the branch after removing the worktree")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false,
		"Skip confirmation prompt")

	return cmd
}

// runDelete deletes each named worktree in turn. Per-worktree failures are
// reported but do not stop the remaining deletions; any failure makes the
// whole command exit non-zero.
func runDelete(names []string, flags *deleteFlags) error {
	if !flags.force {
		if !confirm(fmt.Sprintf("Delete worktrees: %s?", strings.Join(names, ", "))) {
			return model.NewCLIError(model.ExitUserCancelled, "aborted")
		}
	}

	mgr, _, err := newManager()
	if err != nil {
		return err
	}

	var failed bool
	for _, name := range names {
		if err := mgr.Delete(name, flags.keepBranch, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("Deleted worktree '%s'\n", name)
	}

	if failed {
		return model.NewCLIError(model.ExitGeneralError, "some worktrees could not be deleted")
	}
	return nil
}

// confirm asks a yes/no question on the terminal. Anything other than an
// explicit yes counts as no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
