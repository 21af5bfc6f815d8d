// Package cli — list.go implements the "wts list" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the "list" cobra command. Output is one worktree
// name per line — plain on purpose, since shell completion and scripts
// consume it.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all worktrees for the current repository",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}
			names, err := mgr.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
