// Package cli — select.go implements the "wts select" command, which
// points editors and terminals at an existing worktree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/editor"
	"github.com/vrachev/wts/internal/model"
	"github.com/vrachev/wts/internal/terminal"
)

// selectFlags holds the flag values for the select command.
type selectFlags struct {
	terminal bool
	editor   string
}

// NewSelectCommand creates the "select" cobra command.
func NewSelectCommand() *cobra.Command {
	flags := &selectFlags{}

	cmd := &cobra.Command{
		Use:   "select <name>",
		Short: "Select an existing worktree",
		Long: `Select an existing worktree by NAME, optionally opening it in a terminal
or an editor.

Examples:
  wts select feature-auth
  wts select feature-auth -t
  wts select feature-auth -e cursor`,

		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktreeNames,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.terminal, "terminal", "t", false,
		"Open a new terminal in the worktree")
	cmd.Flags().StringVarP(&flags.editor, "editor", "e", "",
		"Open in editor (-e uses the configured default, -e cursor for a specific one)")
	cmd.Flags().Lookup("editor").NoOptDefVal = "default"

	return cmd
}

func runSelect(name string, flags *selectFlags) error {
	mgr, cfg, err := newManager()
	if err != nil {
		return err
	}

	if err := model.ValidateWorktreeName(name); err != nil {
		return err
	}
	if !mgr.WorktreeExists(name) {
		return model.NewCLIError(model.ExitWorktreeNotFound,
			fmt.Sprintf("worktree %q not found", name))
	}

	path := mgr.Path(name)
	fmt.Printf("Selected worktree '%s' at %s\n", name, path)

	if flags.terminal {
		backend, err := terminal.Detect(cfg.Terminal)
		if err != nil {
			return err
		}
		mode, err := terminal.ParseMode(cfg.TerminalMode)
		if err != nil {
			return err
		}
		split, err := terminal.ParseSplit(cfg.TerminalSplit)
		if err != nil {
			return err
		}
		opener := terminal.Opener{Backend: backend, Mode: mode, Split: split}
		if err := opener.Open(path, "", ""); err != nil {
			return err
		}
	}

	if flags.editor != "" {
		override := flags.editor
		if override == "default" {
			override = ""
		}
		kind, err := editor.Resolve(override, cfg.Editor)
		if err != nil {
			return err
		}
		if kind.TerminalBased() {
			backend, err := terminal.Detect(cfg.Terminal)
			if err != nil {
				return err
			}
			mode, err := terminal.ParseMode(cfg.TerminalMode)
			if err != nil {
				return err
			}
			split, err := terminal.ParseSplit(cfg.TerminalSplit)
			if err != nil {
				return err
			}
			opener := terminal.Opener{Backend: backend, Mode: mode, Split: split}
			return opener.Open(path, kind.String(), "")
		}
		return kind.Open(path)
	}
	return nil
}
