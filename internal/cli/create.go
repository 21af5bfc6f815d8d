// Package cli — create.go implements the "wts create" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/editor"
	"github.com/vrachev/wts/internal/terminal"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	fromCurrent bool   // --from-current: branch from HEAD instead of the default branch
	terminal    bool   // -t: open a new terminal in the worktree
	editor      string // -e: open in editor; bare -e means "default"
	noInit      bool   // --no-init: skip the repository init script
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new worktree with its own branch",
		Long: `Create a new worktree named NAME on a new branch of the same name.

The branch starts from the configured default branch unless --from-current
branches from the current HEAD. If the repository has a .wts/init.sh
script, it runs in the new worktree after creation.

Examples:
  wts create feature-auth
  wts create feature-auth --from-current
  wts create feature-auth -t
  wts create feature-auth -e cursor
  wts create feature-auth -e claude`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.fromCurrent, "from-current", false,
		"Branch from current HEAD instead of the default branch")
	cmd.Flags().BoolVarP(&flags.terminal, "terminal", "t", false,
		"Open a new terminal in the worktree")
	cmd.Flags().StringVarP(&flags.editor, "editor", "e", "",
		"Open in editor (-e uses the configured default, -e cursor for a specific one)")
	// A bare -e (no value) means "use the configured editor".
	cmd.Flags().Lookup("editor").NoOptDefVal = "default"
	cmd.Flags().BoolVar(&flags.noInit, "no-init", false,
		"Skip running the init script")

	return cmd
}

// runCreate creates the worktree and then applies the launch policy:
//
//   - a terminal-based editor (claude) or -t opens a new terminal, and the
//     init script runs there so its output lands where the user works;
//   - otherwise the init script runs in the parent terminal before any GUI
//     editor opens.
//
// The init script runs exactly once either way.
func runCreate(cmd *cobra.Command, name string, flags *createFlags) error {
	mgr, cfg, err := newManager()
	if err != nil {
		return err
	}

	// Resolve the editor before creating anything so an unknown editor
	// name fails without leaving a worktree behind.
	var editorKind editor.Kind
	editorRequested := flags.editor != ""
	if editorRequested {
		override := flags.editor
		if override == "default" {
			override = ""
		}
		editorKind, err = editor.Resolve(override, cfg.Editor)
		if err != nil {
			return err
		}
	}

	runsInTerminal := editorRequested && editorKind.TerminalBased()
	initInNewTerminal := !flags.noInit && (flags.terminal || runsInTerminal)
	runInitInParent := !flags.noInit && !initInNewTerminal

	path, err := mgr.Create(cmd.Context(), name, flags.fromCurrent, runInitInParent)
	if err != nil {
		return err
	}
	fmt.Printf("Created worktree '%s' at %s\n", name, path)

	if flags.terminal || runsInTerminal {
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

		command := ""
		if runsInTerminal {
			command = editorKind.String()
		}
		initScript := ""
		if initInNewTerminal {
			initScript = mgr.InitScript()
		}

		opener := terminal.Opener{Backend: backend, Mode: mode, Split: split}
		if err := opener.Open(path, command, initScript); err != nil {
			return err
		}
	}

	if editorRequested && !runsInTerminal {
		if err := editorKind.Open(path); err != nil {
			return err
		}
	}
	return nil
}
