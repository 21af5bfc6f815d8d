// Package cli implements the cobra-based CLI commands for wts.
//
// Each subcommand (create, delete, list, select, complete, config, init)
// is defined in its own file within this package. This file defines the
// root command, global flags, and the Execute error handler that maps
// domain errors onto process exit codes.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/config"
	"github.com/vrachev/wts/internal/model"
	"github.com/vrachev/wts/internal/worktree"
)

// verbose enables debug-level logging to stderr. Bound to the root
// command's persistent --verbose flag so every subcommand inherits it.
var verbose bool

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself performs no action — functionality lives in the
// subcommands registered here.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wts",
		Short: "Git worktree workspace manager",
		Long: `wts manages git worktrees as lightweight, disposable workspaces for
parallel feature development.

Each worktree is created on its own branch, worked on independently, and
merged back with a single command — including optional automated conflict
resolution — then cleaned up.`,

		// We format errors and usage ourselves for cleaner UX.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewSelectCommand())
	rootCmd.AddCommand(NewCompleteCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewInitCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes. CLIError values
// carry their own exit codes; anything else exits 1. Recovery warnings
// attached to an error are printed after the error itself, so the primary
// message stays on top.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Error())
			for _, w := range cliErr.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
			}
			os.Exit(int(cliErr.Code))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(model.ExitGeneralError))
	}
}

// newLogger builds the per-invocation logger. Warnings always show
// (recovery failures must be visible); debug traces require --verbose.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// newManager derives the repository context from the current directory,
// loads the layered configuration, and builds a worktree Manager. Every
// subcommand that touches git goes through here, so the repository lookup
// and config precedence behave identically across commands.
func newManager() (*worktree.Manager, config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, config.Config{}, model.WrapCLIError(model.ExitGeneralError,
			"failed to get current directory", err)
	}

	repoRoot, err := worktree.RepoRoot(cwd)
	if err != nil {
		return nil, config.Config{}, err
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, config.Config{}, err
	}

	return worktree.NewManager(repoRoot, cfg, newLogger(), nil), cfg, nil
}

// completeWorktreeNames is the shared cobra ValidArgsFunction for
// positional worktree-name arguments. It offers the repository's existing
// worktree names, filtered by the current prefix.
func completeWorktreeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	mgr, _, err := newManager()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names, err := mgr.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, toComplete) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
