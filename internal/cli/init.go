// Package cli — init.go implements the "wts init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/config"
	"github.com/vrachev/wts/internal/worktree"
)

// NewInitCommand creates the "init" cobra command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize wts configuration",
		Long: `Create a config file with default values. You can choose between:

  - Local:   personal settings in .wts/settings.local.yaml (gitignored)
  - Project: shared settings in .wts/settings.yaml (tracked in git)`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Reinitialize even if config exists")

	return cmd
}

func runInit(force bool) error {
	// Config may be created outside a repository too; project-level
	// placement just isn't offered there.
	repoRoot := ""
	if cwd, err := os.Getwd(); err == nil {
		if root, err := worktree.RepoRoot(cwd); err == nil {
			repoRoot = root
		}
	}

	if !force && config.Exists(repoRoot) {
		fmt.Println("wts is already initialized. Use --force to reinitialize.")
		return nil
	}

	local := true
	if repoRoot != "" {
		local = promptConfigLocation()
	}

	path, err := config.CreateDefault(repoRoot, local)
	if err != nil {
		return err
	}
	fmt.Printf("Created config at %s\n", path)
	return nil
}

// promptConfigLocation asks whether settings are personal or shared.
// Defaults to local on empty or unrecognized input.
func promptConfigLocation() bool {
	fmt.Println("Where should wts store configuration?")
	fmt.Println("  [1] Local (personal settings in .wts/settings.local.yaml, gitignored)")
	fmt.Println("  [2] Project (shared settings in .wts/settings.yaml, tracked in git)")
	fmt.Print("Choice [1]: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return true
	}
	return strings.TrimSpace(answer) != "2"
}
