// Package cli — config.go implements the "wts config" command group for
// inspecting and editing settings.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vrachev/wts/internal/config"
	"github.com/vrachev/wts/internal/model"
)

// configKeys lists the settable keys with their descriptions, in display
// order. This doubles as the schema shown by `wts config list`.
var configKeys = []struct {
	key  string
	desc string
}{
	{"worktree_base", "Base directory for storing worktrees"},
	{"default_branch", "Branch new worktrees start from and merge into"},
	{"editor", "Default editor (cursor, code, zed, subl, claude)"},
	{"terminal", "Terminal override (iterm2, terminal, tmux, warp, none)"},
	{"terminal_mode", "Terminal mode (split, tab, cd)"},
	{"terminal_split", "Split direction (vertical, horizontal)"},
	{"no_coauthor", "Strip Co-Authored-By trailers from derived messages"},
}

// NewConfigCommand creates the "config" cobra command with its
// list/get/set subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit wts configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig()
			if err != nil {
				return err
			}
			for _, k := range configKeys {
				fmt.Printf("%-15s %-10s # %s\n", k.key, getKey(cfg, k.key), k.desc)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig()
			if err != nil {
				return err
			}
			value := getKey(cfg, args[0])
			if value == "" && !isKnownKey(args[0]) {
				return unknownKeyError(args[0])
			}
			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value in the global config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	})

	return cmd
}

// loadEffectiveConfig loads configuration relative to the current
// repository when inside one, falling back to global-only outside.
func loadEffectiveConfig() (config.Config, error) {
	mgr, cfg, err := newManager()
	if err == nil && mgr != nil {
		return cfg, nil
	}
	// Outside a repository: global + env layers still apply.
	return config.Load("")
}

func isKnownKey(key string) bool {
	for _, k := range configKeys {
		if k.key == key {
			return true
		}
	}
	return false
}

func unknownKeyError(key string) error {
	return model.NewCLIError(model.ExitConfigError,
		fmt.Sprintf("unknown config key %q (run 'wts config list' for available keys)", key))
}

// getKey returns a config field by its settings-file key name.
func getKey(cfg config.Config, key string) string {
	switch key {
	case "worktree_base":
		return cfg.WorktreeBase
	case "default_branch":
		return cfg.DefaultBranch
	case "editor":
		return cfg.Editor
	case "terminal":
		return cfg.Terminal
	case "terminal_mode":
		return cfg.TerminalMode
	case "terminal_split":
		return cfg.TerminalSplit
	case "no_coauthor":
		return strconv.FormatBool(cfg.NoCoAuthor)
	}
	return ""
}

// runConfigSet updates one key in the global config file. The global file
// is read fresh (not the layered view) so project and env overrides are
// never accidentally baked into it.
func runConfigSet(key, value string) error {
	if !isKnownKey(key) {
		return unknownKeyError(key)
	}

	cfg, err := config.LoadGlobal()
	if err != nil {
		return err
	}

	switch key {
	case "worktree_base":
		cfg.WorktreeBase = value
	case "default_branch":
		cfg.DefaultBranch = value
	case "editor":
		cfg.Editor = value
	case "terminal":
		cfg.Terminal = value
	case "terminal_mode":
		cfg.TerminalMode = value
	case "terminal_split":
		cfg.TerminalSplit = value
	case "no_coauthor":
		b, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("invalid boolean %q for no_coauthor", value))
		}
		cfg.NoCoAuthor = b
	}

	if err := cfg.Save(config.GlobalPath()); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
