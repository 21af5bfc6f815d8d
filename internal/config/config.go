// Package config loads and persists wts configuration.
//
// Configuration is layered, later layers overriding earlier ones:
//
//	built-in defaults
//	→ global file   (~/.config/wts/config.yaml)
//	→ project file  (.wts/settings.yaml, tracked in git)
//	→ local file    (.wts/settings.local.yaml, gitignored)
//	→ environment   (WTS_* variables)
//
// Files may be YAML or JSON-with-comments: the .json/.jsonc variants are
// stripped of comments via github.com/tidwall/jsonc before parsing. Since
// JSON is a subset of YAML, both formats go through the same unmarshal.
//
// There is no module-level singleton: Load constructs an explicit Config
// value once per invocation and callers pass it down. This keeps tests
// independent and makes the merge retry logic easy to reason about.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vrachev/wts/internal/model"
)

// Config holds all wts settings for one invocation.
type Config struct {
	// WorktreeBase is the directory under which worktrees are created,
	// namespaced per repository: <WorktreeBase>/<repo-name>/<worktree-name>.
	WorktreeBase string

	// DefaultBranch is the branch that new worktrees branch from and that
	// `wts complete` merges into unless --into overrides it.
	DefaultBranch string

	// Editor is the default editor name (cursor, code, zed, subl, claude).
	// Empty means no editor configured.
	Editor string

	// Terminal overrides terminal auto-detection
	// (iterm2, terminal, tmux, warp, none). Empty means auto-detect.
	Terminal string

	// TerminalMode is how a new terminal is opened: split, tab, or cd.
	TerminalMode string

	// TerminalSplit is the split direction: vertical or horizontal.
	TerminalSplit string

	// NoCoAuthor strips Co-Authored-By trailers from commit messages
	// derived with --use-latest-msg. Defaults to true.
	NoCoAuthor bool
}

// fileConfig mirrors Config for (de)serialization. Fields are pointers so
// a file can set a value without clobbering settings from earlier layers.
type fileConfig struct {
	WorktreeBase  *string `yaml:"worktree_base,omitempty" json:"worktree_base,omitempty"`
	DefaultBranch *string `yaml:"default_branch,omitempty" json:"default_branch,omitempty"`
	Editor        *string `yaml:"editor,omitempty" json:"editor,omitempty"`
	Terminal      *string `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	TerminalMode  *string `yaml:"terminal_mode,omitempty" json:"terminal_mode,omitempty"`
	TerminalSplit *string `yaml:"terminal_split,omitempty" json:"terminal_split,omitempty"`
	NoCoAuthor    *bool   `yaml:"no_coauthor,omitempty" json:"no_coauthor,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		WorktreeBase:  filepath.Join(home, "github", "worktrees"),
		DefaultBranch: "main",
		TerminalMode:  "split",
		TerminalSplit: "vertical",
		NoCoAuthor:    true,
	}
}

// GlobalPath returns the location of the per-user config file.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "wts", "config.yaml")
}

// projectCandidates lists the project-level settings files checked under
// <repoRoot>/.wts/, in load order. The local variant loads after the shared
// one so personal settings win.
func projectCandidates(repoRoot string, local bool) []string {
	dir := filepath.Join(repoRoot, ".wts")
	if local {
		return []string{
			filepath.Join(dir, "settings.local.yaml"),
			filepath.Join(dir, "settings.local.json"),
			filepath.Join(dir, "settings.local.jsonc"),
		}
	}
	return []string{
		filepath.Join(dir, "settings.yaml"),
		filepath.Join(dir, "settings.json"),
		filepath.Join(dir, "settings.jsonc"),
	}
}

// Load builds the effective configuration for a repository. repoRoot may be
// empty, in which case project-level files are skipped (e.g. when running
// outside a repository).
func Load(repoRoot string) (Config, error) {
	cfg := Default()

	layers := []string{GlobalPath()}
	if repoRoot != "" {
		layers = append(layers, projectCandidates(repoRoot, false)...)
		layers = append(layers, projectCandidates(repoRoot, true)...)
	}

	for _, path := range layers {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadGlobal reads only the global file over the defaults, with no project
// or environment layers. Used when editing the global file in place, so
// transient overrides never get baked into it.
func LoadGlobal() (Config, error) {
	cfg := Default()
	err := applyFile(&cfg, GlobalPath())
	return cfg, err
}

// applyFile merges one settings file into cfg. A missing file is not an
// error; a malformed one is.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	// JSONC files carry comments that the YAML parser would choke on.
	// Strip them first; plain JSON passes through jsonc.ToJSON unchanged.
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || ext == ".jsonc" {
		data = jsonc.ToJSON(data)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if fc.WorktreeBase != nil {
		cfg.WorktreeBase = expandHome(*fc.WorktreeBase)
	}
	if fc.DefaultBranch != nil {
		cfg.DefaultBranch = *fc.DefaultBranch
	}
	if fc.Editor != nil {
		cfg.Editor = *fc.Editor
	}
	if fc.Terminal != nil {
		cfg.Terminal = *fc.Terminal
	}
	if fc.TerminalMode != nil {
		cfg.TerminalMode = *fc.TerminalMode
	}
	if fc.TerminalSplit != nil {
		cfg.TerminalSplit = *fc.TerminalSplit
	}
	if fc.NoCoAuthor != nil {
		cfg.NoCoAuthor = *fc.NoCoAuthor
	}
	return nil
}

// applyEnv overlays WTS_* environment variables, the final layer.
func applyEnv(cfg *Config) {
	if v := os.Getenv("WTS_WORKTREE_BASE"); v != "" {
		cfg.WorktreeBase = expandHome(v)
	}
	if v := os.Getenv("WTS_DEFAULT_BRANCH"); v != "" {
		cfg.DefaultBranch = v
	}
	if v := os.Getenv("WTS_EDITOR"); v != "" {
		cfg.Editor = v
	}
	if v := os.Getenv("WTS_TERMINAL"); v != "" {
		cfg.Terminal = v
	}
	if v := os.Getenv("WTS_TERMINAL_MODE"); v != "" {
		cfg.TerminalMode = v
	}
	if v := os.Getenv("WTS_TERMINAL_SPLIT"); v != "" {
		cfg.TerminalSplit = v
	}
	if v := os.Getenv("WTS_NO_COAUTHOR"); v != "" {
		cfg.NoCoAuthor = v == "1" || strings.EqualFold(v, "true")
	}
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}

// Save writes cfg to path as YAML, creating parent directories as needed.
// Only values differing from the defaults are written, so files stay small
// and future default changes apply to untouched settings.
func (c Config) Save(path string) error {
	def := Default()
	fc := fileConfig{}
	if c.WorktreeBase != def.WorktreeBase {
		fc.WorktreeBase = &c.WorktreeBase
	}
	if c.DefaultBranch != def.DefaultBranch {
		fc.DefaultBranch = &c.DefaultBranch
	}
	if c.Editor != "" {
		fc.Editor = &c.Editor
	}
	if c.Terminal != "" {
		fc.Terminal = &c.Terminal
	}
	if c.TerminalMode != def.TerminalMode {
		fc.TerminalMode = &c.TerminalMode
	}
	if c.TerminalSplit != def.TerminalSplit {
		fc.TerminalSplit = &c.TerminalSplit
	}
	if c.NoCoAuthor != def.NoCoAuthor {
		fc.NoCoAuthor = &c.NoCoAuthor
	}

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "failed to serialize config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to create config directory %s", filepath.Dir(path)), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to write config file %s", path), err)
	}
	return nil
}

// Exists reports whether any configuration file is present, global or
// project-level. Used by `wts init` and the auto-init check.
func Exists(repoRoot string) bool {
	paths := []string{GlobalPath()}
	if repoRoot != "" {
		paths = append(paths, projectCandidates(repoRoot, false)...)
		paths = append(paths, projectCandidates(repoRoot, true)...)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// CreateDefault writes a default config file and returns its path.
// When local is true the file goes to .wts/settings.local.yaml under
// repoRoot (personal settings, gitignored); otherwise to .wts/settings.yaml
// (shared settings, tracked in git). Outside a repository the global
// location is used.
func CreateDefault(repoRoot string, local bool) (string, error) {
	path := GlobalPath()
	if repoRoot != "" {
		name := "settings.yaml"
		if local {
			name = "settings.local.yaml"
		}
		path = filepath.Join(repoRoot, ".wts", name)
	}
	if err := Default().Save(path); err != nil {
		return "", err
	}
	return path, nil
}
