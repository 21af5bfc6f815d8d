// Package terminal opens a terminal pane, tab, or window at a worktree
// path on macOS, with tmux support for remote/terminal-multiplexed setups.
//
// Backends are a closed enum detected from the environment (or overridden
// via config); modes and split directions are enums too, so configuration
// typos surface as parse errors rather than silently falling back.
package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vrachev/wts/internal/model"
)

// Backend identifies a terminal application.
type Backend string

const (
	ITerm2        Backend = "iterm2"
	AppleTerminal Backend = "terminal"
	Tmux          Backend = "tmux"
	Warp          Backend = "warp"
	// None disables terminal opening entirely.
	None Backend = "none"
)

// Mode selects how the new shell is presented.
type Mode string

const (
	// ModeSplit opens a new split pane (default).
	ModeSplit Mode = "split"
	// ModeTab opens a new tab or window.
	ModeTab Mode = "tab"
	// ModeCD changes directory in the current session, nothing new opened.
	ModeCD Mode = "cd"
)

// Split is the pane split direction for ModeSplit.
type Split string

const (
	Vertical   Split = "vertical"
	Horizontal Split = "horizontal"
)

// ParseBackend converts a backend name to a Backend, rejecting unknown names.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(name))
	switch b {
	case ITerm2, AppleTerminal, Tmux, Warp, None:
		return b, nil
	}
	return None, model.NewCLIError(model.ExitEditorError,
		fmt.Sprintf("unknown terminal %q (supported: iterm2, terminal, tmux, warp, none)", name))
}

// ParseMode converts a mode name to a Mode, rejecting unknown names.
func ParseMode(name string) (Mode, error) {
	m := Mode(strings.ToLower(name))
	switch m {
	case ModeSplit, ModeTab, ModeCD:
		return m, nil
	}
	return ModeSplit, model.NewCLIError(model.ExitEditorError,
		fmt.Sprintf("unknown terminal mode %q (supported: split, tab, cd)", name))
}

// ParseSplit converts a split direction name to a Split.
func ParseSplit(name string) (Split, error) {
	s := Split(strings.ToLower(name))
	switch s {
	case Vertical, Horizontal:
		return s, nil
	}
	return Vertical, model.NewCLIError(model.ExitEditorError,
		fmt.Sprintf("unknown split direction %q (supported: vertical, horizontal)", name))
}

// Detect picks the terminal backend. An explicit override (config or
// WTS_TERMINAL) wins; otherwise the surrounding environment decides, with
// Apple Terminal as the macOS fallback.
func Detect(override string) (Backend, error) {
	if override != "" {
		return ParseBackend(override)
	}
	if v := os.Getenv("WTS_TERMINAL"); v != "" {
		return ParseBackend(v)
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app":
		return ITerm2, nil
	case "WarpTerminal":
		return Warp, nil
	case "Apple_Terminal":
		return AppleTerminal, nil
	}
	if os.Getenv("TMUX") != "" {
		return Tmux, nil
	}
	return AppleTerminal, nil
}

// Opener opens terminals according to one resolved policy (backend, mode,
// split direction).
type Opener struct {
	Backend Backend
	Mode    Mode
	Split   Split
}

// Open opens a terminal at path. If command is non-empty it is typed into
// the new shell after the cd (e.g. "claude" for a terminal-based editor);
// if initScript is non-empty it runs before the command, so worktree setup
// output lands in the terminal the user will actually work in.
func (o Opener) Open(path, command, initScript string) error {
	if o.Backend == None {
		return nil
	}

	shellCmd := buildShellCommand(path, command, initScript)

	switch o.Backend {
	case Tmux:
		return o.openTmux(path, shellCmd)
	case ITerm2:
		return runOsascript(o.iterm2Script(shellCmd))
	case Warp:
		// Warp has no scripting API for splits; open a new window at path.
		return runCommand("open", "-a", "Warp", path)
	default:
		return runOsascript(o.appleTerminalScript(shellCmd))
	}
}

// buildShellCommand assembles the line typed into the new shell:
// cd, optional init script, optional command, in that order.
func buildShellCommand(path, command, initScript string) string {
	parts := []string{fmt.Sprintf("cd %s", path)}
	if initScript != "" {
		parts = append(parts, fmt.Sprintf("sh %s", initScript))
	}
	if command != "" {
		parts = append(parts, command)
	}
	return strings.Join(parts, " && ")
}

func (o Opener) openTmux(path, shellCmd string) error {
	switch o.Mode {
	case ModeCD:
		return runCommand("tmux", "send-keys", shellCmd, "Enter")
	case ModeTab:
		if err := runCommand("tmux", "new-window", "-c", path); err != nil {
			return err
		}
		return runCommand("tmux", "send-keys", shellCmd, "Enter")
	default:
		// tmux -h makes side-by-side panes, which users call a vertical
		// split. The flag is flipped on purpose to match that expectation.
		flag := "-h"
		if o.Split == Horizontal {
			flag = "-v"
		}
		if err := runCommand("tmux", "split-window", flag, "-c", path); err != nil {
			return err
		}
		return runCommand("tmux", "send-keys", shellCmd, "Enter")
	}
}

// iterm2Script builds the AppleScript for iTerm2 in the configured mode.
func (o Opener) iterm2Script(shellCmd string) string {
	switch o.Mode {
	case ModeCD:
		return fmt.Sprintf(`tell application "iTerm2"
    tell current session of current window
        write text "%s"
    end tell
end tell`, shellCmd)
	case ModeTab:
		return fmt.Sprintf(`tell application "iTerm2"
    tell current window
        create tab with default profile
        tell current session
            write text "%s"
        end tell
    end tell
end tell`, shellCmd)
	default:
		splitCmd := "split vertically"
		if o.Split == Horizontal {
			splitCmd = "split horizontally"
		}
		return fmt.Sprintf(`tell application "iTerm2"
    tell current session of current window
        set newSession to (%s with default profile)
    end tell
    tell newSession
        write text "%s"
    end tell
end tell`, splitCmd, shellCmd)
	}
}

// appleTerminalScript builds the AppleScript for Terminal.app. It has no
// split support, so split and tab both open a new window.
func (o Opener) appleTerminalScript(shellCmd string) string {
	if o.Mode == ModeCD {
		return fmt.Sprintf(`tell application "Terminal"
    do script "%s" in front window
end tell`, shellCmd)
	}
	return fmt.Sprintf(`tell application "Terminal"
    activate
    do script "%s"
end tell`, shellCmd)
}

func runOsascript(script string) error {
	return runCommand("osascript", "-e", script)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return model.WrapCLIError(model.ExitEditorError,
			fmt.Sprintf("failed to open terminal: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}
