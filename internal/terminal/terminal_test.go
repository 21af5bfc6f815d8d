package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"iterm2", "terminal", "tmux", "warp", "none"} {
		b, err := ParseBackend(name)
		require.NoError(t, err)
		assert.Equal(t, Backend(name), b)
	}

	b, err := ParseBackend("iTerm2")
	require.NoError(t, err)
	assert.Equal(t, ITerm2, b)

	_, err = ParseBackend("alacritty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown terminal "alacritty"`)
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"split", "tab", "cd"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, Mode(name), m)
	}

	_, err := ParseMode("window")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown terminal mode "window"`)
}

func TestParseSplit(t *testing.T) {
	s, err := ParseSplit("horizontal")
	require.NoError(t, err)
	assert.Equal(t, Horizontal, s)

	_, err = ParseSplit("diagonal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown split direction "diagonal"`)
}

func TestDetect(t *testing.T) {
	// Pin the environment so ambient terminal variables cannot leak in.
	t.Setenv("WTS_TERMINAL", "")
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("TMUX", "")

	// Explicit override wins unconditionally.
	b, err := Detect("tmux")
	require.NoError(t, err)
	assert.Equal(t, Tmux, b)

	_, err = Detect("bogus")
	require.Error(t, err)

	// WTS_TERMINAL beats TERM_PROGRAM.
	t.Setenv("WTS_TERMINAL", "warp")
	t.Setenv("TERM_PROGRAM", "iTerm.app")
	b, err = Detect("")
	require.NoError(t, err)
	assert.Equal(t, Warp, b)

	// TERM_PROGRAM detection.
	t.Setenv("WTS_TERMINAL", "")
	for termProgram, want := range map[string]Backend{
		"iTerm.app":      ITerm2,
		"WarpTerminal":   Warp,
		"Apple_Terminal": AppleTerminal,
	} {
		t.Setenv("TERM_PROGRAM", termProgram)
		b, err = Detect("")
		require.NoError(t, err)
		assert.Equal(t, want, b, "TERM_PROGRAM=%s", termProgram)
	}

	// Inside tmux with no TERM_PROGRAM signal.
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("TMUX", "/tmp/tmux-501/default,1234,0")
	b, err = Detect("")
	require.NoError(t, err)
	assert.Equal(t, Tmux, b)

	// Nothing recognizable: the macOS default.
	t.Setenv("TMUX", "")
	b, err = Detect("")
	require.NoError(t, err)
	assert.Equal(t, AppleTerminal, b)
}

func TestBuildShellCommand(t *testing.T) {
	assert.Equal(t, "cd /tmp/wt", buildShellCommand("/tmp/wt", "", ""))
	assert.Equal(t, "cd /tmp/wt && claude", buildShellCommand("/tmp/wt", "claude", ""))
	assert.Equal(t, "cd /tmp/wt && sh /repo/.wts/init.sh",
		buildShellCommand("/tmp/wt", "", "/repo/.wts/init.sh"))
	// Init script runs before the command so setup completes first.
	assert.Equal(t, "cd /tmp/wt && sh /repo/.wts/init.sh && claude",
		buildShellCommand("/tmp/wt", "claude", "/repo/.wts/init.sh"))
}

func TestITerm2Script(t *testing.T) {
	split := Opener{Backend: ITerm2, Mode: ModeSplit, Split: Vertical}.iterm2Script("cd /tmp/wt")
	assert.Contains(t, split, "split vertically")
	assert.Contains(t, split, `write text "cd /tmp/wt"`)

	horizontal := Opener{Backend: ITerm2, Mode: ModeSplit, Split: Horizontal}.iterm2Script("cd /tmp/wt")
	assert.Contains(t, horizontal, "split horizontally")

	tab := Opener{Backend: ITerm2, Mode: ModeTab}.iterm2Script("cd /tmp/wt")
	assert.Contains(t, tab, "create tab with default profile")

	cd := Opener{Backend: ITerm2, Mode: ModeCD}.iterm2Script("cd /tmp/wt")
	assert.Contains(t, cd, "current session of current window")
	assert.NotContains(t, cd, "split")
}

func TestAppleTerminalScript(t *testing.T) {
	// Terminal.app cannot split; split mode degrades to a new window.
	window := Opener{Backend: AppleTerminal, Mode: ModeSplit}.appleTerminalScript("cd /tmp/wt")
	assert.Contains(t, window, "activate")
	assert.Contains(t, window, `do script "cd /tmp/wt"`)

	cd := Opener{Backend: AppleTerminal, Mode: ModeCD}.appleTerminalScript("cd /tmp/wt")
	assert.Contains(t, cd, "in front window")
}

// TestOpenNoneIsNoop guards the disabled backend: no subprocess, no error.
func TestOpenNoneIsNoop(t *testing.T) {
	err := Opener{Backend: None, Mode: ModeSplit, Split: Vertical}.Open("/tmp/wt", "claude", "")
	assert.NoError(t, err)
}
