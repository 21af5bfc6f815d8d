// Package editor launches the user's editor on a worktree directory.
//
// Editors are a closed enum rather than a string-keyed lookup: an unknown
// editor name is a parse-time error listing the supported values, not a
// late dictionary miss. Each editor carries a capability flag saying
// whether it runs inside a terminal (claude) or as a GUI application
// (everything else) — the create command uses that flag to decide where
// the init script runs.
package editor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/vrachev/wts/internal/model"
)

// Kind identifies a supported editor.
type Kind string

const (
	Cursor  Kind = "cursor"
	Code    Kind = "code"
	Zed     Kind = "zed"
	Subl    Kind = "subl"
	Claude  Kind = "claude"
	Unknown Kind = ""
)

// kinds lists every supported editor, in the order help text shows them.
var kinds = []Kind{Cursor, Code, Zed, Subl, Claude}

// String returns the editor's command name.
func (k Kind) String() string {
	return string(k)
}

// TerminalBased reports whether the editor runs inside a terminal session
// rather than as a GUI application. Terminal-based editors get a new
// terminal opened for them, and the init script runs there too.
func (k Kind) TerminalBased() bool {
	return k == Claude
}

// Parse converts an editor name into a Kind. Unknown names fail
// immediately with the list of supported editors.
func Parse(name string) (Kind, error) {
	k := Kind(strings.ToLower(name))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	supported := make([]string, len(kinds))
	for i, known := range kinds {
		supported[i] = known.String()
	}
	return Unknown, model.NewCLIError(model.ExitEditorError,
		fmt.Sprintf("unknown editor %q (supported: %s)", name, strings.Join(supported, ", ")))
}

// Resolve picks the editor to use: the explicit override when given,
// otherwise the configured default. An empty result with no override is an
// error — the user has to tell us what to open things with.
func Resolve(override, configured string) (Kind, error) {
	name := override
	if name == "" {
		name = configured
	}
	if name == "" {
		return Unknown, model.NewCLIError(model.ExitEditorError,
			"no editor configured; set WTS_EDITOR, add 'editor' to your config, or pass --editor=<name>")
	}
	return Parse(name)
}

// Open launches the editor on the given path. GUI editors open and return
// immediately; Claude is terminal-based and is not launched here — the
// caller opens a terminal running it instead.
func (k Kind) Open(path string) error {
	cmd := exec.Command(k.String(), path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return model.WrapCLIError(model.ExitEditorError,
			fmt.Sprintf("failed to open %s: %s", k, strings.TrimSpace(string(out))), err)
	}
	return nil
}
