package worktree

import "strings"

// coAuthorPrefix marks commit-message trailer lines that attribute partial
// authorship. The match is case-sensitive: this is the conventional
// spelling that tooling emits, and stripping must not guess at variants.
const coAuthorPrefix = "Co-Authored-By:"

// StripCoAuthors removes all Co-Authored-By trailer lines from a commit
// message, leaving every other line — including the subject — intact.
//
// This is a pure string transform, independent of merge mechanics. It is
// applied once, after message resolution and before any commit, and only
// when the message was derived with --use-latest-msg and the strip
// preference is active.
func StripCoAuthors(message string) string {
	lines := strings.Split(message, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), coAuthorPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}
