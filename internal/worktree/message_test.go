package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCoAuthors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no trailers",
			input: "Add feature\n\nSome body text.",
			want:  "Add feature\n\nSome body text.",
		},
		{
			name:  "single trailer",
			input: "Add feature\n\nCo-Authored-By: Pat Doe <pat@example.com>",
			want:  "Add feature",
		},
		{
			name:  "multiple trailers",
			input: "Add feature\n\nBody.\n\nCo-Authored-By: Pat Doe <pat@example.com>\nCo-Authored-By: Sam Roe <sam@example.com>",
			want:  "Add feature\n\nBody.",
		},
		{
			name:  "indented trailer",
			input: "Add feature\n\n  Co-Authored-By: Pat Doe <pat@example.com>",
			want:  "Add feature",
		},
		{
			name: "body line mentioning trailers survives",
			// The prefix match is anchored to the start of the line, so prose
			// that merely mentions the trailer stays.
			input: "Add feature\n\nSee the Co-Authored-By: convention for details.",
			want:  "Add feature\n\nSee the Co-Authored-By: convention for details.",
		},
		{
			name:  "lowercase variant not stripped",
			input: "Add feature\n\nco-authored-by: Pat Doe <pat@example.com>",
			want:  "Add feature\n\nco-authored-by: Pat Doe <pat@example.com>",
		},
		{
			name:  "only trailers",
			input: "Co-Authored-By: Pat Doe <pat@example.com>",
			want:  "",
		},
		{
			name:  "trailing newlines trimmed",
			input: "Add feature\nCo-Authored-By: Pat Doe <pat@example.com>\n",
			want:  "Add feature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCoAuthors(tt.input))
		})
	}
}
