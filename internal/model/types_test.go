package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateWorktreeName verifies the name rule: alphanumerics, hyphens,
// and underscores only, with slash and space called out specifically.
func TestValidateWorktreeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantIn  string
	}{
		{"simple name", "feature-auth", false, ""},
		{"underscores", "feature_auth", false, ""},
		{"digits", "bugfix-123", false, ""},
		{"mixed case", "Feature-Auth", false, ""},
		{"single char", "x", false, ""},
		{"slash", "foo/bar", true, "cannot contain '/'"},
		{"space", "foo bar", true, "cannot contain spaces"},
		{"dot", "foo.bar", true, "alphanumeric"},
		{"colon", "foo:bar", true, "alphanumeric"},
		{"empty", "", true, "alphanumeric"},
		{"unicode", "fëature", true, "alphanumeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorktreeName(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid worktree name")
			assert.Contains(t, err.Error(), tt.wantIn)

			var cliErr *CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, ExitInvalidName, cliErr.Code)
		})
	}
}

// TestMergeRequestValidate checks the message mutual-exclusivity rule:
// squash mode needs exactly one message source, preserve-commits none.
func TestMergeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     MergeRequest
		wantErr string
	}{
		{
			name: "squash with explicit message",
			req:  MergeRequest{Name: "wt", Message: "Add feature", Squash: true},
		},
		{
			name: "squash with use-latest-msg",
			req:  MergeRequest{Name: "wt", UseLatestMsg: true, Squash: true},
		},
		{
			name:    "squash with both",
			req:     MergeRequest{Name: "wt", Message: "Add feature", UseLatestMsg: true, Squash: true},
			wantErr: "cannot specify both",
		},
		{
			name:    "squash with neither",
			req:     MergeRequest{Name: "wt", Squash: true},
			wantErr: "must specify either",
		},
		{
			name: "preserve-commits needs no message",
			req:  MergeRequest{Name: "wt", Squash: false},
		},
		{
			name:    "invalid name checked first",
			req:     MergeRequest{Name: "foo/bar", Message: "m", Squash: true},
			wantErr: "invalid worktree name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestCLIError verifies message formatting, unwrapping, and that warnings
// ride along without altering the error text.
func TestCLIError(t *testing.T) {
	plain := NewCLIError(ExitWorktreeNotFound, "worktree \"x\" not found")
	assert.Equal(t, "worktree \"x\" not found", plain.Error())
	assert.Nil(t, plain.Unwrap())

	underlying := fmt.Errorf("exit status 128")
	wrapped := WrapCLIError(ExitGitError, "git failed", underlying)
	assert.Equal(t, "git failed: exit status 128", wrapped.Error())
	assert.True(t, errors.Is(wrapped, underlying))

	withWarnings := &CLIError{
		Code:     ExitMergeConflict,
		Message:  "merge failed",
		Warnings: []string{"recovery: failed to abort in-progress merge"},
	}
	assert.Equal(t, "merge failed", withWarnings.Error())
	assert.Len(t, withWarnings.Warnings, 1)
}

// TestExitCodesDistinct guards against two error kinds collapsing onto the
// same exit code, which would break scripts that branch on the outcome.
func TestExitCodesDistinct(t *testing.T) {
	codes := []ExitCode{
		ExitSuccess, ExitGeneralError, ExitInvalidName, ExitWorktreeExists,
		ExitWorktreeNotFound, ExitWorktreeNotClean, ExitRepoNotClean,
		ExitMergeConflict, ExitGitError, ExitConfigError, ExitEditorError,
		ExitUserCancelled,
	}
	seen := make(map[ExitCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
}
