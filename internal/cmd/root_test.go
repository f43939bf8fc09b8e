package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "dirwatcher <directory>")
	assert.Contains(t, output, "SIGTERM")
	for _, flag := range []string{"--config", "--interval", "--marker", "--regex", "--log-file", "--log-level", "--quiet"} {
		assert.Contains(t, output, flag)
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := NewRootCommand()

	quiet := cmd.Flags().Lookup("quiet")
	require.NotNil(t, quiet)
	assert.Equal(t, "q", quiet.Shorthand)
	assert.Equal(t, "false", quiet.DefValue)

	regex := cmd.Flags().Lookup("regex")
	require.NotNil(t, regex)
	assert.Equal(t, "false", regex.DefValue)
}

func TestRootCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{}},
		{"two arguments", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUsage))

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 1, exitErr.Code)
			assert.False(t, exitErr.Reported)

			assert.True(t, strings.Contains(buf.String(), "Usage:"), "usage should be printed, got %q", buf.String())
		})
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), Version)
}
