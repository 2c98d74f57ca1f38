package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func execCompletion(shell string) (string, error) {
	stdout := new(bytes.Buffer)
	cmd := newCompletionGenerateCmd()
	cmd.SetOut(stdout)
	err := runCompletion(cmd, shell)
	return stdout.String(), err
}

func TestCompletionShells(t *testing.T) {
	for _, shell := range validShells {
		t.Run(shell, func(t *testing.T) {
			stdout, err := execCompletion(shell)
			assert.NoError(t, err)
			assert.NotEmpty(t, stdout)
		})
	}
}

func TestCompletionInvalidShell(t *testing.T) {
	_, err := execCompletion("invalid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell: invalid")
}

func TestCompletionAutoDetect(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	stdout := new(bytes.Buffer)
	cmd := newCompletionGenerateCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.NoError(t, err)
	assert.NotEmpty(t, stdout.String())
}

func TestCompletionAutoDetectUnknown(t *testing.T) {
	t.Setenv("SHELL", "/bin/csh")
	stdout := new(bytes.Buffer)
	cmd := newCompletionGenerateCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not detect shell")
}

func TestCompletionRegistered(t *testing.T) {
	var completion *cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "completion" {
			completion = cmd
		}
	}
	if assert.NotNil(t, completion) {
		assert.Len(t, completion.Commands(), 1)
		assert.Equal(t, "generate", completion.Commands()[0].Name())
	}
}

func TestCompleteParty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got, directive := completeParty(addCmd, nil, "")

	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.ElementsMatch(t, []string{"A", "B", "M", "E"}, got)

	got, _ = completeParty(addCmd, []string{"A"}, "")
	assert.Empty(t, got)
}
