package core

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLPCommand_Args(t *testing.T) {
	c := NewLPCommand(CommandOptions{})

	assert.Equal(t,
		[]string{"-d", "Office-LaserJet", "-t", "Quarterly", "--", "/tmp/report.pdf"},
		c.Args("Office-LaserJet", "/tmp/report.pdf", "Quarterly"))
	assert.Equal(t,
		[]string{"-d", "Office-LaserJet", "--", "/tmp/report.pdf"},
		c.Args("Office-LaserJet", "/tmp/report.pdf", ""))
}

func TestShellPrintCommand_Args(t *testing.T) {
	c := NewShellPrintCommand(CommandOptions{})

	args := c.Args("Office-LaserJet", `C:\docs\it's.pdf`, "ignored")
	require.Len(t, args, 4)
	assert.Equal(t, "-Command", args[2])
	assert.Contains(t, args[3], `-FilePath 'C:\docs\it''s.pdf'`)
	assert.Contains(t, args[3], `-ArgumentList '"Office-LaserJet"'`)
	assert.Contains(t, args[3], "-Verb PrintTo")
	assert.Contains(t, args[3], "-WindowStyle Hidden")
	assert.NotContains(t, args[3], "ignored")
}

func TestLPCommand_Print(t *testing.T) {
	tests := []struct {
		name      string
		runner    *fakeRunner
		wantErr   error
		wantInMsg string
	}{
		{
			name:   "zero exit",
			runner: &fakeRunner{},
		},
		{
			name:      "non-zero exit keeps stderr",
			runner:    &fakeRunner{result: CommandResult{ExitCode: 1, Stderr: "lp: The printer or class does not exist.\n"}},
			wantErr:   ErrNonZeroExit,
			wantInMsg: "lp: The printer or class does not exist.",
		},
		{
			name:      "non-zero exit without stderr",
			runner:    &fakeRunner{result: CommandResult{ExitCode: 4}},
			wantErr:   ErrNonZeroExit,
			wantInMsg: "exit status 4",
		},
		{
			name:      "launch failure",
			runner:    &fakeRunner{err: exec.ErrNotFound},
			wantErr:   ErrLaunchFailed,
			wantInMsg: "executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLPCommand(CommandOptions{Binary: "/usr/bin/lp", Runner: tt.runner})

			err := c.Print("Office-LaserJet", "/tmp/a.pdf", "job")
			assert.Equal(t, "/usr/bin/lp", tt.runner.command)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsExternalToolFailure(err))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantInMsg)
		})
	}
}

func TestLaunchAndExitFailuresAreDistinct(t *testing.T) {
	launch := NewLPCommand(CommandOptions{Runner: &fakeRunner{err: errors.New("permission denied")}}).
		Print("p", "/tmp/a.pdf", "")
	exit := NewLPCommand(CommandOptions{Runner: &fakeRunner{result: CommandResult{ExitCode: 2}}}).
		Print("p", "/tmp/a.pdf", "")

	assert.ErrorIs(t, launch, ErrLaunchFailed)
	assert.NotErrorIs(t, launch, ErrNonZeroExit)
	assert.ErrorIs(t, exit, ErrNonZeroExit)
	assert.NotErrorIs(t, exit, ErrLaunchFailed)
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	r := ExecRunner{}

	res, err := r.Run("sh", []string{"-c", "echo out; echo oops >&2; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "oops\n", res.Stderr)

	res, err = r.Run("sh", []string{"-c", "true"})
	require.NoError(t, err)
	assert.Zero(t, res.ExitCode)

	_, err = r.Run("printbridge-no-such-tool", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
