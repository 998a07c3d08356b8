package core

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner runs an external program to completion. The error return is
// reserved for failures to start it; a non-zero exit is reported through
// CommandResult.
type CommandRunner interface {
	Run(command string, args []string) (CommandResult, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(command string, args []string) (CommandResult, error) {
	cmd := exec.Command(command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if res.ExitCode == 0 {
				res.ExitCode = -1
			}
			return res, nil
		}
		return res, err
	}
	return res, nil
}

type CommandPrinter interface {
	Print(target, path, jobName string) error
}

type CommandOptions struct {
	// Binary overrides the program name or path.
	Binary string
	Runner CommandRunner
	Logger *zap.Logger
}

func (o CommandOptions) withDefaults(binary string) CommandOptions {
	if o.Binary == "" {
		o.Binary = binary
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// runPrintCommand executes a print utility and maps its outcome onto the
// failure taxonomy.
func runPrintCommand(opts CommandOptions, target string, args []string) error {
	opts.Logger.Debug("running print command",
		zap.String("command", opts.Binary),
		zap.Strings("args", args))

	res, err := opts.Runner.Run(opts.Binary, args)
	if err != nil {
		return toolFailure("launch "+opts.Binary, target, err.Error(), fmt.Errorf("%w: %w", ErrLaunchFailed, err))
	}
	if res.ExitCode != 0 {
		detail := res.Stderr
		if strings.TrimSpace(detail) == "" {
			detail = fmt.Sprintf("exit status %d", res.ExitCode)
		}
		opts.Logger.Warn("print command failed",
			zap.String("command", opts.Binary),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr))
		return toolFailure(opts.Binary, target, detail, fmt.Errorf("%w: %d", ErrNonZeroExit, res.ExitCode))
	}
	return nil
}

// LPCommand prints through the CUPS lp utility.
type LPCommand struct {
	opts CommandOptions
}

func NewLPCommand(opts CommandOptions) *LPCommand {
	return &LPCommand{opts: opts.withDefaults("lp")}
}

func (c *LPCommand) Args(target, path, jobName string) []string {
	args := []string{"-d", target}
	if jobName != "" {
		args = append(args, "-t", jobName)
	}
	return append(args, "--", path)
}

func (c *LPCommand) Print(target, path, jobName string) error {
	return runPrintCommand(c.opts, target, c.Args(target, path, jobName))
}

// ShellPrintCommand hands the document to the shell's PrintTo verb. The
// registered handler decides the job title, so jobName is not forwarded.
type ShellPrintCommand struct {
	opts CommandOptions
}

func NewShellPrintCommand(opts CommandOptions) *ShellPrintCommand {
	return &ShellPrintCommand{opts: opts.withDefaults("powershell.exe")}
}

func (c *ShellPrintCommand) Args(target, path, jobName string) []string {
	script := fmt.Sprintf(
		"Start-Process -FilePath %s -Verb PrintTo -ArgumentList %s -WindowStyle Hidden -Wait -ErrorAction Stop",
		psQuote(path), psQuote(`"`+target+`"`))
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

func (c *ShellPrintCommand) Print(target, path, jobName string) error {
	return runPrintCommand(c.opts, target, c.Args(target, path, jobName))
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var (
	_ CommandPrinter = (*LPCommand)(nil)
	_ CommandPrinter = (*ShellPrintCommand)(nil)
	_ CommandRunner  = ExecRunner{}
)
