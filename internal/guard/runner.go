package guard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// Runner is the external process-execution primitive. Tripwire only needs
// "run with this environment, tell me the exit code" — it never interprets
// the command's output.
type Runner interface {
	Run(ctx context.Context, command string, extraEnv []string) (exitCode int, err error)
}

// ShellRunner executes commands through `sh -c` with inherited stdio.
type ShellRunner struct {
	// Timeout bounds one hook command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is how long a delegated hook command may run.
const DefaultTimeout = 60 * time.Second

// Run executes the command. The child inherits this process's environment
// (including the hook context set just before delegation) plus extraEnv.
func (r ShellRunner) Run(ctx context.Context, command string, extraEnv []string) (int, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extraEnv...)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	return -1, err
}
