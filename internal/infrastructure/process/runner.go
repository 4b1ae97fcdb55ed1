package process

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"ccswitch.dev/cli/internal/core/domain"
)

// Runner spawns external commands with the terminal attached and an optional
// set of extra environment variables layered over the parent environment.
// The environment is captured at spawn time so exports performed between
// construction and Run are inherited.
type Runner struct{}

// NewRunner creates a runner inheriting the current process environment.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts the command, waits for it to exit, and returns its exit code. A
// non-zero exit is reported through the code, not the error; the error is
// reserved for failures to start the process at all.
func (r *Runner) Run(ctx context.Context, name string, args []string, env []domain.EnvAssignment) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = r.buildEnvironment(env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to start %s: %w", name, err)
	}

	return 0, nil
}

// LookPath resolves a command name against PATH, falling back to the bare
// name so the OS gets the final say at spawn time.
func (r *Runner) LookPath(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

// buildEnvironment layers the assignments over the current environment.
// Later entries win, which matches os/exec semantics for duplicate keys.
func (r *Runner) buildEnvironment(env []domain.EnvAssignment) []string {
	merged := os.Environ()
	for _, a := range env {
		merged = append(merged, fmt.Sprintf("%s=%s", a.Name, a.Value))
	}
	return merged
}
