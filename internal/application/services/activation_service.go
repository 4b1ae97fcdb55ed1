package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ccswitch.dev/cli/internal/core/domain"
)

// CommandRunner abstracts process spawning so activation can be tested with a
// recording fake.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, env []domain.EnvAssignment) (int, error)
	LookPath(name string) string
}

// ActivationService applies an ActivationPlan: installs the selected file as
// the active configuration, exports the derived environment, restarts the
// router daemon when asked, and finally launches the agent CLI inside the new
// environment.
type ActivationService struct {
	runner      CommandRunner
	out         io.Writer
	launchAgent bool

	agentCommand   string
	restartCommand []string
	stopCommand    []string
}

// NewActivationService creates a service using the conventional claude and
// ccr commands.
func NewActivationService(runner CommandRunner) *ActivationService {
	return &ActivationService{
		runner:         runner,
		out:            os.Stdout,
		launchAgent:    true,
		agentCommand:   "claude",
		restartCommand: []string{"ccr", "restart"},
		stopCommand:    []string{"ccr", "stop"},
	}
}

// SetOutput redirects user-facing messages.
func (s *ActivationService) SetOutput(w io.Writer) {
	s.out = w
}

// SetLaunchAgent controls whether the agent CLI is spawned after activation.
func (s *ActivationService) SetLaunchAgent(launch bool) {
	s.launchAgent = launch
}

// Activate performs the plan's side effects in order. Once the environment is
// exported the activation itself has succeeded; a failing restart command is
// surfaced as a warning only.
func (s *ActivationService) Activate(ctx context.Context, plan domain.ActivationPlan) error {
	if err := s.installConfigFile(plan); err != nil {
		return err
	}

	for _, name := range plan.Unset {
		os.Unsetenv(name)
	}
	for _, a := range plan.Env {
		if err := os.Setenv(a.Name, a.Value); err != nil {
			return fmt.Errorf("failed to export %s: %w", a.Name, err)
		}
	}

	fmt.Fprintf(s.out, "Switched to %s configuration: %s\n", plan.Entry.Kind, plan.Entry.DisplayName)

	if plan.Restart {
		s.runRouterCommand(ctx, s.restartCommand)
	}

	if s.launchAgent {
		return s.launch(ctx, plan)
	}

	return nil
}

// installConfigFile copies the entry's file over the active configuration,
// moving an existing target aside first when the plan asks for a backup.
func (s *ActivationService) installConfigFile(plan domain.ActivationPlan) error {
	target := plan.CopyTarget

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if plan.BackupTarget {
		if _, err := os.Stat(target); err == nil {
			backup := target + ".bak"
			if err := os.Rename(target, backup); err != nil {
				return fmt.Errorf("failed to back up %s: %w", target, err)
			}
			fmt.Fprintf(s.out, "Backed up existing %s to %s\n", filepath.Base(target), filepath.Base(backup))
		}
	}

	if err := copyFile(plan.Entry.Path, target); err != nil {
		return fmt.Errorf("failed to install configuration: %w", err)
	}
	fmt.Fprintf(s.out, "Copied %s to %s\n", plan.Entry.Path, target)

	return nil
}

// launch spawns the agent CLI with the plan's environment merged over the
// parent environment, then runs the kind-specific teardown.
func (s *ActivationService) launch(ctx context.Context, plan domain.ActivationPlan) error {
	agent := s.runner.LookPath(s.agentCommand)

	fmt.Fprintf(s.out, "Launching %s with configuration environment...\n", s.agentCommand)

	code, err := s.runner.Run(ctx, agent, nil, plan.Env)
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", s.agentCommand, err)
	}
	if code != 0 {
		fmt.Fprintf(s.out, "%s exited with status %d\n", s.agentCommand, code)
	}

	if plan.Entry.Kind == domain.KindRouter {
		s.runRouterCommand(ctx, s.stopCommand)
	} else {
		s.cleanupLocalSettings()
	}

	return nil
}

// runRouterCommand runs a ccr subcommand; failures are warnings because the
// configuration switch has already taken effect.
func (s *ActivationService) runRouterCommand(ctx context.Context, command []string) {
	name := command[0]
	args := command[1:]

	fmt.Fprintf(s.out, "Running %s %s...\n", name, args[0])

	code, err := s.runner.Run(ctx, name, args, nil)
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "Warning: %s %s failed: %v\n", name, args[0], err)
	case code != 0:
		fmt.Fprintf(s.out, "Warning: %s %s exited with status %d\n", name, args[0], code)
	}
}

// cleanupLocalSettings removes a project-local settings override left behind
// by a Claude session in the working directory.
func (s *ActivationService) cleanupLocalSettings() {
	workDir, err := os.Getwd()
	if err != nil {
		return
	}

	local := filepath.Join(workDir, ".claude", "settings.local.json")
	if _, err := os.Stat(local); err != nil {
		return
	}

	if err := os.Remove(local); err == nil {
		fmt.Fprintf(s.out, "Cleaned up local settings file: %s\n", local)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(src); err == nil {
		mode = info.Mode().Perm()
	}

	return os.WriteFile(dst, data, mode)
}
