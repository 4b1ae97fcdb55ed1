package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch.dev/cli/internal/core/domain"
)

// CodeFlags holds command-line flags for the code command
type CodeFlags struct {
	ClaudeDir string
	RouterDir string
	NoLaunch  bool
}

// NewCodeCommand creates the code command
func NewCodeCommand(container *CLIContainer) *cobra.Command {
	flags := &CodeFlags{}

	cmd := &cobra.Command{
		Use:   "code",
		Short: "Interactively select and activate a configuration",
		Long: `Scan ~/.claude for *-settings.json files and ~/.claude-code-router for
*-config.json files, then pick one with the arrow keys.

Selecting a Claude entry backs up and replaces settings.json and exports the
entry's env block. Selecting a router entry ([CCR]) replaces config.json,
exports the Anthropic variables derived from it, and restarts the router.

Examples:
  ccswitch code                 # Select from the default directories
  ccswitch code --no-launch     # Activate without launching claude`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCode(cmd, container, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ClaudeDir, "claude-dir", "", "Directory scanned for *-settings.json (default ~/.claude)")
	cmd.Flags().StringVar(&flags.RouterDir, "router-dir", "", "Directory scanned for *-config.json (default ~/.claude-code-router)")
	cmd.Flags().BoolVar(&flags.NoLaunch, "no-launch", false, "Activate the configuration without launching claude")

	return cmd
}

// runCode drives the scan, selection, and activation pipeline.
func runCode(cmd *cobra.Command, container *CLIContainer, flags *CodeFlags) error {
	ctx := cmd.Context()

	container.Scanner.SetDirs(flags.ClaudeDir, flags.RouterDir)

	result, err := container.Scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan configurations: %w", err)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}

	index, err := RunSelector(result.Entries)
	if errors.Is(err, domain.ErrNoConfigurations) {
		// Reported before any terminal state was touched.
		fmt.Fprintf(cmd.OutOrStdout(), "No configuration files found in %s or %s\n",
			container.Scanner.ClaudeDir(), container.Scanner.RouterDir())
		return nil
	}
	if err != nil {
		return err
	}
	if index < 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}

	plan, err := domain.BuildActivationPlan(result.Entries[index],
		container.Scanner.ClaudeDir(), container.Scanner.RouterDir())
	if err != nil {
		return fmt.Errorf("cannot activate %s: %w", result.Entries[index].DisplayName, err)
	}

	if flags.NoLaunch {
		container.Activation.SetLaunchAgent(false)
	}

	return container.Activation.Activate(ctx, plan)
}
