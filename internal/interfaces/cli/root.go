package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"ccswitch.dev/cli/internal/application/services"
	"ccswitch.dev/cli/internal/infrastructure/config"
	"ccswitch.dev/cli/internal/infrastructure/process"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds the dependencies shared by CLI commands.
type CLIContainer struct {
	Scanner    *config.RepositoryScanner
	Activation *services.ActivationService
}

// NewCLIContainer wires the default scanner and activation service.
func NewCLIContainer() *CLIContainer {
	return &CLIContainer{
		Scanner:    config.NewRepositoryScanner(),
		Activation: services.NewActivationService(process.NewRunner()),
	}
}

// NewRootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "ccswitch",
		Short: "Claude Code configuration switcher",
		Long: `ccswitch discovers Claude Code settings files and claude-code-router
config files on disk and switches between them interactively.

Run 'ccswitch code' to open the selector. Activating a configuration installs
it as the active one, exports the derived environment variables, and launches
the claude CLI inside that environment.`,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	rootCmd.AddCommand(NewCodeCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
