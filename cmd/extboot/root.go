// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/extboot/extboot/internal/bootstrap"
	"github.com/extboot/extboot/internal/config"
	"github.com/extboot/extboot/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom bootstrap config file
	cfgFile string

	// stderrLog carries CLI diagnostics. Lifecycle progress goes to the
	// extension log instead; the host agent never reads stderr.
	stderrLog = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "extboot",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "extboot <command>",
		Short: "Host-agent extension bootstrap",
		Long: TitleStyle.Render("extboot") + SubtitleStyle.Render(" - host-agent extension bootstrap") + `

extboot is the entry point the host agent launches for each extension
lifecycle step. Exactly one command runs per process: install seeds the
default workload configuration; enable and daemon resolve a usable Python
interpreter and forward to the extension handler; any other command is
acknowledged without action.

The process exit code is the lifecycle outcome: 0 for install, unrecognized
commands and a successful handler run; the handler's own exit status when it
ran and failed; 3 when no interpreter could be resolved at all.

` + SubtitleStyle.Render("Examples:") + `
  extboot install           Seed the default workload configuration
  extboot enable            Resolve an interpreter and run the handler
  extboot daemon            Same resolution, long-running handler mode
  extboot --config /tmp/extboot.cue enable`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				stderrLog.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBootstrap(cmd.Context(), bootstrap.Command(args[0]))
			if err != nil {
				// A non-zero handler status is a valid lifecycle outcome;
				// usage help and error echoes would only confuse the agent log.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
			}
			return err
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "bootstrap config file (default is /etc/extboot/extboot.cue)")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// runBootstrap loads the bootstrap configuration, assembles the dispatcher
// and turns the final status into the process exit code.
func runBootstrap(ctx context.Context, command bootstrap.Command) error {
	cfg := loadBootstrapConfig(ctx)

	d, err := bootstrap.New(bootstrap.Options{
		Config: cfg,
		Notice: renderGuidance,
	})
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if status := d.Run(ctx, command); !status.IsSuccess() {
		return &ExitError{Code: status}
	}
	return nil
}

// loadBootstrapConfig loads the deployment configuration, falling back to
// the built-in defaults when loading fails. The bootstrap stays runnable on
// a machine with no config file at all.
func loadBootstrapConfig(ctx context.Context) *config.Config {
	cfg, path, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		renderGuidance(issue.ConfigLoadFailedId)
		return config.DefaultConfig()
	}
	if path != "" {
		stderrLog.Debug("loaded bootstrap config", "path", path)
	}
	return cfg
}

// renderGuidance prints the catalog entry for id to stderr. Rendering is
// best-effort and never affects the exit status.
func renderGuidance(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		stderrLog.Warn("failed to render guidance", "id", int(id), "error", err)
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
