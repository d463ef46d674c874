package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/distpack/internal/config"
	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/logger"
	"github.com/oshokin/distpack/internal/service/assembler"
	"github.com/oshokin/distpack/internal/version"
)

var (
	// configPath to the project file, relative to the project directory.
	configPath string

	// settings resolved from flags and DISTPACK_* environment variables.
	settings *config.Settings

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "distpack",
		Short: "Assemble and package Python distributions",
		Long: `distpack collects the metadata of a Python project (version, README,
packages) into a package descriptor and hands it to a packaging backend.

The version is read from a single key=value declaration file matched by
version.glob. Packages are discovered under package_dir unless an
explicit list is configured.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}
)

// exitStatusError carries a process exit status chosen by a subcommand.
type exitStatusError struct {
	status int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.status)
}

// Execute runs the distpack CLI and exits with the status of the failed command.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err == nil {
		return
	}

	var statusErr *exitStatusError
	if errors.As(err, &statusErr) {
		os.Exit(statusErr.status)
	}

	logger.Errorf(ctx, "%v", err)
	os.Exit(1)
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	v := config.NewViper()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	s, err := config.LoadSettings(v)
	if err != nil {
		return err
	}

	level, ok := logger.ParseLogLevel(s.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}

	logger.SetLevel(level)

	settings = s

	return nil
}

// projectDir returns the optional positional project directory.
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}

// assembleProject loads the project file of dir and assembles its descriptor.
func assembleProject(ctx context.Context, dir string) (*descriptor.PackageDescriptor, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}

	src := os.DirFS(abs)

	project, err := config.Load(src, configPath, configPath != "")
	if err != nil {
		return nil, err
	}

	asm, err := assembler.New(src, project)
	if err != nil {
		return nil, err
	}

	return asm.Assemble(logger.WithKV(ctx, "project", abs))
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"project file relative to the project directory (default "+config.DefaultConfigFilename+", optional)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(assembleCmd, buildCmd, checkCmd)
}
