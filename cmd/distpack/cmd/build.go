package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/distpack/internal/service/packager"
)

var buildCmd = &cobra.Command{
	Use:   "build [project-dir]",
	Short: "Assemble the descriptor and run the packaging backend",
	Long: `Assembles the package descriptor and invokes the configured backend.
Artifacts are published into the dist directory together with a build
manifest. The process exits with the backend's exit status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options := &packager.Options{
			ProjectDir: projectDir(args),
			ConfigPath: configPath,
			Settings:   settings,
		}

		status, err := packager.Run(cmd.Context(), options)
		if err != nil {
			return err
		}

		if status != packager.StatusOK {
			return &exitStatusError{status: int(status)}
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	buildCmd.Flags().String("dist-dir", "dist", "directory receiving artifacts, relative to the project")
	buildCmd.Flags().String("backend", "sdist", "packaging backend: sdist or command")
	buildCmd.Flags().StringSlice("command", nil, "argv of the external packaging command")
}
