package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/distpack/internal/metadata"
)

const (
	formatYAML    = "yaml"
	formatPkgInfo = "pkg-info"
)

var (
	// outputFormat of the assembled descriptor.
	outputFormat string

	assembleCmd = &cobra.Command{
		Use:   "assemble [project-dir]",
		Short: "Print the package descriptor of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := assembleProject(cmd.Context(), projectDir(args))
			if err != nil {
				return err
			}

			var out []byte

			switch outputFormat {
			case formatYAML:
				if out, err = yaml.Marshal(d); err != nil {
					return fmt.Errorf("marshal descriptor: %w", err)
				}
			case formatPkgInfo:
				out = metadata.Render(d)
			default:
				return fmt.Errorf("unknown output format %q", outputFormat)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	assembleCmd.Flags().StringVarP(&outputFormat, "format", "f", formatYAML, "output format: yaml or pkg-info")
}
