package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/distpack/internal/service/checker"
)

var (
	// interpreter version that must satisfy requires_python.
	interpreter string

	checkCmd = &cobra.Command{
		Use:   "check [project-dir]",
		Short: "Check classifiers and interpreter against requires_python",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := assembleProject(cmd.Context(), projectDir(args))
			if err != nil {
				return err
			}

			findings := checker.Check(d, checker.Options{Interpreter: interpreter})
			for _, f := range findings {
				fmt.Fprintln(cmd.OutOrStdout(), f.String())
			}

			if len(findings) > 0 {
				return &exitStatusError{status: 1}
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkCmd.Flags().StringVar(&interpreter, "python", "", "interpreter version to check, e.g. 3.10.4")
}
