package main

import (
	"fmt"

	"github.com/born-ml/mogp/conditionals"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		file          string
		fullCov       bool
		fullOutputCov bool
		white         bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Evaluate the conditional for a problem file",
		Long: `Loads inputs, inducing features, kernel and inducing posterior from a
YAML file, evaluates the conditional and prints the mean and covariance as
YAML. Layout flags override the values in the file.

Example:
  mogp predict -f problem.yaml --full-output-cov`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProblem(file)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("full-cov") {
				p.FullCov = fullCov
			}
			if flags.Changed("full-output-cov") {
				p.FullOutputCov = fullOutputCov
			}
			if flags.Changed("white") {
				p.White = white
			}

			res, err := p.Solve(a.logger)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (YAML)")
	cmd.Flags().BoolVar(&fullCov, "full-cov", false, "full covariance over query points")
	cmd.Flags().BoolVar(&fullOutputCov, "full-output-cov", false, "full covariance over outputs")
	cmd.Flags().BoolVar(&white, "white", false, "f and q_sqrt are whitened")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the supported (feature, kernel) pairings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %-22s %s\n", "FEATURE", "KERNEL", "ROUTINE")
			for _, p := range conditionals.Pairings() {
				fmt.Fprintf(out, "%-22s %-22s %s\n", p.Feature, p.Kernel, p.Routine)
			}
		},
	}
}
