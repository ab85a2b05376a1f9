package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	ratesFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "ratesctl",
		Short:         "Illustrative premium estimates and rate table tooling",
		Long:          "Estimate premiums from the command line, manage rate table files, and run the calculator wizard in a terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.ratesFile, "rates", "", "YAML rate file to use instead of the shipped tables")

	cmd.AddCommand(
		newEstimateCmd(opts),
		newExportCmd(opts),
		newValidateCmd(),
		newWizardCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

func (o *rootOptions) registry() (*rates.Registry, error) {
	if o.ratesFile == "" {
		return rates.NewRegistry(rates.Default()), nil
	}
	set, err := rates.LoadFile(o.ratesFile)
	if err != nil {
		return nil, err
	}
	return rates.NewRegistry(set), nil
}

func (o *rootOptions) estimator() (*core.Estimator, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	return core.NewEstimator(reg), nil
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ratesctl %s (commit %s)\n", version, commit)
			fmt.Fprintf(out, "rates %s\n", reg.Current().Version)
			if bi, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(out, "go %s\n", bi.GoVersion)
			}
			return nil
		},
	}
}
