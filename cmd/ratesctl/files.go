package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the rate set as YAML",
		Long:  "Write the active rate set (the shipped tables unless --rates is given) as YAML, the format RATES_FILE expects.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := root.registry()
			if err != nil {
				return err
			}
			data, err := rates.Export(reg.Current())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", out, reg.Current().Version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a YAML rate file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := rates.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, version %s, %d tables, %d limit schedules\n",
				args[0], set.Version, len(set.Tables()), len(set.AllLimits()))
			return nil
		},
	}
}
