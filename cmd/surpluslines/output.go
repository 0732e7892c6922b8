package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newOutputCmd(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "output [dir]",
		Short: "Show or set the output directory for stamped artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*configPath, *verbose)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if cfg.OutputDir == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no output directory is set")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), cfg.OutputDir)
				return nil
			}

			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("not a directory: %s", dir)
			}
			cfg.OutputDir = dir
			if err := cfg.Save(*configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
