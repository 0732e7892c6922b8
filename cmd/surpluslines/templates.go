package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List configured producer templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*configPath, *verbose)
			if err != nil {
				return err
			}
			if len(cfg.Producers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no producer templates configured")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAGENT\tADDRESS\tCITY/STATE/ZIP")
			for _, producer := range cfg.Producers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					producer.Name, producer.AgentName, producer.Address, producer.CityStateZip)
			}
			return w.Flush()
		},
	}
}
