package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEndpointsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the configured endpoint registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tURL")
			for _, ep := range registry.Endpoints() {
				category := string(ep.Category)
				if category == "" {
					category = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", ep.Name, category, ep.URL)
			}
			return tw.Flush()
		},
	}
}
