package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ethnicityfacts/internal/config"
	"ethnicityfacts/internal/ethnicity"
)

func newLookupsCmd() *cobra.Command {
	var catalogue string

	cmd := &cobra.Command{
		Use:   "lookups",
		Short: "List the lookups in the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookups, err := config.LoadLookups(catalogue)
			if err != nil {
				return err
			}
			registry, err := ethnicity.BuildRegistry(lookups, filepath.Dir(catalogue))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tENTRIES\tOUTPUT COLUMNS")
			for _, name := range registry.Names() {
				lookup, err := registry.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, lookup.Len(), strings.Join(lookup.OutputColumns(), ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&catalogue, "lookups", "config/lookups.yaml", "Lookup catalogue file")
	return cmd
}
