package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			s, err := a.schema(cmd.Context(), a.logger(cmd), cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range s.Tables {
				keys := make([]string, 0, len(t.ForeignKeys))
				for _, fk := range t.ForeignKeys {
					keys = append(keys, fk.RefTable)
				}
				fmt.Fprintf(w, "%s\t%d columns", t.Name, len(t.Columns))
				if len(keys) > 0 {
					fmt.Fprintf(w, "\t-> %s", strings.Join(keys, ", "))
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
