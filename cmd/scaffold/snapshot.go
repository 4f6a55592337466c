package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	sqlschema "github.com/syssam/scaffold/dialect/sql/schema"
	"github.com/syssam/scaffold/schema"
)

func (a *app) snapshotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the schema of the connection to a file",
		Long: `
Save the schema of the connection to a msgpack file. Connections with a
snapshot and no dsn generate from that file without a database. Changes
from an existing snapshot that affect hand-written code are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			s, err := a.schema(cmd.Context(), a.logger(cmd), cfg)
			if err != nil {
				return err
			}
			if out == "" {
				out = s.ConnectionName() + ".msgpack"
			}
			if prev, err := schema.LoadSnapshot(out); err == nil {
				if r := sqlschema.ValidateDiff(prev, s.Database); r.HasWarnings() {
					color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), r.String())
				}
			}
			if err := schema.SaveSnapshot(out, s.Database); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d tables to %s\n", len(s.Tables), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <connection>.msgpack)")
	return cmd
}
