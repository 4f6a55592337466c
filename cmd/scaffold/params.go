package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params <table>",
		Short: "Print the template bindings of a table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			s, err := a.schema(cmd.Context(), a.logger(cmd), cfg)
			if err != nil {
				return err
			}
			g, err := a.generator(cmd, cfg, s)
			if err != nil {
				return err
			}
			p, err := g.Params(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(p.Map()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
