package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		tables []string
		dirs   gen.Dirs
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the files of the selected tables",
		Long: `
Generate the files of the selected tables, or of every table when --tables
is not given. Directory flags override the dirs section of the config; an
artifact class without a directory is skipped.`,
		Example: `  scaffold generate --tables user,post
  scaffold generate -c archive --views app/views`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			report, err := a.generate(cmd, cfg, tables, mergeDirs(cfg.GenDirs(), dirs))
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&tables, "tables", "t", nil, "tables to generate (default all)")
	f.StringVar(&dirs.Models, "models", "", "model directory")
	f.StringVar(&dirs.BaseModels, "base-models", "", "base model directory (default <models>/base)")
	f.StringVar(&dirs.Queries, "queries", "", "query directory")
	f.StringVar(&dirs.BaseQueries, "base-queries", "", "base query directory")
	f.StringVar(&dirs.Views, "views", "", "view directory")
	f.StringVar(&dirs.Controllers, "controllers", "", "controller directory")
	return cmd
}

// mergeDirs returns the configured directories overridden by the set flags.
func mergeDirs(cfg, flags gen.Dirs) gen.Dirs {
	pick := func(c, f string) string {
		if f != "" {
			return f
		}
		return c
	}
	return gen.Dirs{
		Models:      pick(cfg.Models, flags.Models),
		BaseModels:  pick(cfg.BaseModels, flags.BaseModels),
		Queries:     pick(cfg.Queries, flags.Queries),
		BaseQueries: pick(cfg.BaseQueries, flags.BaseQueries),
		Views:       pick(cfg.Views, flags.Views),
		Controllers: pick(cfg.Controllers, flags.Controllers),
	}
}
