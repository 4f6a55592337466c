package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/internal/config"
)

// app holds the persistent flags shared by every command.
type app struct {
	cfgFile string
	conn    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate application code from a database schema",
		Long: `
scaffold reads the tables of a database, or a saved snapshot of them, and
writes for every table:

- a base model and a base query, rewritten when the schema changes
- a model and a query embedding them, written once and then yours
- edit, index, grid and show views
- a controller serving the views

Connections and target directories are read from scaffold.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// Missing env files are fine.
			_ = godotenv.Load(".env")
			_ = godotenv.Load(".env.local")
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ./scaffold.yaml)")
	f.StringVarP(&a.conn, "conn", "c", "", "connection to use (default is the configured one)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log every artifact")
	root.AddCommand(
		a.generateCmd(),
		a.paramsCmd(),
		a.tablesCmd(),
		a.snapshotCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (a *app) schema(ctx context.Context, log *slog.Logger, cfg *config.Config) (*load.Schema, error) {
	lc, err := cfg.LoadConfig(a.conn)
	if err != nil {
		return nil, err
	}
	lc.Logger = log
	return lc.Load(ctx)
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (a *app) generator(cmd *cobra.Command, cfg *config.Config, s *load.Schema) (*gen.Generator, error) {
	opts := append(cfg.GenOptions(), gen.WithLogger(a.logger(cmd)))
	return gen.NewGenerator(s, opts...)
}

// generate loads the schema and runs every artifact class with a directory.
func (a *app) generate(cmd *cobra.Command, cfg *config.Config, tables []string, dirs gen.Dirs) (*gen.Report, error) {
	if dirs == (gen.Dirs{}) {
		return nil, errors.New("no target directory configured")
	}
	s, err := a.schema(cmd.Context(), a.logger(cmd), cfg)
	if err != nil {
		return nil, err
	}
	g, err := a.generator(cmd, cfg, s)
	if err != nil {
		return nil, err
	}
	return g.Generate(cmd.Context(), tables, dirs)
}
