package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/dialect"
)

// DefaultName is the name of the config file looked up in the working
// directory, without extension.
const DefaultName = "scaffold"

// EnvPrefix prefixes environment variables overriding config keys,
// e.g. SCAFFOLD_DIRS_MODELS.
const EnvPrefix = "SCAFFOLD"

// Config is the content of a scaffold.yaml file.
type Config struct {
	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`

	Connection      string                `mapstructure:"connection"`
	Connections     map[string]Connection `mapstructure:"connections"`
	Package         string                `mapstructure:"package"`
	QueryPackage    string                `mapstructure:"query_package"`
	Dirs            Dirs                  `mapstructure:"dirs"`
	Options         map[string]string     `mapstructure:"options"`
	StandardActions []string              `mapstructure:"standard_actions"`
	ActionIcons     map[string]string     `mapstructure:"action_icons"`
	Views           []string              `mapstructure:"views"`
	Templates       string                `mapstructure:"templates"`
	Header          *string               `mapstructure:"header"`
	Workers         int                   `mapstructure:"workers"`
}

// Connection is a named schema source. Either DSN (or the variable named
// by DSNEnv) or Snapshot must be set; a DSN wins over a snapshot.
type Connection struct {
	Dialect  string `mapstructure:"dialect"`
	DSN      string `mapstructure:"dsn"`
	DSNEnv   string `mapstructure:"dsn_env"`
	Snapshot string `mapstructure:"snapshot"`
}

// Dirs are the target directories of the generate command.
type Dirs struct {
	Models      string `mapstructure:"models"`
	BaseModels  string `mapstructure:"base_models"`
	Queries     string `mapstructure:"queries"`
	BaseQueries string `mapstructure:"base_queries"`
	Views       string `mapstructure:"views"`
	Controllers string `mapstructure:"controllers"`
}

// Load reads the config file at path, or scaffold.yaml from the working
// directory when path is empty. A missing default file yields an empty
// config; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Env overrides only apply to keys viper knows about.
	for _, k := range []string{
		"connection", "package", "query_package", "templates",
		"dirs.models", "dirs.base_models", "dirs.queries", "dirs.base_queries", "dirs.views", "dirs.controllers",
	} {
		v.SetDefault(k, "")
	}
	v.SetDefault("workers", 0)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.restoreKeys(); err != nil {
		return nil, fmt.Errorf("failed to read config keys: %w", err)
	}
	return &cfg, nil
}

// restoreKeys puts back the case of the connection names and icon labels
// written in a YAML config file. Viper lowercases map keys.
func (c *Config) restoreKeys() error {
	switch strings.ToLower(filepath.Ext(c.File)) {
	case ".yaml", ".yml":
	default:
		return nil
	}
	b, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var raw struct {
		Connections map[string]yaml.Node `yaml:"connections"`
		ActionIcons map[string]yaml.Node `yaml:"action_icons"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return err
	}
	restoreCase(c.Connections, slices.Sorted(maps.Keys(raw.Connections)))
	restoreCase(c.ActionIcons, slices.Sorted(maps.Keys(raw.ActionIcons)))
	return nil
}

func restoreCase[V any](m map[string]V, keys []string) {
	for _, k := range keys {
		lower := strings.ToLower(k)
		if v, ok := m[lower]; ok && lower != k {
			delete(m, lower)
			m[k] = v
		}
	}
}

// Validate checks the connections of the config.
func (c *Config) Validate() error {
	for name, conn := range c.Connections {
		if conn.DSN == "" && conn.DSNEnv == "" && conn.Snapshot == "" {
			return fmt.Errorf("connection %q: one of dsn, dsn_env or snapshot is required", name)
		}
		if conn.DSN != "" || conn.DSNEnv != "" {
			if _, err := dialect.Parse(conn.Dialect); err != nil {
				return fmt.Errorf("connection %q: %w", name, err)
			}
		}
	}
	if c.Connection != "" {
		if _, ok := c.lookup(c.Connection); !ok {
			return fmt.Errorf("default connection %q is not defined", c.Connection)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.Workers)
	}
	return nil
}

// ConnectionName resolves the connection to use and returns its name as
// declared. An empty name selects the default connection, or the only one
// defined. Names match regardless of case.
func (c *Config) ConnectionName(name string) (string, error) {
	if name == "" {
		name = c.Connection
	}
	if name == "" {
		if len(c.Connections) != 1 {
			return "", errors.New("no connection selected and no default connection configured")
		}
		for n := range c.Connections {
			name = n
		}
	}
	declared, ok := c.lookup(name)
	if !ok {
		return "", fmt.Errorf("connection %q is not defined", name)
	}
	return declared, nil
}

// lookup returns the declared name of the connection matching name.
func (c *Config) lookup(name string) (string, bool) {
	if _, ok := c.Connections[name]; ok {
		return name, true
	}
	for n := range c.Connections {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

// LoadConfig returns the schema loading config of the named connection.
// Variables named by dsn_env are read from the environment.
func (c *Config) LoadConfig(name string) (*load.Config, error) {
	name, err := c.ConnectionName(name)
	if err != nil {
		return nil, err
	}
	conn := c.Connections[name]
	dsn := conn.DSN
	if dsn == "" && conn.DSNEnv != "" {
		if dsn = os.Getenv(conn.DSNEnv); dsn == "" && conn.Snapshot == "" {
			return nil, fmt.Errorf("database URL not found in environment variable %s", conn.DSNEnv)
		}
	}
	return &load.Config{
		Connection: name,
		Dialect:    conn.Dialect,
		DSN:        dsn,
		Snapshot:   c.resolve(conn.Snapshot),
	}, nil
}

// GenOptions returns the generator options set by the config.
func (c *Config) GenOptions() []gen.Option {
	var opts []gen.Option
	if len(c.Options) > 0 {
		opts = append(opts, gen.WithOptions(c.Options))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.QueryPackage != "" {
		opts = append(opts, gen.WithQueryPackage(c.QueryPackage))
	}
	if c.Header != nil {
		opts = append(opts, gen.WithHeader(*c.Header))
	}
	if len(c.StandardActions) > 0 {
		opts = append(opts, gen.WithStandardActions(c.StandardActions...))
	}
	if len(c.ActionIcons) > 0 {
		opts = append(opts, gen.WithActionIcons(c.actionIcons()))
	}
	if len(c.Views) > 0 {
		opts = append(opts, gen.WithViewTemplates(c.Views...))
	}
	if c.Templates != "" {
		opts = append(opts, gen.WithTemplateDir(c.resolve(c.Templates)))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	return opts
}

// actionIcons matches icon labels to the standard actions regardless of
// case, for config files whose keys could not be restored.
func (c *Config) actionIcons() map[string]string {
	labels := c.StandardActions
	if len(labels) == 0 {
		labels = gen.DefaultConfig().StandardActions
	}
	icons := make(map[string]string, len(c.ActionIcons))
	for k, v := range c.ActionIcons {
		if i := slices.IndexFunc(labels, func(l string) bool { return strings.EqualFold(l, k) }); i >= 0 {
			k = labels[i]
		}
		icons[k] = v
	}
	return icons
}

// GenDirs returns the target directories, relative to the config file.
func (c *Config) GenDirs() gen.Dirs {
	return gen.Dirs{
		Models:      c.resolve(c.Dirs.Models),
		BaseModels:  c.resolve(c.Dirs.BaseModels),
		Queries:     c.resolve(c.Dirs.Queries),
		BaseQueries: c.resolve(c.Dirs.BaseQueries),
		Views:       c.resolve(c.Dirs.Views),
		Controllers: c.resolve(c.Dirs.Controllers),
	}
}

// WatchFiles returns the files whose change invalidates the generated
// code of the named connection: the config file, the snapshot and the
// database file of sqlite connections.
func (c *Config) WatchFiles(name string) ([]string, error) {
	lc, err := c.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	var files []string
	if c.File != "" {
		files = append(files, c.File)
	}
	d, _ := dialect.Parse(lc.Dialect)
	switch {
	case lc.DSN != "" && d == dialect.SQLite:
		if f := sqliteFile(lc.DSN); f != "" {
			files = append(files, f)
		}
	case lc.DSN == "" && lc.Snapshot != "":
		files = append(files, lc.Snapshot)
	}
	return slices.Compact(files), nil
}

// resolve makes a relative path relative to the directory of the config file.
func (c *Config) resolve(path string) string {
	if path == "" || c.File == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(c.File), path)
}

// sqliteFile extracts the database file of a sqlite DSN, or "" for
// in-memory databases.
func sqliteFile(dsn string) string {
	f := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(f, '?'); i >= 0 {
		f = f[:i]
	}
	if f == "" || f == ":memory:" {
		return ""
	}
	return f
}
