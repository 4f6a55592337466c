package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"slices"
	"strings"
)

// DefaultHeader marks machine-owned files.
const DefaultHeader = "Code generated by scaffold. DO NOT EDIT."

// Keys of the generator options exposed to templates.
const (
	OptionModelPrefix          = "model_prefix"
	OptionModelSuffix          = "model_suffix"
	OptionBaseModelParentClass = "base_model_parent_class"
)

// Config holds the global configuration of a Generator.
type Config struct {
	// ModelPrefix and ModelSuffix are wrapped around the class name of every
	// generated model, e.g. "App" + "User" + "Model".
	ModelPrefix string
	ModelSuffix string
	// BaseModelParentClass is embedded into every generated base model.
	// Empty means no embedding.
	BaseModelParentClass string
	// Connection names the schema dump written next to the models. It
	// defaults to the connection reported by the schema source.
	Connection string
	// Package is the import path of the model directory. The base model
	// package is imported relative to it.
	Package string
	// QueryPackage is the import path of the query directory. Empty means
	// a sibling of Package named after the query directory.
	QueryPackage string
	// Header is written at the top of machine-owned files.
	Header string
	// StandardActions are the per-row actions, in display order.
	StandardActions []string
	// ActionIcons maps action labels to icon names.
	ActionIcons map[string]string
	// ViewTemplates are the view files generated for each table.
	ViewTemplates []string
	// TemplateDir, when set, holds template files overriding the
	// built-in ones by name.
	TemplateDir string
	// Workers bounds the number of tables rendered concurrently.
	Workers int
	// Logger receives progress and per-artifact events.
	Logger *slog.Logger
	// Namer derives identifiers from table names.
	Namer Namer
}

// Option configures code generation.
type Option func(*Config) error

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() *Config {
	return &Config{
		BaseModelParentClass: "Model",
		Package:              "app/models",
		Header:               DefaultHeader,
		StandardActions:      []string{"Show", "Edit", "Delete"},
		ActionIcons: map[string]string{
			"Edit":   "pencil",
			"Show":   "search",
			"Delete": "trash",
		},
		ViewTemplates: []string{"edit.html", "index.html", "grid.html", "show.html"},
		Workers:       runtime.GOMAXPROCS(0),
		Logger:        slog.New(slog.DiscardHandler),
		Namer:         InflectNamer{},
	}
}

// WithModelPrefix sets the prefix of generated model names.
func WithModelPrefix(prefix string) Option {
	return func(c *Config) error {
		c.ModelPrefix = prefix
		return nil
	}
}

// WithModelSuffix sets the suffix of generated model names.
func WithModelSuffix(suffix string) Option {
	return func(c *Config) error {
		c.ModelSuffix = suffix
		return nil
	}
}

// WithBaseModelParentClass sets the type embedded into base models.
func WithBaseModelParentClass(name string) Option {
	return func(c *Config) error {
		if name != "" && !token.IsIdentifier(name) {
			return NewConfigError("BaseModelParentClass", name, "must be a Go identifier")
		}
		c.BaseModelParentClass = name
		return nil
	}
}

// WithOptions sets generator options by key, as found in configuration
// files. Unknown keys are rejected.
func WithOptions(opts map[string]string) Option {
	return func(c *Config) error {
		for _, k := range slices.Sorted(maps.Keys(opts)) {
			var opt Option
			switch k {
			case OptionModelPrefix:
				opt = WithModelPrefix(opts[k])
			case OptionModelSuffix:
				opt = WithModelSuffix(opts[k])
			case OptionBaseModelParentClass:
				opt = WithBaseModelParentClass(opts[k])
			default:
				return NewConfigError("Options", k, "unknown option")
			}
			if err := opt(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithConnection sets the connection name used for the schema dump.
func WithConnection(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("Connection", nil, "connection cannot be empty")
		}
		c.Connection = name
		return nil
	}
}

// WithPackage sets the import path of the model directory.
// For example: "github.com/org/project/models".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = strings.TrimSuffix(pkg, "/")
		return nil
	}
}

// WithQueryPackage sets the import path of the query directory when it
// differs from the model directory.
func WithQueryPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("QueryPackage", nil, "package cannot be empty")
		}
		c.QueryPackage = strings.TrimSuffix(pkg, "/")
		return nil
	}
}

// WithHeader sets the file header comment of machine-owned files.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithStandardActions replaces the per-row actions. Labels must be unique.
func WithStandardActions(labels ...string) Option {
	return func(c *Config) error {
		seen := make(map[string]bool, len(labels))
		for _, l := range labels {
			if !token.IsIdentifier(l) {
				return NewConfigError("StandardActions", l, "label must be a Go identifier")
			}
			if seen[l] {
				return NewConfigError("StandardActions", l, "duplicate label")
			}
			seen[l] = true
		}
		c.StandardActions = slices.Clone(labels)
		return nil
	}
}

// WithActionIcons adds or replaces icons of action labels.
func WithActionIcons(icons map[string]string) Option {
	return func(c *Config) error {
		if c.ActionIcons == nil {
			c.ActionIcons = make(map[string]string)
		}
		maps.Copy(c.ActionIcons, icons)
		return nil
	}
}

// WithViewTemplates replaces the view files generated for each table.
func WithViewTemplates(names ...string) Option {
	return func(c *Config) error {
		for _, n := range names {
			if n == "" || strings.ContainsAny(n, `/\`) {
				return NewConfigError("ViewTemplates", n, "must be a plain file name")
			}
		}
		c.ViewTemplates = slices.Clone(names)
		return nil
	}
}

// WithTemplateDir sets a directory of templates overriding the built-in
// ones by name.
func WithTemplateDir(dir string) Option {
	return func(c *Config) error {
		fi, err := os.Stat(dir)
		switch {
		case err != nil:
			return NewConfigError("TemplateDir", dir, err.Error())
		case !fi.IsDir():
			return NewConfigError("TemplateDir", dir, "not a directory")
		}
		c.TemplateDir = dir
		return nil
	}
}

// WithWorkers sets the number of tables rendered concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger receiving generation events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithNamer sets a custom Namer.
func WithNamer(n Namer) Option {
	return func(c *Config) error {
		if n == nil {
			return NewConfigError("Namer", nil, "namer cannot be nil")
		}
		c.Namer = n
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Options returns the generator options exposed to templates.
func (c *Config) Options() map[string]string {
	return map[string]string{
		OptionModelPrefix:          c.ModelPrefix,
		OptionModelSuffix:          c.ModelSuffix,
		OptionBaseModelParentClass: c.BaseModelParentClass,
	}
}
