package gen

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "Model", c.BaseModelParentClass)
	assert.Equal(t, "app/models", c.Package)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.Equal(t, []string{"Show", "Edit", "Delete"}, c.StandardActions)
	assert.Equal(t, "pencil", c.ActionIcons["Edit"])
	assert.Len(t, c.ViewTemplates, 4)
	assert.Positive(t, c.Workers)
	assert.NotNil(t, c.Logger)
	assert.IsType(t, InflectNamer{}, c.Namer)
}

func TestOptions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		opt     Option
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{
			name: "model prefix and suffix",
			opt: func(c *Config) error {
				return c.Apply(WithModelPrefix("App"), WithModelSuffix("Model"))
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "App", c.ModelPrefix)
				assert.Equal(t, "Model", c.ModelSuffix)
			},
		},
		{
			name:  "parent class",
			opt:   WithBaseModelParentClass("Record"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "Record", c.BaseModelParentClass) },
		},
		{
			name:  "no parent class",
			opt:   WithBaseModelParentClass(""),
			check: func(t *testing.T, c *Config) { assert.Empty(t, c.BaseModelParentClass) },
		},
		{
			name:    "invalid parent class",
			opt:     WithBaseModelParentClass("base.Model"),
			wantErr: "BaseModelParentClass",
		},
		{
			name: "options by key",
			opt: WithOptions(map[string]string{
				OptionModelPrefix:          "My",
				OptionBaseModelParentClass: "Entity",
			}),
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "My", c.ModelPrefix)
				assert.Equal(t, "Entity", c.BaseModelParentClass)
				assert.Equal(t, map[string]string{
					OptionModelPrefix:          "My",
					OptionModelSuffix:          "",
					OptionBaseModelParentClass: "Entity",
				}, c.Options())
			},
		},
		{
			name:    "unknown option key",
			opt:     WithOptions(map[string]string{"table_prefix": "x"}),
			wantErr: "unknown option",
		},
		{
			name:    "empty connection",
			opt:     WithConnection(""),
			wantErr: "Connection",
		},
		{
			name:  "package trailing slash",
			opt:   WithPackage("example.com/app/models/"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "example.com/app/models", c.Package) },
		},
		{
			name:    "empty query package",
			opt:     WithQueryPackage(""),
			wantErr: "QueryPackage",
		},
		{
			name:  "no header",
			opt:   WithHeader(""),
			check: func(t *testing.T, c *Config) { assert.Empty(t, c.Header) },
		},
		{
			name:  "standard actions",
			opt:   WithStandardActions("Show", "Archive"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, []string{"Show", "Archive"}, c.StandardActions) },
		},
		{
			name:    "duplicate standard action",
			opt:     WithStandardActions("Show", "Show"),
			wantErr: "duplicate label",
		},
		{
			name:    "invalid standard action",
			opt:     WithStandardActions("Mark read"),
			wantErr: "identifier",
		},
		{
			name: "action icons",
			opt:  WithActionIcons(map[string]string{"Archive": "box", "Edit": "edit"}),
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "box", c.ActionIcons["Archive"])
				assert.Equal(t, "edit", c.ActionIcons["Edit"])
				assert.Equal(t, "trash", c.ActionIcons["Delete"])
			},
		},
		{
			name:    "view template path",
			opt:     WithViewTemplates("users/show.html"),
			wantErr: "plain file name",
		},
		{
			name:  "template dir",
			opt:   WithTemplateDir(dir),
			check: func(t *testing.T, c *Config) { assert.Equal(t, dir, c.TemplateDir) },
		},
		{
			name:    "template dir is a file",
			opt:     WithTemplateDir(file),
			wantErr: "not a directory",
		},
		{
			name:    "missing template dir",
			opt:     WithTemplateDir(filepath.Join(dir, "missing")),
			wantErr: "TemplateDir",
		},
		{
			name:    "zero workers",
			opt:     WithWorkers(0),
			wantErr: "must be positive",
		},
		{
			name:    "nil logger",
			opt:     WithLogger(nil),
			wantErr: "Logger",
		},
		{
			name:    "nil namer",
			opt:     WithNamer(nil),
			wantErr: "Namer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConfig(tt.opt)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestConfig_ApplyAll(t *testing.T) {
	c := DefaultConfig()
	err := c.ApplyAll(WithWorkers(0), WithLogger(slog.Default()), WithNamer(nil))
	require.Error(t, err)
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Workers", ce.Option)
	assert.Contains(t, err.Error(), "Namer")
	assert.Equal(t, slog.Default(), c.Logger, "valid options are still applied")
}

func TestConfig_ApplyStopsAtFirstError(t *testing.T) {
	c := DefaultConfig()
	err := c.Apply(WithWorkers(0), WithWorkers(3))
	require.Error(t, err)
	assert.NotEqual(t, 3, c.Workers)
}
