package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// TestGenerate_TypeChecks loads the generated Go packages with the go
// command and fails on any type error.
func TestGenerate_TypeChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module app\n\ngo 1.22\n"), 0o644))
	dirs := Dirs{
		Models:      filepath.Join(root, "models"),
		BaseModels:  filepath.Join(root, "models", "base"),
		Queries:     filepath.Join(root, "queries"),
		BaseQueries: filepath.Join(root, "queries", "base"),
		Controllers: filepath.Join(root, "controllers"),
	}
	for _, d := range []string{dirs.BaseModels, dirs.BaseQueries, dirs.Controllers} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	g := newTestGenerator(t)
	_, err := g.Generate(context.Background(), nil, dirs)
	require.NoError(t, err)

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  root,
		Env:  append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod"),
	}, "./...")
	require.NoError(t, err)
	var paths []string
	for _, pkg := range pkgs {
		paths = append(paths, pkg.PkgPath)
		for _, e := range pkg.Errors {
			t.Errorf("%s: %s", pkg.PkgPath, e)
		}
	}
	assert.ElementsMatch(t, []string{"app/models", "app/models/base", "app/queries", "app/queries/base", "app/controllers"}, paths)
}
