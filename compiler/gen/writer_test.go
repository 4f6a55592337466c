package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold"
)

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name    string
		policy  writePolicy
		old     *string
		content string
		want    Outcome
		file    string
	}{
		{name: "if changed/new", policy: writeIfChanged, content: "a", want: Created, file: "a"},
		{name: "if changed/same", policy: writeIfChanged, old: ptr("a"), content: "a", want: Unchanged, file: "a"},
		{name: "if changed/different", policy: writeIfChanged, old: ptr("b"), content: "a", want: Written, file: "a"},
		{name: "if absent/new", policy: writeIfAbsent, content: "a", want: Created, file: "a"},
		{name: "if absent/existing", policy: writeIfAbsent, old: ptr("b"), content: "a", want: Skipped, file: "b"},
		{name: "always/same", policy: writeAlways, old: ptr("a"), content: "a", want: Unchanged, file: "a"},
		{name: "always/different", policy: writeAlways, old: ptr("b"), content: "a", want: Written, file: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.go")
			if tt.old != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.old), 0o644))
			}
			got, err := writeFile(path, []byte(tt.content), tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.file, string(b))
		})
	}

	t.Run("missing directory", func(t *testing.T) {
		_, err := writeFile(filepath.Join(t.TempDir(), "missing", "out.go"), nil, writeIfChanged)
		assert.Error(t, err)
	})
}

func ptr(s string) *string { return &s }

func TestNormalizeDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	got, err := normalizeDir(root)
	require.NoError(t, err)
	assert.Equal(t, root+"/", got)

	got, err = normalizeDir(root + "/")
	require.NoError(t, err)
	assert.Equal(t, root+"/", got)

	for _, dir := range []string{"", file, filepath.Join(root, "missing")} {
		_, err := normalizeDir(dir)
		assert.True(t, scaffold.IsPathNotFound(err), dir)
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "written", Written.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestReport(t *testing.T) {
	r := newReport()
	assert.Len(t, r.RunID, 36)
	r.Artifacts = []Artifact{
		{Table: "user", Kind: KindBaseModel, Outcome: Created},
		{Table: "user", Kind: KindModel, Outcome: Skipped},
	}
	o := newReport()
	o.Artifacts = []Artifact{{Table: "post", Kind: KindBaseModel, Outcome: Written}}
	r.Merge(o)
	r.Merge(nil)
	assert.NotEqual(t, r.RunID, o.RunID)
	assert.Len(t, r.Artifacts, 3)
	assert.Equal(t, 2, r.Changed())
	assert.Equal(t, 1, r.Count(Skipped))
	assert.Zero(t, r.Count(Unchanged))
}
