package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/compiler/gen/templates"
)

func TestRenderer_Render(t *testing.T) {
	g := newTestGenerator(t)
	p, err := g.Params("user")
	require.NoError(t, err)
	r := NewRenderer(InflectNamer{}, "header")

	t.Run("bindings", func(t *testing.T) {
		tmpl := &Template{Name: "t", Text: `{{ .model_name }} {{ .pk_method }} {{ join .column_names "," }}`}
		out, err := r.Render(tmpl, p, nil)
		require.NoError(t, err)
		assert.Equal(t, "User GetID id,name", out)
	})

	t.Run("extra overrides", func(t *testing.T) {
		tmpl := &Template{Name: "t", Text: `{{ .model_name }}/{{ .package }}`}
		out, err := r.Render(tmpl, p, map[string]any{"model_name": "Member", "package": "models"})
		require.NoError(t, err)
		assert.Equal(t, "Member/models", out)
		assert.Equal(t, "User", p.ModelName, "the record is not modified")
	})

	t.Run("deterministic", func(t *testing.T) {
		tmpl := &Template{Name: "t", Text: `{{ range .actions }}{{ .Label }}={{ .Link }};{{ end }}`}
		out1, err := r.Render(tmpl, p, nil)
		require.NoError(t, err)
		out2, err := r.Render(tmpl, p, nil)
		require.NoError(t, err)
		assert.Equal(t, out1, out2)
		assert.Equal(t, "Show=/users/show/{{$user.GetID}};Edit=/users/edit/{{$user.GetID}};Delete=/users/delete/{{$user.GetID}};Posts=/posts?user_id={{$user.GetID}};", out1)
	})

	t.Run("funcs", func(t *testing.T) {
		tmpl := &Template{Name: "t", Text: `{{ pascal "user_id" }} {{ camel "user_id" }} {{ snake "UserID" }} {{ title "blog_posts" }} {{ golit .table_name }} {{ gotype (column .columns "id") }} {{ header }}`}
		out, err := r.Render(tmpl, p, nil)
		require.NoError(t, err)
		assert.Equal(t, `UserID userID user_id Blog Posts "user" int64 header`, out)
	})

	t.Run("custom delimiters", func(t *testing.T) {
		tmpl := &Template{Name: "t", Text: `{{$[[ .single ]].[[ .pk_method ]]}}`, Left: "[[", Right: "]]"}
		out, err := r.Render(tmpl, p, nil)
		require.NoError(t, err)
		assert.Equal(t, "{{$user.GetID}}", out)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := r.Render(&Template{Name: "t", Text: `{{ .nope }}`}, p, nil)
		require.Error(t, err)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := r.Render(&Template{Name: "broken", Text: `{{ .model_name `}, p, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"broken"`)
	})
}

func TestLoadTemplate(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		tmpl, err := LoadTemplate("", templates.BaseModel)
		require.NoError(t, err)
		assert.Contains(t, tmpl.Text, "package {{ .package }}")
		assert.Empty(t, tmpl.Left)
	})

	t.Run("view delimiters", func(t *testing.T) {
		tmpl, err := LoadTemplate("", templates.View("grid.html"))
		require.NoError(t, err)
		assert.Equal(t, "[[", tmpl.Left)
		assert.Equal(t, "]]", tmpl.Right)
	})

	t.Run("override", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, templates.Model), []byte("custom"), 0o644))
		tmpl, err := LoadTemplate(dir, templates.Model)
		require.NoError(t, err)
		assert.Equal(t, "custom", tmpl.Text)

		tmpl, err = LoadTemplate(dir, templates.Query)
		require.NoError(t, err)
		assert.NotEqual(t, "custom", tmpl.Text, "falls back to the built-in template")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := LoadTemplate("", "nope.tmpl")
		require.Error(t, err)
	})
}

func TestGenerator_Render(t *testing.T) {
	g := newTestGenerator(t)
	out, err := g.Render("user", templates.View("show.html"), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "{{with $user := .user}}")
	assert.Contains(t, out, `<a href="/posts?user_id={{$user.GetID}}"><i class="icon-"></i> Posts</a>`)
	assert.Contains(t, out, `<i class="icon-pencil"></i> Edit`)

	_, err = g.Render("nope", templates.Model, nil)
	require.Error(t, err)
}
