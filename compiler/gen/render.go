package gen

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/scaffold/compiler/gen/templates"
	"github.com/syssam/scaffold/schema"
)

// Template is a named template text.
type Template struct {
	Name string
	Text string
	// Left and Right are the action delimiters; empty means "{{" and "}}".
	Left, Right string
}

// Renderer executes templates against parameter records. It is safe for
// concurrent use.
type Renderer struct {
	funcs template.FuncMap

	mu     sync.Mutex
	parsed map[Template]*template.Template
}

// NewRenderer returns a renderer whose templates see the given namer and
// header through their functions.
func NewRenderer(n Namer, header string) *Renderer {
	return &Renderer{
		funcs:  Funcs(n, header),
		parsed: make(map[Template]*template.Template),
	}
}

// Funcs returns the functions available to templates.
func Funcs(n Namer, header string) template.FuncMap {
	return template.FuncMap{
		"pascal":   pascal,
		"camel":    camel,
		"snake":    snake,
		"class":    n.ClassName,
		"variable": n.Variable,
		"url":      n.URL,
		"plural":   n.Plural,
		"title":    func(s string) string { return n.TitleCase(s, " ") },
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"join":     func(elems []string, sep string) string { return strings.Join(elems, sep) },
		"quote":    strconv.Quote,
		"golit":    golit,
		"gotype":   gotypeFunc,
		"imports":  columnImports,
		"column":   column,
		"header":   func() string { return header },
	}
}

// golit returns the Go literal of v.
func golit(v any) string {
	return fmt.Sprintf("%#v", jen.Lit(v))
}

func gotypeFunc(c *schema.Column) string {
	if c == nil {
		return "any"
	}
	return goType(c)
}

// column returns the named column, or nil.
func column(cols []*schema.Column, name string) *schema.Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Render executes the template with the bindings of the parameter record,
// overridden by extra. The result depends only on its inputs.
func (r *Renderer) Render(t *Template, p *Params, extra map[string]any) (string, error) {
	tmpl, err := r.parse(t)
	if err != nil {
		return "", err
	}
	data := p.Map()
	maps.Copy(data, extra)
	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", t.Name, err)
	}
	return b.String(), nil
}

func (r *Renderer) parse(t *Template) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.parsed[*t]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New(t.Name).
		Delims(t.Left, t.Right).
		Funcs(r.funcs).
		Option("missingkey=error").
		Parse(t.Text)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", t.Name, err)
	}
	r.parsed[*t] = tmpl
	return tmpl, nil
}

// LoadTemplate returns the named template from dir when the file exists
// there, or the built-in one otherwise. Templates under views/ use the
// "[[" and "]]" delimiters.
func LoadTemplate(dir, name string) (*Template, error) {
	var (
		b   []byte
		err error
	)
	if dir != "" {
		b, err = os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read template %q: %w", name, err)
		}
	}
	if b == nil {
		if b, err = fs.ReadFile(templates.FS, name); err != nil {
			return nil, fmt.Errorf("read template %q: %w", name, err)
		}
	}
	t := &Template{Name: name, Text: string(b)}
	if strings.HasPrefix(name, "views/") {
		t.Left, t.Right = "[[", "]]"
	}
	return t, nil
}

// formatSource formats Go source and groups its imports.
func formatSource(file string, src []byte) ([]byte, error) {
	return imports.Process(file, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}
