// Package templates holds the built-in templates of the generator.
//
// Go source templates use the default "{{" and "}}" delimiters. View
// templates under views/ use "[[" and "]]" so that the "{{ }}" actions of
// the generated html/template views pass through untouched.
package templates

import "embed"

// FS holds the built-in templates.
//
//go:embed *.tmpl views/*.tmpl
var FS embed.FS

// Names of the built-in templates.
const (
	BaseModel  = "base_model.tmpl"
	Model      = "model.tmpl"
	Parent     = "parent.tmpl"
	BaseQuery  = "base_query.tmpl"
	Query      = "query.tmpl"
	Controller = "controller.tmpl"
)

// View returns the template name of the given view file, e.g. "edit.html".
func View(file string) string {
	return "views/" + file + ".tmpl"
}
