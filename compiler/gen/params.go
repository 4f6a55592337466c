package gen

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/syssam/scaffold/schema"
)

// Action is a per-row link rendered in the grid and show views. Link is a
// template fragment evaluated by the generated view against the current
// row, e.g. "/users/edit/{{$user.GetID}}".
type Action struct {
	Label string `yaml:"label"`
	Link  string `yaml:"link"`
}

// Actions is an ordered list of actions with unique labels.
type Actions []Action

// Labels returns the action labels in order.
func (a Actions) Labels() []string {
	labels := make([]string, len(a))
	for i := range a {
		labels[i] = a[i].Label
	}
	return labels
}

// Link returns the link of the action with the given label.
func (a Actions) Link(label string) (string, bool) {
	i := slices.IndexFunc(a, func(x Action) bool { return x.Label == label })
	if i < 0 {
		return "", false
	}
	return a[i].Link, true
}

// add appends the action unless its label is already taken.
func (a Actions) add(label, link string) Actions {
	if _, ok := a.Link(label); ok {
		return a
	}
	return append(a, Action{Label: label, Link: link})
}

// Params is the parameter record derived from one table. Templates see it
// through Map. A Params is immutable once built.
type Params struct {
	TableName      string
	ModelName      string
	ControllerName string
	ColumnNames    []string
	// Plural and Single are the variable names of a list of rows and a
	// single row, e.g. "blogPosts" and "blogPost".
	Plural    string
	PluralURL string
	Single    string
	SingleURL string
	// PK is the name of the primary key column when the table has exactly
	// one, or empty otherwise.
	PK       string
	PKVar    string
	PKMethod string
	// PrimaryKeys lists every primary key column name.
	PrimaryKeys []string
	// AutoIncrement reports a single auto-increment primary key.
	AutoIncrement   bool
	Actions         Actions
	ActionIcons     map[string]string
	StandardActions []string
	Columns         []*schema.Column
	Options         map[string]string
	Connection      string
	DBName          string
	Dialect         string
}

// HasPK reports whether the table has a single-column primary key.
func (p *Params) HasPK() bool { return p.PK != "" }

// Map returns the template bindings of the record. The map is fresh on
// every call.
func (p *Params) Map() map[string]any {
	var pk, pkVar, pkMethod any
	if p.HasPK() {
		pk, pkVar, pkMethod = p.PK, p.PKVar, p.PKMethod
	}
	return map[string]any{
		"table_name":       p.TableName,
		"model_name":       p.ModelName,
		"controller_name":  p.ControllerName,
		"column_names":     slices.Clone(p.ColumnNames),
		"plural":           p.Plural,
		"plural_url":       p.PluralURL,
		"single":           p.Single,
		"single_url":       p.SingleURL,
		"pk":               pk,
		"pk_var":           pkVar,
		"pk_method":        pkMethod,
		"primary_keys":     slices.Clone(p.PrimaryKeys),
		"auto_increment":   p.AutoIncrement,
		"actions":          slices.Clone(p.Actions),
		"action_icons":     maps.Clone(p.ActionIcons),
		"standard_actions": slices.Clone(p.StandardActions),
		"columns":          slices.Clone(p.Columns),
		"options":          maps.Clone(p.Options),
		"connection":       p.Connection,
		"db_name":          p.DBName,
		"dialect":          p.Dialect,
	}
}

// Params derives the parameter record of a table. It fails with a
// *scaffold.SchemaLookupError when the table is unknown.
func (g *Generator) Params(table string) (*Params, error) {
	cols, err := g.facts.Columns(table)
	if err != nil {
		return nil, err
	}
	pks, err := g.facts.PrimaryKeys(table)
	if err != nil {
		return nil, err
	}
	n := g.config.Namer
	p := &Params{
		TableName:       table,
		ModelName:       g.modelName(table),
		ControllerName:  n.ClassName(n.Plural(table)) + "Controller",
		ColumnNames:     make([]string, len(cols)),
		Plural:          n.PluralVariable(table),
		PluralURL:       n.PluralURL(table),
		Single:          n.Variable(table),
		SingleURL:       n.URL(table),
		PrimaryKeys:     make([]string, len(pks)),
		ActionIcons:     maps.Clone(g.config.ActionIcons),
		StandardActions: slices.Clone(g.config.StandardActions),
		Columns:         cols,
		Options:         g.config.Options(),
		Connection:      g.connection(),
		DBName:          g.dbName(),
		Dialect:         g.dialect(),
	}
	for i, c := range cols {
		p.ColumnNames[i] = c.Name
	}
	for i, c := range pks {
		p.PrimaryKeys[i] = c.Name
	}
	if len(pks) == 1 {
		p.PK = pks[0].Name
		p.PKVar = n.Variable(p.PK)
		p.PKMethod = n.ClassMethod("get" + n.TitleCase(p.PK, ""))
		p.AutoIncrement = pks[0].IsAutoIncrement()
	}
	if p.Actions, err = g.actions(p); err != nil {
		return nil, err
	}
	return p, nil
}

// actions derives the per-row actions of a table with a single primary
// key: the standard actions first, then one link per referencing table.
// Only the first foreign key of each referencing table is linked.
func (g *Generator) actions(p *Params) (Actions, error) {
	if !p.HasPK() {
		return Actions{}, nil
	}
	n := g.config.Namer
	row := fmt.Sprintf("{{$%s.%s}}", p.Single, p.PKMethod)
	actions := make(Actions, 0, len(p.StandardActions))
	for _, label := range p.StandardActions {
		actions = actions.add(label, fmt.Sprintf("/%s/%s/%s", p.PluralURL, strings.ToLower(label), row))
	}
	refs, err := g.facts.ForeignKeysTo(p.TableName)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(refs))
	for _, fk := range refs {
		if seen[fk.Table] {
			continue
		}
		seen[fk.Table] = true
		label := n.TitleCase(n.Plural(fk.Table), " ")
		actions = actions.add(label, fmt.Sprintf("/%s?%s=%s", n.PluralURL(fk.Table), fk.FirstLocalColumn(), row))
	}
	return actions, nil
}

func (g *Generator) modelName(table string) string {
	return g.config.ModelPrefix + g.config.Namer.ClassName(table) + g.config.ModelSuffix
}
