package gen

import (
	"context"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/scaffold/compiler/gen/templates"
)

// Generator renders and writes the artifacts of database tables.
type Generator struct {
	config   *Config
	facts    SchemaFacts
	renderer *Renderer

	// Optional capabilities of the schema source detected at construction.
	ddl  DDLSource
	info ConnectionInfo
}

// NewGenerator returns a generator over the given schema. Sources that
// implement DDLSource get their DDL dumped next to the models; those that
// implement ConnectionInfo name the dump and the template bindings.
func NewGenerator(facts SchemaFacts, opts ...Option) (*Generator, error) {
	if facts == nil {
		return nil, NewConfigError("SchemaFacts", nil, "schema cannot be nil")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		config:   cfg,
		facts:    facts,
		renderer: NewRenderer(cfg.Namer, cfg.Header),
	}
	if d, ok := facts.(DDLSource); ok {
		g.ddl = d
	}
	if i, ok := facts.(ConnectionInfo); ok {
		g.info = i
	}
	return g, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.config }

func (g *Generator) connection() string {
	switch {
	case g.config.Connection != "":
		return g.config.Connection
	case g.info != nil && g.info.ConnectionName() != "":
		return g.info.ConnectionName()
	default:
		return "default"
	}
}

func (g *Generator) dbName() string {
	if g.info != nil {
		return g.info.DBName()
	}
	return ""
}

func (g *Generator) dialect() string {
	if g.info != nil {
		return g.info.DialectName()
	}
	return ""
}

// Render renders the named template for a table. Extra bindings override
// the ones of the table parameter record.
func (g *Generator) Render(table, name string, extra map[string]any) (string, error) {
	p, err := g.Params(table)
	if err != nil {
		return "", err
	}
	t, err := LoadTemplate(g.config.TemplateDir, name)
	if err != nil {
		return "", err
	}
	return g.renderer.Render(t, p, extra)
}

// Dirs holds the target directories of Generate. Empty directories skip
// their artifact class, except BaseModels which defaults to Models/base/.
type Dirs struct {
	Models      string
	BaseModels  string
	Queries     string
	BaseQueries string
	Views       string
	Controllers string
}

// Generate runs every artifact class whose directory is set, in the order
// models, queries, views and controllers. It stops at the first failing
// class; classes already run keep their files.
func (g *Generator) Generate(ctx context.Context, tables []string, dirs Dirs) (*Report, error) {
	report := newReport()
	steps := []struct {
		dir string
		run func() (*Report, error)
	}{
		{dirs.Models, func() (*Report, error) {
			return g.GenerateModels(ctx, tables, dirs.Models, dirs.BaseModels)
		}},
		{dirs.Queries, func() (*Report, error) {
			return g.GenerateModelQueries(ctx, tables, dirs.Queries, dirs.BaseQueries)
		}},
		{dirs.Views, func() (*Report, error) {
			return g.GenerateViews(ctx, tables, dirs.Views)
		}},
		{dirs.Controllers, func() (*Report, error) {
			return g.GenerateControllers(ctx, tables, dirs.Controllers)
		}},
	}
	for _, s := range steps {
		if s.dir == "" {
			continue
		}
		r, err := s.run()
		report.Merge(r)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// GenerateModels writes the base model of every table into baseModelDir,
// replacing it when its content changed, and the model stub into modelDir
// when it does not exist yet. The DDL of the schema is then written to
// "<connection>-schema.sql" in modelDir. A nil table list means every
// table; an empty one writes nothing. An empty baseModelDir defaults to
// modelDir/base/.
func (g *Generator) GenerateModels(ctx context.Context, tables []string, modelDir, baseModelDir string) (*Report, error) {
	tables = g.resolve(tables)
	if len(tables) == 0 {
		return newReport(), nil
	}
	if g.ddl == nil {
		return nil, NewConfigError("SchemaFacts", nil, "schema source cannot produce DDL")
	}
	modelDir, err := normalizeDir(modelDir)
	if err != nil {
		return nil, err
	}
	if baseModelDir == "" {
		baseModelDir = modelDir + "base/"
	}
	if baseModelDir, err = normalizeDir(baseModelDir); err != nil {
		return nil, err
	}
	stub := map[string]any{
		"package":      packageName(modelDir),
		"base_package": packageName(baseModelDir),
		"base_import":  baseImport(g.config.Package, modelDir, baseModelDir),
	}
	base := map[string]any{"package": packageName(baseModelDir)}
	report, err := g.emit(ctx, "models", tables, func(p *Params) []*artifact {
		file := snake(p.ModelName)
		return []*artifact{
			{kind: KindBaseModel, tmpl: templates.BaseModel, path: baseModelDir + "base_" + file + ".go", policy: writeIfChanged, extra: base},
			{kind: KindModel, tmpl: templates.Model, path: modelDir + file + ".go", policy: writeIfAbsent, extra: stub},
		}
	})
	if err != nil {
		return report, err
	}
	if err := g.writeParent(report, baseModelDir, base); err != nil {
		return report, err
	}
	if err := g.dumpSchema(ctx, report, modelDir); err != nil {
		return report, err
	}
	return report, nil
}

// GenerateModelQueries writes the base query of every table into
// baseQueryDir, replacing it when its content changed, and the query stub
// into queryDir when it does not exist yet.
func (g *Generator) GenerateModelQueries(ctx context.Context, tables []string, queryDir, baseQueryDir string) (*Report, error) {
	tables = g.resolve(tables)
	if len(tables) == 0 {
		return newReport(), nil
	}
	queryDir, err := normalizeDir(queryDir)
	if err != nil {
		return nil, err
	}
	if baseQueryDir, err = normalizeDir(baseQueryDir); err != nil {
		return nil, err
	}
	pkg := g.config.QueryPackage
	if pkg == "" {
		pkg = path.Join(path.Dir(g.config.Package), packageName(queryDir))
	}
	stub := map[string]any{
		"package":      packageName(queryDir),
		"base_package": packageName(baseQueryDir),
		"base_import":  baseImport(pkg, queryDir, baseQueryDir),
	}
	base := map[string]any{"package": packageName(baseQueryDir)}
	return g.emit(ctx, "queries", tables, func(p *Params) []*artifact {
		file := snake(p.ModelName) + "_query"
		return []*artifact{
			{kind: KindBaseQuery, tmpl: templates.BaseQuery, path: baseQueryDir + "base_" + file + ".go", policy: writeIfChanged, extra: base},
			{kind: KindQuery, tmpl: templates.Query, path: queryDir + file + ".go", policy: writeIfAbsent, extra: stub},
		}
	})
}

// GenerateViews writes the configured views of every table into
// viewDir/<plural url>/, creating that directory when missing. Existing
// views are never overwritten.
func (g *Generator) GenerateViews(ctx context.Context, tables []string, viewDir string) (*Report, error) {
	tables = g.resolve(tables)
	if len(tables) == 0 {
		return newReport(), nil
	}
	viewDir, err := normalizeDir(viewDir)
	if err != nil {
		return nil, err
	}
	return g.emit(ctx, "views", tables, func(p *Params) []*artifact {
		dir := viewDir + p.PluralURL + "/"
		artifacts := make([]*artifact, len(g.config.ViewTemplates))
		for i, name := range g.config.ViewTemplates {
			artifacts[i] = &artifact{kind: KindView, tmpl: templates.View(name), path: dir + name, policy: writeIfAbsent, mkdir: true}
		}
		return artifacts
	})
}

// GenerateControllers writes the controller of every table into
// controllerDir when it does not exist yet.
func (g *Generator) GenerateControllers(ctx context.Context, tables []string, controllerDir string) (*Report, error) {
	tables = g.resolve(tables)
	if len(tables) == 0 {
		return newReport(), nil
	}
	controllerDir, err := normalizeDir(controllerDir)
	if err != nil {
		return nil, err
	}
	extra := map[string]any{"package": packageName(controllerDir)}
	return g.emit(ctx, "controllers", tables, func(p *Params) []*artifact {
		return []*artifact{
			{kind: KindController, tmpl: templates.Controller, path: controllerDir + snake(p.ControllerName) + ".go", policy: writeIfAbsent, extra: extra},
		}
	})
}

// resolve returns the tables to generate. A nil list means every table.
func (g *Generator) resolve(tables []string) []string {
	if tables == nil {
		return g.facts.TableNames()
	}
	return tables
}

// artifact is one file planned for a table.
type artifact struct {
	kind   string
	tmpl   string
	path   string
	policy writePolicy
	extra  map[string]any
	mkdir  bool

	exists  bool
	content []byte
}

// tableJob holds the rendered artifacts of one table.
type tableJob struct {
	table     string
	artifacts []*artifact
	err       error
}

// emit renders the artifacts of all tables concurrently, then writes them
// table by table in the given order. A failure stops the run; the files
// of earlier tables stay written.
func (g *Generator) emit(ctx context.Context, class string, tables []string, plan func(*Params) []*artifact) (*Report, error) {
	report := newReport()
	log := g.config.Logger.With("class", class, "run", report.RunID)
	jobs := make([]*tableJob, len(tables))
	var eg errgroup.Group
	eg.SetLimit(g.config.Workers)
	for i, table := range tables {
		jobs[i] = &tableJob{table: table}
		eg.Go(func() error {
			jobs[i].artifacts, jobs[i].err = g.render(ctx, table, plan)
			return jobs[i].err
		})
	}
	// Tables before the first failed one are still written.
	failed := len(jobs)
	if err := eg.Wait(); err != nil {
		failed = slices.IndexFunc(jobs, func(j *tableJob) bool { return j.err != nil })
	}
	for _, job := range jobs[:failed] {
		for _, a := range job.artifacts {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			outcome, err := g.write(a)
			if err != nil {
				return report, NewGenerationError(PhaseWrite, job.table, a.path, err)
			}
			report.Artifacts = append(report.Artifacts, Artifact{
				Table:   job.table,
				Kind:    a.kind,
				Path:    a.path,
				Outcome: outcome,
				Bytes:   len(a.content),
			})
			log.Debug("artifact", "table", job.table, "path", a.path, "outcome", outcome)
		}
	}
	if failed < len(jobs) {
		return report, jobs[failed].err
	}
	log.Info("generated", "tables", len(tables), "changed", report.Changed())
	return report, nil
}

// render builds the parameter record of a table and renders its planned
// artifacts. Write-once artifacts that already exist are not rendered.
func (g *Generator) render(ctx context.Context, table string, plan func(*Params) []*artifact) ([]*artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := g.Params(table)
	if err != nil {
		return nil, err
	}
	artifacts := plan(p)
	for _, a := range artifacts {
		if err := g.renderArtifact(table, p, a); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}

// renderArtifact fills the content of a. Write-once artifacts that
// already exist are only marked as such.
func (g *Generator) renderArtifact(table string, p *Params, a *artifact) error {
	if a.policy == writeIfAbsent {
		exists, err := fileExists(a.path)
		if err != nil {
			return NewGenerationError(PhaseWrite, table, a.path, err)
		}
		if a.exists = exists; exists {
			return nil
		}
	}
	t, err := LoadTemplate(g.config.TemplateDir, a.tmpl)
	if err != nil {
		return NewGenerationError(PhaseRender, table, a.path, err)
	}
	out, err := g.renderer.Render(t, p, a.extra)
	if err != nil {
		return NewGenerationError(PhaseRender, table, a.path, err)
	}
	a.content = []byte(out)
	if strings.HasSuffix(a.path, ".go") {
		if a.content, err = formatSource(a.path, a.content); err != nil {
			return NewGenerationError(PhaseFormat, table, a.path, err)
		}
	}
	return nil
}

func (g *Generator) write(a *artifact) (Outcome, error) {
	if a.mkdir {
		if err := os.MkdirAll(path.Dir(a.path), 0o755); err != nil {
			return 0, err
		}
	}
	if a.exists {
		return Skipped, nil
	}
	return writeFile(a.path, a.content, a.policy)
}

// writeParent creates the type embedded into the base models, unless it
// is disabled or its file exists.
func (g *Generator) writeParent(report *Report, baseModelDir string, extra map[string]any) error {
	parent := g.config.BaseModelParentClass
	if parent == "" {
		return nil
	}
	extra = maps.Clone(extra)
	extra["parent"] = parent
	a := &artifact{kind: KindParent, tmpl: templates.Parent, path: baseModelDir + snake(parent) + ".go", policy: writeIfAbsent, extra: extra}
	if err := g.renderArtifact("", &Params{Options: g.config.Options()}, a); err != nil {
		return err
	}
	outcome, err := g.write(a)
	if err != nil {
		return NewGenerationError(PhaseWrite, "", a.path, err)
	}
	report.Artifacts = append(report.Artifacts, Artifact{Kind: a.kind, Path: a.path, Outcome: outcome, Bytes: len(a.content)})
	g.config.Logger.Debug("artifact", "path", a.path, "outcome", outcome, "run", report.RunID)
	return nil
}

// dumpSchema writes the DDL of the whole schema next to the models.
func (g *Generator) dumpSchema(ctx context.Context, report *Report, modelDir string) error {
	file := modelDir + g.connection() + "-schema.sql"
	ddl, err := g.ddl.CreateTablesDDL(ctx)
	if err != nil {
		return NewGenerationError(PhaseDump, "", file, err)
	}
	outcome, err := writeFile(file, []byte(ddl), writeAlways)
	if err != nil {
		return NewGenerationError(PhaseWrite, "", file, err)
	}
	report.Artifacts = append(report.Artifacts, Artifact{Kind: KindSchemaDump, Path: file, Outcome: outcome, Bytes: len(ddl)})
	g.config.Logger.Debug("artifact", "path", file, "outcome", outcome, "run", report.RunID)
	return nil
}

// baseImport returns the import path of the base package given the
// import path of the stub directory, or "" when both are the same
// directory. Base directories outside the stub directory are assumed to
// be its siblings.
func baseImport(pkg, dir, baseDir string) string {
	if filepath.Clean(dir) == filepath.Clean(baseDir) {
		return ""
	}
	rel, err := filepath.Rel(dir, baseDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path.Join(path.Dir(pkg), packageName(baseDir))
	}
	return path.Join(pkg, filepath.ToSlash(rel))
}

// packageName returns the Go package name of a directory.
func packageName(dir string) string {
	name := strings.ToLower(path.Base(strings.TrimSuffix(dir, "/")))
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}
