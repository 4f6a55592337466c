// Package gen derives per-table parameter records from a database schema
// and emits model, query, view and controller files from templates.
//
// # Pipeline
//
// Each artifact class follows the same flow:
//
//	SchemaFacts (tables, columns, keys)
//	        ↓
//	   Params (names, urls, primary key, actions)
//	        ↓
//	   Renderer (text/template, embedded or overridden)
//	        ↓
//	   imports.Process (Go files only)
//	        ↓
//	   write policy (if changed, if absent, always)
//
// Tables are rendered concurrently and written one after another in the
// order given, so a failure leaves the files of earlier tables in place.
//
// # Error Handling
//
//   - ConfigError: invalid options or a schema source missing a capability
//   - GenerationError: a render, format, write or dump failure of one file
//   - scaffold.SchemaLookupError: an unknown table
//   - scaffold.PathNotFoundError: a missing target directory
//
// Example error handling:
//
//	report, err := g.GenerateModels(ctx, nil, "app/models", "")
//	if err != nil {
//	    if scaffold.IsPathNotFound(err) {
//	        // create the directory first
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	g, err := gen.NewGenerator(schema,
//	    gen.WithPackage("github.com/org/project/app/models"),
//	    gen.WithModelSuffix("Model"),
//	    gen.WithStandardActions("Show", "Edit"),
//	)
//
// # Generated Output
//
//	{models}/
//	├── base/
//	│   └── base_{table}.go         // rewritten when the schema changes
//	├── {table}.go                  // written once
//	└── {connection}-schema.sql     // rewritten on every run
//	{queries}/
//	├── base/
//	│   └── base_{table}_query.go
//	└── {table}_query.go
//	{views}/
//	└── {plural-url}/
//	    ├── edit.html, index.html, grid.html, show.html
//	{controllers}/
//	└── {plurals}_controller.go
package gen
