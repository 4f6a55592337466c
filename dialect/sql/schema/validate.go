package schema

import (
	"fmt"
	"slices"
	"strings"

	dbschema "github.com/syssam/scaffold/schema"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates the change invalidates hand-written code built on
	// the generated files.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	breaking := func(e *ValidationError) bool { return e.Breaking }
	return slices.ContainsFunc(r.Errors, breaking) || slices.ContainsFunc(r.Warnings, breaking)
}

// Err returns the errors joined in one error, or nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("schema: invalid: %s", strings.Join(msgs, "; "))
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range errs {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateTable validates a single table description.
func ValidateTable(t *dbschema.Table) *ValidationResult {
	result := &ValidationResult{}
	switch pk := t.PrimaryKey(); {
	case len(pk) == 0:
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key, rows get no actions",
		})
	case len(pk) > 1:
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has a composite primary key, rows get no standard actions",
		})
	}

	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) == 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key %q has no columns", fk.Symbol),
			})
		}
		for _, col := range fk.Columns {
			if !colNames[col] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent column %q", col),
				})
			}
		}
	}
	return result
}

// ValidateSchema validates all tables of a database. Foreign keys to
// tables outside the database are warnings, since inspection may be
// limited to a subset of the tables.
func ValidateSchema(db *dbschema.Database) *ValidationResult {
	result := &ValidationResult{}
	tableNames := make(map[string]bool)
	for _, t := range db.Tables {
		if tableNames[t.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		tableNames[t.Name] = true

		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}
	for _, t := range db.Tables {
		for _, fk := range t.ForeignKeys {
			if !tableNames[fk.RefTable] {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references unknown table %q", fk.RefTable),
				})
			}
		}
	}
	return result
}

// ValidateDiff reports the changes from the current to the desired schema
// that affect code written on top of the generated files. Dropped tables
// and columns are breaking, since model and query stubs are never removed
// and may still use them.
//
// Example:
//
//	result := schema.ValidateDiff(previous, inspected)
//	if result.HasBreakingChanges() {
//	    fmt.Println(result)
//	}
func ValidateDiff(current, desired *dbschema.Database) *ValidationResult {
	result := &ValidationResult{}
	for _, t := range current.Tables {
		d, ok := desired.Table(t.Name)
		if !ok {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:    t.Name,
				Message:  "table was dropped, its stubs are left in place",
				Breaking: true,
			})
			continue
		}
		validateTableDiff(t, d, result)
	}
	return result
}

func validateTableDiff(current, desired *dbschema.Table, result *ValidationResult) {
	for _, c := range current.Columns {
		if _, ok := desired.Column(c.Name); !ok {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:    current.Name,
				Column:   c.Name,
				Message:  "column was dropped",
				Breaking: true,
			})
		}
	}
	for _, d := range desired.Columns {
		c, ok := current.Column(d.Name)
		if !ok {
			continue
		}
		if !strings.EqualFold(c.Type, d.Type) {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  d.Name,
				Message: fmt.Sprintf("column type changing from %s to %s", c.Type, d.Type),
			})
		}
		if c.Nullable != d.Nullable {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:    current.Name,
				Column:   d.Name,
				Message:  "column nullability changed, its Go type changes",
				Breaking: true,
			})
		}
	}
	pk := func(t *dbschema.Table) []string {
		var names []string
		for _, c := range t.PrimaryKey() {
			names = append(names, c.Name)
		}
		return names
	}
	if !slices.Equal(pk(current), pk(desired)) {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:    current.Name,
			Message:  "primary key changed, row actions and getters change",
			Breaking: true,
		})
	}
}
