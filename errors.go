// Package scaffold derives data-access classes, views and controllers from a
// relational database schema. The error kinds shared by its packages live here.
package scaffold

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrSchemaLookup is returned when a requested table does not exist in the schema.
	ErrSchemaLookup = errors.New("scaffold: table not found in schema")

	// ErrPathNotFound is returned when a target directory is empty or does not exist.
	ErrPathNotFound = errors.New("scaffold: path not found")
)

// SchemaLookupError represents an error when a table is not part of the schema.
type SchemaLookupError struct {
	table  string
	schema string // Optional: the schema or connection that was searched
}

// Error returns the error string.
func (e *SchemaLookupError) Error() string {
	if e.schema != "" {
		return fmt.Sprintf("scaffold: unable to get structure for table %q in %q", e.table, e.schema)
	}
	return fmt.Sprintf("scaffold: unable to get structure for table %q", e.table)
}

// Is reports whether the target error matches SchemaLookupError.
// This allows errors.Is(lookupErr, ErrSchemaLookup) to return true.
func (e *SchemaLookupError) Is(err error) bool {
	return err == ErrSchemaLookup
}

// Table returns the table name that was searched for.
func (e *SchemaLookupError) Table() string {
	return e.table
}

// Schema returns the schema name, if available.
func (e *SchemaLookupError) Schema() string {
	return e.schema
}

// NewSchemaLookupError returns a new SchemaLookupError for the given table.
func NewSchemaLookupError(table string) *SchemaLookupError {
	return &SchemaLookupError{table: table}
}

// NewSchemaLookupErrorIn returns a new SchemaLookupError with the schema that was searched.
func NewSchemaLookupErrorIn(schema, table string) *SchemaLookupError {
	return &SchemaLookupError{table: table, schema: schema}
}

// IsSchemaLookup returns true if the error is a SchemaLookupError.
func IsSchemaLookup(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaLookupError
	return errors.As(err, &e) || errors.Is(err, ErrSchemaLookup)
}

// PathNotFoundError represents a target directory that is empty or missing.
type PathNotFoundError struct {
	Path string // Normalized path, empty when none was given
	Err  error  // Underlying stat error, if any
}

// Error returns the error string.
func (e *PathNotFoundError) Error() string {
	if e.Path == "" {
		return "scaffold: path cannot be empty"
	}
	if e.Err != nil {
		return fmt.Sprintf("scaffold: path %q does not exist: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("scaffold: path %q does not exist", e.Path)
}

// Is reports whether the target error matches PathNotFoundError.
func (e *PathNotFoundError) Is(err error) bool {
	return err == ErrPathNotFound
}

// Unwrap returns the underlying error.
func (e *PathNotFoundError) Unwrap() error {
	return e.Err
}

// NewPathNotFoundError returns a new PathNotFoundError.
func NewPathNotFoundError(path string, err error) *PathNotFoundError {
	return &PathNotFoundError{Path: path, Err: err}
}

// IsPathNotFound returns true if the error is a PathNotFoundError.
func IsPathNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *PathNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrPathNotFound)
}
