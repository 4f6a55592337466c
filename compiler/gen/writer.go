package gen

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/scaffold"
)

// Outcome is the result of emitting one artifact.
type Outcome int

// Artifact outcomes.
const (
	// Unchanged means the file already held the rendered content.
	Unchanged Outcome = iota
	// Created means the file did not exist.
	Created
	// Written means the file existed with different content.
	Written
	// Skipped means the file exists and is never overwritten.
	Skipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Created:
		return "created"
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Artifact kinds.
const (
	KindBaseModel  = "base_model"
	KindModel      = "model"
	KindParent     = "parent"
	KindBaseQuery  = "base_query"
	KindQuery      = "query"
	KindView       = "view"
	KindController = "controller"
	KindSchemaDump = "schema_dump"
)

// Artifact describes one emitted file.
type Artifact struct {
	Table   string // empty for the schema dump
	Kind    string
	Path    string
	Outcome Outcome
	Bytes   int
}

// Report lists the artifacts of a generation run in emission order.
type Report struct {
	RunID     string
	Artifacts []Artifact
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Count returns the number of artifacts with the given outcome.
func (r *Report) Count(o Outcome) int {
	var n int
	for _, a := range r.Artifacts {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// Changed returns the number of files whose content changed.
func (r *Report) Changed() int {
	return r.Count(Created) + r.Count(Written)
}

// Merge appends the artifacts of another report.
func (r *Report) Merge(o *Report) {
	if o != nil {
		r.Artifacts = append(r.Artifacts, o.Artifacts...)
	}
}

// writePolicy decides whether an existing file is replaced.
type writePolicy int

const (
	// writeIfChanged overwrites machine-owned files whose content differs.
	writeIfChanged writePolicy = iota
	// writeIfAbsent creates hand-owned files once and never touches them again.
	writeIfAbsent
	// writeAlways rewrites the file on every run.
	writeAlways
)

// fileExists reports whether a file exists at path.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// writeFile writes content to path according to the policy.
func writeFile(path string, content []byte, policy writePolicy) (Outcome, error) {
	if policy == writeIfAbsent {
		exists, err := fileExists(path)
		if err != nil || exists {
			return Skipped, err
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return 0, err
		}
		return Created, nil
	}
	old, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}
	same := exists && bytes.Equal(old, content)
	if same && policy == writeIfChanged {
		return Unchanged, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return 0, err
	}
	switch {
	case same:
		return Unchanged, nil
	case exists:
		return Written, nil
	default:
		return Created, nil
	}
}

// normalizeDir converts backslashes to slashes, enforces a trailing slash
// and checks that the directory exists.
func normalizeDir(path string) (string, error) {
	if path == "" {
		return "", scaffold.NewPathNotFoundError("", nil)
	}
	path = strings.ReplaceAll(path, `\`, "/")
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", scaffold.NewPathNotFoundError(path, err)
	}
	if !fi.IsDir() {
		return "", scaffold.NewPathNotFoundError(path, errors.New("not a directory"))
	}
	return path, nil
}
