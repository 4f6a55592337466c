package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped when the encoded layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version  int       `msgpack:"version"`
	Database *Database `msgpack:"database"`
}

// WriteSnapshot encodes the database to w.
func WriteSnapshot(w io.Writer, db *Database) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&snapshot{Version: snapshotVersion, Database: db}); err != nil {
		return fmt.Errorf("schema: encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a database previously written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Database, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("schema: decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("schema: unsupported snapshot version %d", s.Version)
	}
	if s.Database == nil {
		return nil, fmt.Errorf("schema: snapshot has no database")
	}
	return s.Database, nil
}

// SaveSnapshot writes the database snapshot to the given file.
func SaveSnapshot(path string, db *Database) error {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, db); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadSnapshot reads a database snapshot from the given file.
func LoadSnapshot(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
