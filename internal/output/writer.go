// Package output persists generated type sources and their auxiliary files.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/usestring/apitypes/internal/typegen"
)

// File names of the auxiliary artifacts.
const (
	IndexFile        = "index.ts"
	UsageExampleFile = "usage-example.ts"
)

// PersistenceError reports a filesystem failure. It is fatal for a run.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Writer writes artifacts into one output directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer for dir, resolved to an absolute path.
func NewWriter(dir string) (*Writer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve", Path: dir, Err: err}
	}
	return &Writer{dir: abs, now: time.Now}, nil
}

// Dir returns the absolute output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// EnsureDir creates the output directory and any parents. It is idempotent.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return &PersistenceError{Op: "create directory", Path: w.dir, Err: err}
	}
	return nil
}

// WriteArtifact writes content to {dir}/{name}.ts and returns the path.
func (w *Writer) WriteArtifact(name, content string) (string, error) {
	return w.write(name+".ts", content)
}

// WriteSchema writes a JSON Schema document to {dir}/{name}.schema.json.
func (w *Writer) WriteSchema(name, doc string) (string, error) {
	return w.write(name+".schema.json", doc+"\n")
}

// WriteAuxiliary writes index.ts and usage-example.ts for the successfully
// generated names, in order. It writes nothing when names is empty.
func (w *Writer) WriteAuxiliary(names []string, format typegen.Format) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	index, err := w.write(IndexFile, renderIndex(names, format, w.now()))
	if err != nil {
		return nil, err
	}
	usage, err := w.write(UsageExampleFile, renderUsageExample(names, format))
	if err != nil {
		return []string{index}, err
	}
	return []string{index, usage}, nil
}

func (w *Writer) write(file, content string) (string, error) {
	path := filepath.Join(w.dir, file)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &PersistenceError{Op: "write", Path: path, Err: err}
	}
	slog.Debug("wrote file",
		slog.String("path", path),
		slog.Int("bytes", len(content)),
	)
	return path, nil
}
