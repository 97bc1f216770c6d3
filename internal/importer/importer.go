package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// ReadOptions carries per-file settings a reader may need.
type ReadOptions struct {
	Sheet    string // spreadsheet tab; empty means the first one
	Encoding string // text encoding for delimited files
}

// Reader converts a tabular file into rows of cell text.
type Reader interface {
	Read(r io.Reader, opts ReadOptions) ([][]string, error)
	Extensions() []string
}

// Registry maps lower-case file extensions to readers.
type Registry struct {
	readers map[string]Reader
}

// Sentinel errors for load failures.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoDelimiter       = errors.New("could not determine delimiter")
	ErrMissingColumn     = errors.New("required column missing")
)

// LoadError wraps any failure that aborted loading a file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingColumnError reports a fixed act column that is absent.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found; available columns: %s", e.Column, strings.Join(e.Available, ", "))
}

// Is implements errors.Is support.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its extensions. Panics on duplicates.
func (r *Registry) Register(rd Reader) {
	for _, ext := range rd.Extensions() {
		key := normExt(ext)
		if _, ok := r.readers[key]; ok {
			panic("duplicate reader extension: " + key)
		}
		r.readers[key] = rd
	}
}

// Get returns the reader for ext (with or without a leading dot), or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[normExt(ext)]
}

// ForPath returns the reader for the extension of path.
func (r *Registry) ForPath(path string) (Reader, error) {
	ext := filepath.Ext(path)
	rd := r.Get(ext)
	if rd == nil {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
	}
	return rd, nil
}

// Extensions lists registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for k := range r.readers {
		exts = append(exts, "."+k)
	}
	sort.Strings(exts)
	return exts
}

// DefaultRegistry returns a registry with the spreadsheet and delimited text readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ExcelReader{})
	r.Register(&DelimitedReader{})
	return r
}

func normExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
