// Package ingest reads the raw row text handed over by an extraction collaborator
// from files: plain text, CSV, XLSX or the collaborator's JSON response.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Source reads one document format.
type Source interface {
	Read(r io.Reader) (*model.Document, error)
	Format() string
	// Extensions lists the lower-case file extensions, with dot, the source handles.
	Extensions() []string
}

// Registry holds named sources.
type Registry struct {
	sources map[string]Source
	byExt   map[string]Source
}

// FileInfo describes an input file found by Scan.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
		byExt:   make(map[string]Source),
	}
}

// Register adds a source. Panics on duplicate format or extension.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
	for _, ext := range s.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; ok {
			panic("duplicate source extension: " + ext)
		}
		r.byExt[ext] = s
	}
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// ForFile returns the source registered for path's extension, or nil.
func (r *Registry) ForFile(path string) Source {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TextSource{})
	r.Register(&CSVSource{})
	r.Register(&XLSXSource{})
	r.Register(&JSONSource{})
	return r
}

// ReadFile reads path with the source matching its extension. hint, when set,
// overrides any document type in the file; otherwise the file's own type is used,
// and failing that the type is guessed from the lines.
func (r *Registry) ReadFile(path, hint string) (*model.Document, error) {
	src := r.ForFile(path)
	if src == nil {
		return nil, fmt.Errorf("no reader for %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	doc, err := src.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s as %s: %w", filepath.Base(path), src.Format(), err)
	}
	doc.Source = filepath.Base(path)

	switch {
	case strings.TrimSpace(hint) != "":
		doc.Type = ResolveDocumentType(hint)
	case doc.Type == "":
		doc.Type = DetectDocumentType(doc.Lines)
	}
	return doc, nil
}

// processedDir is the subdirectory inputs are moved to once normalized.
const processedDir = "processed"

// Scan returns the files in dir that some registered source can read.
// Subdirectories, including processed/, are not descended into.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := r.ForFile(e.Name())
		if src == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: src.Format(),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(dir, fileName)
	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
