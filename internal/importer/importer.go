package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when no extractor handles a file.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is the raw content recovered from a statement file. PDFs yield
// Pages; spreadsheets and CSV exports yield Tables and a text rendition in
// Pages so that bank detection can run on either.
type Document struct {
	Pages  []string
	Tables [][][]string
}

// Text joins all pages with newlines.
func (d Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// Extractor converts statement file bytes into a Document.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (Document, error)
	Format() string
	Extensions() []string
}

// Registry holds named extractors and the file extensions they handle.
type Registry struct {
	extractors map[string]Extractor
	byExt      map[string]Extractor
}

// FileInfo describes a statement file in an inbox directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		byExt:      make(map[string]Extractor),
	}
}

// Register adds an extractor. Panics on duplicate format or extension.
func (r *Registry) Register(e Extractor) {
	key := strings.ToLower(e.Format())
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor format: " + key)
	}
	r.extractors[key] = e

	for _, ext := range e.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; ok {
			panic("duplicate extractor extension: " + ext)
		}
		r.byExt[ext] = e
	}
}

// Get returns the extractor for format, or nil.
func (r *Registry) Get(format string) Extractor {
	return r.extractors[strings.ToLower(format)]
}

// ForFile returns the extractor for name's extension.
func (r *Registry) ForFile(name string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if e, ok := r.byExt[ext]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
}

// Supported reports whether name has a registered extension.
func (r *Registry) Supported(name string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Formats returns registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in extractors.
// ChaseCSV has no extension of its own; select it by format name.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PDFExtractor{})
	r.Register(&CSVExtractor{})
	r.Register(&XLSXExtractor{})
	r.Register(&ChaseCSV{})
	return r
}

// ForFile dispatches on name's extension using the default extractors.
func ForFile(name string) (Extractor, error) {
	return DefaultRegistry().ForFile(name)
}

// processedDir is the subdirectory that receives processed statements.
const processedDir = "processed"

// Scan returns the supported statement files directly inside dir.
// Subdirectories, including processed/, are ignored.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !r.Supported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// tableText renders table rows as comma-joined lines for bank detection.
func tableText(table [][]string) string {
	lines := make([]string, 0, len(table))
	for _, row := range table {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}
