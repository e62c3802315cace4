package templates

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk form of a template set.
type Catalog struct {
	Templates []Template `yaml:"templates"`
	Generic   Template   `yaml:"generic"`
}

// BuiltinCatalog returns the compiled-in templates as a Catalog.
func BuiltinCatalog() Catalog {
	return Catalog{Templates: BuiltinTemplates(), Generic: GenericTemplate()}
}

// LoadCatalog reads a YAML template catalog from disk.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading template catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parsing template catalog: %w", err)
	}
	return cat, nil
}

// LoadRegistry reads and compiles a catalog. An empty path yields the
// built-in registry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return FromCatalog(cat)
}

// WriteCatalog encodes a catalog as YAML.
func WriteCatalog(w io.Writer, cat Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return fmt.Errorf("encoding template catalog: %w", err)
	}
	return enc.Close()
}

// SaveCatalog writes a catalog to a YAML file.
func SaveCatalog(path string, cat Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating template catalog: %w", err)
	}
	defer f.Close()

	return WriteCatalog(f, cat)
}
