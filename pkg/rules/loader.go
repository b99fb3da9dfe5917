package rules

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoaderConfig contains configuration for the catalog loader.
type LoaderConfig struct {
	// MaxFileSize is the maximum catalog file size in bytes.
	// Default: 1MB.
	MaxFileSize int64

	// Extensions are the file extensions treated as catalog files when
	// loading a directory. Default: .yaml, .yml.
	Extensions []string
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize: 1 << 20,
		Extensions:  []string{".yaml", ".yml"},
	}
}

// catalogFile is the on-disk YAML shape of one rule catalog.
type catalogFile struct {
	Regulation string  `yaml:"regulation"`
	Version    string  `yaml:"version"`
	Rules      []*Rule `yaml:"rules"`
}

// Loader reads rule catalogs from the file system.
type Loader struct {
	config *LoaderConfig
	opts   CatalogOptions
}

// NewLoader creates a catalog loader. The options are applied to every
// catalog built by this loader.
func NewLoader(config *LoaderConfig, opts CatalogOptions) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config, opts: opts}
}

// LoadFile loads and validates a single catalog file.
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}
	if info.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, &ParseError{FilePath: path, Cause: err}
	}
	if cf.Regulation == "" {
		return nil, &LoadError{FilePath: path, Message: "missing regulation identifier"}
	}

	return NewCatalog(cf.Regulation, cf.Version, cf.Rules, l.opts)
}

// LoadDirectory loads every catalog file in dir (non-recursive) and
// merges files that declare the same regulation. The merged rule order
// follows lexical file order so reloads are deterministic.
func (l *Loader) LoadDirectory(dir string) (map[string]*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if l.isCatalogFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}
	if len(paths) == 0 {
		return nil, &LoadError{FilePath: dir, Message: "no catalog files found in directory"}
	}

	// Group raw files by regulation before validating, so cross-file
	// duplicate rule ids surface as catalog defects.
	type group struct {
		version string
		rules   []*Rule
	}
	groups := make(map[string]*group)
	var order []string

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
		}
		var cf catalogFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, &ParseError{FilePath: path, Cause: err}
		}
		if cf.Regulation == "" {
			return nil, &LoadError{FilePath: path, Message: "missing regulation identifier"}
		}

		g, ok := groups[cf.Regulation]
		if !ok {
			g = &group{version: cf.Version}
			groups[cf.Regulation] = g
			order = append(order, cf.Regulation)
		}
		g.rules = append(g.rules, cf.Rules...)
	}

	catalogs := make(map[string]*Catalog, len(groups))
	for _, regulation := range order {
		g := groups[regulation]
		catalog, err := NewCatalog(regulation, g.version, g.rules, l.opts)
		if err != nil {
			return nil, err
		}
		catalogs[regulation] = catalog
	}
	return catalogs, nil
}

// isCatalogFile reports whether path has a recognised catalog extension.
func (l *Loader) isCatalogFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range l.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
