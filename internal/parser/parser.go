package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Options controls how raw files are turned into datasets.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxRows limits rows ingested; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection: by name, else 1-based index (default first sheet).
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for ingestion.
func DefaultOptions() Options {
	return Options{MaxRows: 100000, SheetIndex: 1}
}

// Parser turns one file format into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (*dataset.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// ParseFile reads path and parses it with the first parser accepting its name.
func ParseFile(path string, opt Options) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(filepath.Base(path), data, opt)
}

// ParseBytes parses content using name to select the format.
func ParseBytes(name string, content []byte, opt Options) (*dataset.Dataset, error) {
	for _, p := range registry {
		if p.CanParse(name) {
			ds, err := p.Parse(content, withFileDefaults(name, opt))
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
}

// Supported reports whether some registered parser accepts name.
func Supported(name string) bool {
	for _, p := range registry {
		if p.CanParse(name) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
	Register(jsonParser{})
}
