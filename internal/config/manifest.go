// Package config loads merge manifests.
//
// A manifest lists the sources of one merge and its options:
//
//	sources:
//	  - path: run-a.mux2
//	    weight: 0.5
//	  - path: run-b.mux2.zst
//	    weight: 0.5
//	stations: [4, 0, 7]
//	verbose: true
//	byte_order: little
//	concurrency: 4
//
// Relative source paths are resolved against the manifest's directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
	"github.com/arloliu/tidemux/mux2"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultWeight is the weight of a source that does not set one.
const DefaultWeight = 1.0

// Manifest describes one merge.
type Manifest struct {
	// Sources lists the MUX2 files in merge order.
	Sources []SourceEntry `yaml:"sources" validate:"required,min=1,dive"`

	// Stations selects global station indices in row order. Empty selects all.
	Stations []int `yaml:"stations,omitempty" validate:"dive,min=0"`

	// Verbose enables progress and diagnostic logging.
	Verbose bool `yaml:"verbose,omitempty"`

	// ByteOrder is "little" (default), "big" or "native".
	ByteOrder string `yaml:"byte_order,omitempty"`

	// Concurrency is the number of sources decoded in parallel. 0 means 1.
	Concurrency int `yaml:"concurrency,omitempty" validate:"min=0"`
}

// SourceEntry is one source of a manifest.
type SourceEntry struct {
	Path string `yaml:"path" validate:"required"`

	// Weight defaults to DefaultWeight when omitted.
	Weight *float64 `yaml:"weight,omitempty"`
}

// Load reads, resolves and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data, filepath.Dir(path))
}

// Parse decodes a manifest, resolves relative source paths against baseDir
// and validates it. Unknown fields are rejected.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	var m Manifest

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	for i, src := range m.Sources {
		if src.Path != "" && !filepath.IsAbs(src.Path) && baseDir != "" {
			m.Sources[i].Path = filepath.Join(baseDir, src.Path)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks the manifest for values no merge could accept.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", errs.ErrInvalidManifest, describe(verrs[0]))
		}

		return fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	for i, src := range m.Sources {
		if w := src.weight(); math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: source %d has weight %v", errs.ErrInvalidManifest, i, w)
		}
	}

	if _, err := endian.ParseEngine(m.ByteOrder); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report yaml field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Manifest.")

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must be non-empty"
		}
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s fails %q", field, fe.Tag())
	}
}

// MuxSources returns the sources with defaulted weights.
func (m *Manifest) MuxSources() []mux2.Source {
	out := make([]mux2.Source, len(m.Sources))
	for i, src := range m.Sources {
		out[i] = mux2.Source{Path: src.Path, Weight: src.weight()}
	}

	return out
}

// Options returns the merge options the manifest selects.
func (m *Manifest) Options() ([]mux2.Option, error) {
	engine, err := endian.ParseEngine(m.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	return []mux2.Option{
		mux2.WithStations(m.Stations),
		mux2.WithVerbose(m.Verbose),
		mux2.WithByteOrder(engine),
		mux2.WithConcurrency(max(m.Concurrency, 1)),
	}, nil
}

func (s SourceEntry) weight() float64 {
	if s.Weight == nil {
		return DefaultWeight
	}

	return *s.Weight
}
