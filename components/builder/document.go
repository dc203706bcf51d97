package builder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

const (
	documentVersionV1 = "1"
	// DocumentVersion exposes the current layout document format version.
	DocumentVersion = documentVersionV1
)

// LayoutDocument is the YAML export format of one or more layouts.
type LayoutDocument struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exportedAt,omitzero" yaml:"exportedAt,omitempty"`
	Layouts    []Layout  `json:"layouts" yaml:"layouts"`
	Source     string    `json:"-" yaml:"-"`
}

// NewLayoutDocument wraps layouts into an exportable document.
func NewLayoutDocument(now time.Time, layouts ...Layout) *LayoutDocument {
	doc := &LayoutDocument{
		Version:    documentVersionV1,
		ExportedAt: now,
		Layouts:    make([]Layout, len(layouts)),
	}
	for i, l := range layouts {
		doc.Layouts[i] = l.Clone()
	}
	return doc
}

// ExportFileName derives a file name for a layout export.
func ExportFileName(l Layout) string {
	name := strcase.ToKebab(l.Name)
	if name == "" {
		name = strcase.ToKebab(l.ID)
	}
	if name == "" {
		name = "layout"
	}
	return name + ".yaml"
}

// ReadLayoutDocument loads a document from disk.
func ReadLayoutDocument(path string) (*LayoutDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("builder: open layout document %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeLayoutDocument(f)
	if err != nil {
		return nil, fmt.Errorf("builder: decode layout document %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeLayoutDocument reads a document from any reader.
func DecodeLayoutDocument(r io.Reader) (*LayoutDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc LayoutDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("builder: layout document is empty")
		}
		return nil, fmt.Errorf("builder: parse layout document: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes the document as YAML.
func (doc *LayoutDocument) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("builder: encode layout document: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the document to path.
func (doc *LayoutDocument) WriteFile(path string) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("builder: create layout document %s: %w", path, err)
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate checks the version and that every layout keeps one placement per
// element with known element types.
func (doc *LayoutDocument) Validate() error {
	if doc.Version != documentVersionV1 {
		return fmt.Errorf("builder: unsupported layout document version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Layouts))
	for idx, l := range doc.Layouts {
		if l.Name == "" {
			return fmt.Errorf("builder: layout at index %d is missing a name", idx)
		}
		if l.ID != "" {
			if _, dup := seen[l.ID]; dup {
				return fmt.Errorf("builder: layout document duplicates layout id %s", l.ID)
			}
			seen[l.ID] = struct{}{}
		}
		for _, el := range l.Elements {
			if !el.Type.Valid() {
				return fmt.Errorf("builder: layout %s element %s has unknown type %q", l.Name, el.ID, el.Type)
			}
		}
		if !l.InLockstep() {
			return fmt.Errorf("builder: layout %s placements do not match its elements", l.Name)
		}
	}
	return nil
}

func (doc *LayoutDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = documentVersionV1
	}
	for i := range doc.Layouts {
		if doc.Layouts[i].Elements == nil {
			doc.Layouts[i].Elements = []Element{}
		}
		if doc.Layouts[i].Placements == nil {
			doc.Layouts[i].Placements = []Placement{}
		}
	}
}
