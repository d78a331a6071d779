package db

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind is the FT.CREATE type token of a schema field.
type FieldKind string

const (
	// KindTag is matched as a whole, case-insensitive value.
	KindTag FieldKind = "TAG"
	// KindText is tokenized and scored with BM25.
	KindText FieldKind = "TEXT"
	// KindVector holds a FLOAT32 blob searched by HNSW.
	KindVector FieldKind = "VECTOR"
)

// DistanceCosine is the only metric incidents are indexed with; scores are
// reported as 1 - distance.
const DistanceCosine = "COSINE"

// HNSW graph defaults, shared by both drivers.
const (
	DefaultHNSWM           = 16
	DefaultHNSWEFConstruct = 200
)

// VectorParams configures a KindVector field.
type VectorParams struct {
	Dim         int
	M           int // max edges per node
	EFConstruct int // candidate list size while building the graph
}

// Field is one entry of an index schema. Vector is only read for KindVector.
type Field struct {
	Name   string
	Kind   FieldKind
	Vector VectorParams
}

// IndexDefinition describes an FT index over the hashes under Prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []Field
}

// SchemaBuilder assembles an IndexDefinition field by field.
type SchemaBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition for the hashes whose keys start with prefix.
// An empty prefix indexes every hash.
func NewIndex(name, prefix string) *SchemaBuilder {
	return &SchemaBuilder{def: IndexDefinition{Name: name, Prefix: prefix}}
}

// Tag appends TAG fields.
func (b *SchemaBuilder) Tag(names ...string) *SchemaBuilder {
	return b.add(KindTag, names)
}

// Text appends TEXT fields.
func (b *SchemaBuilder) Text(names ...string) *SchemaBuilder {
	return b.add(KindText, names)
}

// Vector appends the HNSW vector field. Zero M or EFConstruct take the defaults.
func (b *SchemaBuilder) Vector(name string, p VectorParams) *SchemaBuilder {
	if p.M <= 0 {
		p.M = DefaultHNSWM
	}
	if p.EFConstruct <= 0 {
		p.EFConstruct = DefaultHNSWEFConstruct
	}
	b.def.Fields = append(b.def.Fields, Field{Name: name, Kind: KindVector, Vector: p})
	return b
}

func (b *SchemaBuilder) add(kind FieldKind, names []string) *SchemaBuilder {
	for _, n := range names {
		b.def.Fields = append(b.def.Fields, Field{Name: n, Kind: kind})
	}
	return b
}

// Build validates the collected fields.
func (b *SchemaBuilder) Build() (*IndexDefinition, error) {
	def := b.def
	def.Fields = append([]Field(nil), b.def.Fields...)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate rejects definitions neither driver can create.
func (idx *IndexDefinition) Validate() error {
	switch {
	case idx.Name == "":
		return errors.New("index name is required")
	case !validName(idx.Name):
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	case len(idx.Fields) == 0:
		return fmt.Errorf("index %s: at least one field is required", idx.Name)
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	vectors := 0
	for i, f := range idx.Fields {
		if f.Name == "" {
			return fmt.Errorf("index %s: field %d has no name", idx.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("index %s: duplicate field name %s", idx.Name, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindTag, KindText:
		case KindVector:
			if f.Vector.Dim <= 0 {
				return fmt.Errorf("index %s: vector field %s needs a positive dimension", idx.Name, f.Name)
			}
			vectors++
		default:
			return fmt.Errorf("index %s: field %s has unknown kind %q", idx.Name, f.Name, f.Kind)
		}
	}
	if vectors > 1 {
		return fmt.Errorf("index %s: at most one vector field is supported", idx.Name)
	}
	return nil
}

// VectorField returns the vector field, if the index has one.
func (idx *IndexDefinition) VectorField() (Field, bool) {
	for _, f := range idx.Fields {
		if f.Kind == KindVector {
			return f, true
		}
	}
	return Field{}, false
}

// Names lists the fields of one kind in schema order.
func (idx *IndexDefinition) Names(kind FieldKind) []string {
	var names []string
	for _, f := range idx.Fields {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}

// Covers reports whether the hash at key belongs to the index.
func (idx *IndexDefinition) Covers(key string) bool {
	return strings.HasPrefix(key, idx.Prefix)
}

// validName accepts [A-Za-z0-9_:-]+.
func validName(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '_', r == ':', r == '-':
			return false
		}
		return true
	}) < 0
}
