package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/schemamig/internal/ir"
)

// ElementDoc is the YAML form of an element. A file holds a list of them:
//
//	[
//	  {kind: entity, group: entityOld, vertex: V1, properties: {count: 10}},
//	  {kind: edge, group: edgeOld, source: V1, destination: V2, directed: true},
//	]
type ElementDoc struct {
	Kind        string         `yaml:"kind"`
	Group       string         `yaml:"group"`
	Vertex      string         `yaml:"vertex,omitempty"`
	Source      string         `yaml:"source,omitempty"`
	Destination string         `yaml:"destination,omitempty"`
	Directed    bool           `yaml:"directed,omitempty"`
	Properties  map[string]any `yaml:"properties,omitempty"`
}

// Build converts the document into an element. Property literals take the
// class the schema declares for them; undeclared properties are inferred
// and left for schema validation to reject.
func (d ElementDoc) Build(s *ir.Schema) (ir.Element, error) {
	kind, err := ir.ParseKind(d.Kind)
	if err != nil {
		return ir.Element{}, err
	}
	if d.Group == "" {
		return ir.Element{}, fmt.Errorf("%s: group is required", kind)
	}

	classes := s.PropertyClasses(kind, d.Group)
	props := make(ir.Properties, len(d.Properties))
	for name, raw := range d.Properties {
		v, err := ir.ConvertValue(raw, classes[name])
		if err != nil {
			return ir.Element{}, fmt.Errorf("%s %q property %q: %w", kind, d.Group, name, err)
		}
		props[name] = v
	}

	if kind == ir.KindEdge {
		return ir.NewEdge(d.Group, d.Source, d.Destination, d.Directed, props), nil
	}
	return ir.NewEntity(d.Group, d.Vertex, props), nil
}

// ParseElements decodes a YAML list of element documents.
// An empty document yields no elements.
func ParseElements(data []byte, s *ir.Schema) ([]ir.Element, error) {
	var docs []ElementDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse elements: %w", err)
	}
	return BuildElements(docs, s)
}

// BuildElements converts element documents in order.
func BuildElements(docs []ElementDoc, s *ir.Schema) ([]ir.Element, error) {
	elements := make([]ir.Element, 0, len(docs))
	for i, doc := range docs {
		e, err := doc.Build(s)
		if err != nil {
			return nil, fmt.Errorf("element[%d]: %w", i, err)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

// LoadElements reads an element document file.
func LoadElements(path string, s *ir.Schema) ([]ir.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load elements: %w", err)
	}
	return ParseElements(data, s)
}
