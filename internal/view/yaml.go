package view

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
)

// Document is the YAML form of a view.
//
//	entities:
//	  entityOld:
//	    preAggregationFilter:
//	      - select: [count]
//	        predicate: {type: IsMoreThan, value: 1, valueType: int}
//	    transformer:
//	      - select: [count]
//	        function: ToLong
//	        project: count
//	edges:
//	  edgeOld: {}
type Document struct {
	Entities map[string]DefinitionDoc `yaml:"entities"`
	Edges    map[string]DefinitionDoc `yaml:"edges"`
}

// DefinitionDoc is the YAML form of an ElementDefinition.
type DefinitionDoc struct {
	PreAggregationFilter  []FilterStepDoc    `yaml:"preAggregationFilter"`
	Aggregator            map[string]string  `yaml:"aggregator"` // property -> operator name
	PostAggregationFilter []FilterStepDoc    `yaml:"postAggregationFilter"`
	Transformer           []TransformStepDoc `yaml:"transformer"`
	PostTransformFilter   []FilterStepDoc    `yaml:"postTransformFilter"`
}

// FilterStepDoc is one select -> predicate step.
type FilterStepDoc struct {
	Select    []string     `yaml:"select"`
	Predicate PredicateDoc `yaml:"predicate"`
}

// PredicateDoc names a predicate. Not takes Predicate; And and Or take
// Predicates; the comparison predicates take Value, ValueType and OrEqualTo.
type PredicateDoc struct {
	Type       string         `yaml:"type"`
	Value      any            `yaml:"value"`
	ValueType  string         `yaml:"valueType"`
	OrEqualTo  bool           `yaml:"orEqualTo"`
	Predicate  *PredicateDoc  `yaml:"predicate"`
	Predicates []PredicateDoc `yaml:"predicates"`
}

// TransformStepDoc is one select -> function -> project step. Value and
// ValueType are only read by ReturnValue.
type TransformStepDoc struct {
	Select    []string `yaml:"select"`
	Function  string   `yaml:"function"`
	Value     any      `yaml:"value"`
	ValueType string   `yaml:"valueType"`
	Project   string   `yaml:"project"`
}

// ParseYAML decodes a YAML view document. Unknown fields are rejected.
// An empty document yields an empty view.
func ParseYAML(data []byte) (*View, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse view: %w", err)
	}
	return doc.Build()
}

// LoadFile reads and parses a YAML view document.
func LoadFile(path string) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read view %s: %w", path, err)
	}
	v, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Build converts the document into a View.
func (d Document) Build() (*View, error) {
	v := New()
	for kind, defs := range map[ir.Kind]map[string]DefinitionDoc{
		ir.KindEntity: d.Entities,
		ir.KindEdge:   d.Edges,
	} {
		for group, doc := range defs {
			def, err := doc.Build()
			if err != nil {
				return nil, fmt.Errorf("%s group %q: %w", kind, group, err)
			}
			v.Set(kind, group, def)
		}
	}
	return v, nil
}

// Build converts the document into an ElementDefinition.
func (d DefinitionDoc) Build() (ElementDefinition, error) {
	var def ElementDefinition
	var err error

	if def.PreAggregationFilter, err = buildFilter(d.PreAggregationFilter); err != nil {
		return def, fmt.Errorf("preAggregationFilter: %w", err)
	}
	if def.PostAggregationFilter, err = buildFilter(d.PostAggregationFilter); err != nil {
		return def, fmt.Errorf("postAggregationFilter: %w", err)
	}
	if def.PostTransformFilter, err = buildFilter(d.PostTransformFilter); err != nil {
		return def, fmt.Errorf("postTransformFilter: %w", err)
	}
	if def.Transformer, err = BuildTransformer(d.Transformer); err != nil {
		return def, fmt.Errorf("transformer: %w", err)
	}
	if len(d.Aggregator) > 0 {
		ops := make(map[string]function.BinaryOperator, len(d.Aggregator))
		for prop, name := range d.Aggregator {
			op, err := function.NewOperator(name)
			if err != nil {
				return def, fmt.Errorf("aggregator %q: %w", prop, err)
			}
			ops[prop] = op
		}
		def.Aggregator = &function.Aggregator{Operators: ops}
	}
	return def, nil
}

func buildFilter(steps []FilterStepDoc) (function.Filter, error) {
	var f function.Filter
	for i, s := range steps {
		p, err := s.Predicate.Build()
		if err != nil {
			return function.Filter{}, fmt.Errorf("step %d: %w", i, err)
		}
		f = f.And(s.Select, p)
	}
	return f, nil
}

// BuildTransformer converts transform step documents into a Transformer.
func BuildTransformer(steps []TransformStepDoc) (function.Transformer, error) {
	var t function.Transformer
	for i, s := range steps {
		var arg ir.IRValue
		if s.Value != nil {
			v, err := literal(s.Value, s.ValueType)
			if err != nil {
				return function.Transformer{}, fmt.Errorf("step %d: %w", i, err)
			}
			arg = v
		}
		fn, err := function.NewFunction(s.Function, arg)
		if err != nil {
			return function.Transformer{}, fmt.Errorf("step %d: %w", i, err)
		}
		t = t.Then(s.Select, fn, s.Project)
	}
	if err := t.Validate(); err != nil {
		return function.Transformer{}, err
	}
	return t, nil
}

// Build converts the document into a Predicate.
func (d PredicateDoc) Build() (function.Predicate, error) {
	switch d.Type {
	case "Not":
		if d.Predicate == nil {
			return nil, fmt.Errorf("Not: predicate is required")
		}
		inner, err := d.Predicate.Build()
		if err != nil {
			return nil, fmt.Errorf("Not: %w", err)
		}
		return function.Not{Predicate: inner}, nil
	case "And", "Or":
		preds := make([]function.Predicate, len(d.Predicates))
		for i, pd := range d.Predicates {
			p, err := pd.Build()
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", d.Type, i, err)
			}
			preds[i] = p
		}
		if d.Type == "And" {
			return function.And{Predicates: preds}, nil
		}
		return function.Or{Predicates: preds}, nil
	}

	val, err := literal(d.Value, d.ValueType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Type, err)
	}
	return function.NewPredicate(d.Type, val, d.OrEqualTo)
}

// literal converts a decoded YAML scalar to an IRValue. An empty valueType
// infers the class (integers become longs).
func literal(raw any, valueType string) (ir.IRValue, error) {
	class := ir.TypeClass(valueType)
	if class != "" && !ir.ValidClasses[class] {
		return nil, fmt.Errorf("unknown valueType %q", valueType)
	}
	return ir.ConvertValue(raw, class)
}
