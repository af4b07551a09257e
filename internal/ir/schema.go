package ir

import (
	"fmt"
	"sort"
)

// TypeDef binds a schema type name to a value class and an optional
// aggregate function name (e.g. "Sum").
type TypeDef struct {
	Name      string    `json:"name"`
	Class     TypeClass `json:"class"`
	Aggregate string    `json:"aggregate,omitempty"`
}

// GroupDef declares the properties of one entity or edge group.
type GroupDef struct {
	Kind       Kind              `json:"kind"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"` // property name -> type name
}

// Schema holds every group and type known to a store.
type Schema struct {
	Types    map[string]TypeDef  `json:"types"`
	Entities map[string]GroupDef `json:"entities"`
	Edges    map[string]GroupDef `json:"edges"`
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		Types:    make(map[string]TypeDef),
		Entities: make(map[string]GroupDef),
		Edges:    make(map[string]GroupDef),
	}
}

// SchemaError reports an element or group that violates the schema.
type SchemaError struct {
	Kind     Kind
	Group    string
	Property string
	Message  string
}

func (e *SchemaError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("schema: %s %q property %q: %s", e.Kind, e.Group, e.Property, e.Message)
	}
	if e.Group != "" {
		return fmt.Sprintf("schema: %s %q: %s", e.Kind, e.Group, e.Message)
	}
	return "schema: " + e.Message
}

func (s *Schema) groups(kind Kind) map[string]GroupDef {
	if kind == KindEdge {
		return s.Edges
	}
	return s.Entities
}

// AddGroup registers a group definition under its kind.
func (s *Schema) AddGroup(def GroupDef) {
	if def.Properties == nil {
		def.Properties = map[string]string{}
	}
	if def.Kind == KindEdge {
		s.Edges[def.Name] = def
		return
	}
	s.Entities[def.Name] = def
}

// AddType registers a type definition.
func (s *Schema) AddType(def TypeDef) {
	s.Types[def.Name] = def
}

// Group returns the definition of a group.
func (s *Schema) Group(kind Kind, name string) (GroupDef, bool) {
	def, ok := s.groups(kind)[name]
	return def, ok
}

// Groups returns the group names of a kind in sorted order.
func (s *Schema) Groups(kind Kind) []string {
	m := s.groups(kind)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyClasses returns the value class of every property of a group.
// Properties bound to unknown types are omitted.
func (s *Schema) PropertyClasses(kind Kind, group string) map[string]TypeClass {
	def, ok := s.Group(kind, group)
	if !ok {
		return nil
	}
	classes := make(map[string]TypeClass, len(def.Properties))
	for prop, typeName := range def.Properties {
		if t, ok := s.Types[typeName]; ok {
			classes[prop] = t.Class
		}
	}
	return classes
}

// AggregateFunction returns the aggregate function name declared on the
// type of a property, or "" if none is declared.
func (s *Schema) AggregateFunction(kind Kind, group, prop string) string {
	def, ok := s.Group(kind, group)
	if !ok {
		return ""
	}
	t, ok := s.Types[def.Properties[prop]]
	if !ok {
		return ""
	}
	return t.Aggregate
}

// Validate checks the schema for internal consistency.
// Returns all errors found (does not fail-fast).
//
// Rules:
//   - every type has a valid class
//   - every property references a declared type
//   - a group name is not declared as both an entity and an edge
func (s *Schema) Validate() []error {
	var errs []error

	typeNames := make([]string, 0, len(s.Types))
	for name := range s.Types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		if !ValidClasses[s.Types[name].Class] {
			errs = append(errs, &SchemaError{Message: fmt.Sprintf("type %q has invalid class %q", name, s.Types[name].Class)})
		}
	}

	for _, kind := range Kinds {
		for _, group := range s.Groups(kind) {
			def := s.groups(kind)[group]
			props := make([]string, 0, len(def.Properties))
			for p := range def.Properties {
				props = append(props, p)
			}
			sort.Strings(props)
			for _, p := range props {
				if _, ok := s.Types[def.Properties[p]]; !ok {
					errs = append(errs, &SchemaError{
						Kind:     kind,
						Group:    group,
						Property: p,
						Message:  fmt.Sprintf("undeclared type %q", def.Properties[p]),
					})
				}
			}
		}
	}

	for _, group := range s.Groups(KindEntity) {
		if _, ok := s.Edges[group]; ok {
			errs = append(errs, &SchemaError{
				Kind:    KindEntity,
				Group:   group,
				Message: "group is declared as both an entity and an edge",
			})
		}
	}

	return errs
}

// ValidateElement checks that an element belongs to a declared group and that
// every property it carries is declared with a matching value class.
func (s *Schema) ValidateElement(e Element) error {
	if !e.Kind.Valid() {
		return &SchemaError{Group: e.Group, Message: fmt.Sprintf("invalid element kind %q", e.Kind)}
	}
	if _, ok := s.Group(e.Kind, e.Group); !ok {
		return &SchemaError{Kind: e.Kind, Group: e.Group, Message: "undeclared group"}
	}
	if e.Kind == KindEntity && e.Vertex == "" {
		return &SchemaError{Kind: e.Kind, Group: e.Group, Message: "entity vertex is required"}
	}
	if e.Kind == KindEdge && (e.Source == "" || e.Destination == "") {
		return &SchemaError{Kind: e.Kind, Group: e.Group, Message: "edge source and destination are required"}
	}

	classes := s.PropertyClasses(e.Kind, e.Group)
	for _, name := range e.Properties.SortedKeys() {
		v := e.Properties[name]
		want, ok := classes[name]
		if !ok {
			return &SchemaError{Kind: e.Kind, Group: e.Group, Property: name, Message: "undeclared property"}
		}
		if IsNull(v) {
			continue
		}
		got, _ := ClassOf(v)
		if got != want {
			return &SchemaError{
				Kind:     e.Kind,
				Group:    e.Group,
				Property: name,
				Message:  fmt.Sprintf("expected %s value, got %s", want, got),
			}
		}
	}
	return nil
}
