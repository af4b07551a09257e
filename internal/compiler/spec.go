package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
)

// GraphSpec is a compiled graph spec: the store schema plus the
// declared migrations and the default output Direction.
type GraphSpec struct {
	Schema   *ir.Schema
	Entities []migrate.Entry
	Edges    []migrate.Entry
	Output   migrate.Direction
}

// Hook builds a migration hook configured with the spec's migrations and
// output Direction, checked against the spec's schema. opts are applied
// before the spec's Direction, so the spec wins over WithOutputType.
func (s *GraphSpec) Hook(opts ...migrate.HookOption) (*migrate.Hook, error) {
	opts = append(append([]migrate.HookOption(nil), opts...), migrate.WithSchema(s.Schema))
	h := migrate.NewHook(opts...)
	if err := h.SetOutputType(s.Output); err != nil {
		return nil, err
	}
	if err := h.ConfigureMigrations(s.Entities, s.Edges); err != nil {
		return nil, err
	}
	return h, nil
}

// CompileSpec parses a CUE value into a GraphSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the spec root, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`types: {...}, entities: {...}, migrations: {...}`)
//	spec, err := CompileSpec(v)
//
// Structural errors are returned as *CompileError. A spec that parses but
// references undeclared groups, properties or functions fails with
// ValidationErrors. Registry invariants (pairing, duplicates, kind
// collisions) fail with *migrate.ConfigurationError.
func CompileSpec(v cue.Value) (*GraphSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &GraphSpec{Schema: ir.NewSchema(), Output: migrate.New}

	if err := parseTypes(v, spec.Schema); err != nil {
		return nil, err
	}
	for _, kind := range ir.Kinds {
		if err := parseGroups(v, kind, spec.Schema); err != nil {
			return nil, err
		}
	}

	if migVal := v.LookupPath(cue.ParsePath("migrations")); migVal.Exists() {
		if err := parseMigrations(migVal, spec); err != nil {
			return nil, err
		}
	}

	if errs := Validate(spec); len(errs) > 0 {
		return nil, errs
	}
	if _, err := migrate.NewRegistry(spec.Entities, spec.Edges); err != nil {
		return nil, err
	}
	return spec, nil
}

// parseTypes reads the types block:
//
//	types: int: {class: "int", aggregate: "Sum"}
func parseTypes(v cue.Value, s *ir.Schema) error {
	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return &CompileError{Field: "types", Message: "types are required", Pos: v.Pos()}
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		field := "types." + name

		class, err := requiredString(iter.Value(), "class", field)
		if err != nil {
			return err
		}
		def := ir.TypeDef{Name: name, Class: ir.TypeClass(class)}

		agg, ok, err := optionalString(iter.Value(), "aggregate")
		if err != nil {
			return err
		}
		if ok {
			def.Aggregate = agg
		}
		s.AddType(def)
	}
	return nil
}

// parseGroups reads the entities or edges block:
//
//	entities: entityOld: {vertex: "string", properties: {count: "int"}}
//	edges: edgeOld: {source: "string", destination: "string", properties: {...}}
//
// The identity type fields are optional and only checked for existence.
func parseGroups(v cue.Value, kind ir.Kind, s *ir.Schema) error {
	block := blockName(kind)
	groupsVal := v.LookupPath(cue.ParsePath(block))
	if !groupsVal.Exists() {
		return nil
	}

	iter, err := groupsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		field := block + "." + name
		groupVal := iter.Value()

		def := ir.GroupDef{Kind: kind, Name: name, Properties: map[string]string{}}

		propsVal := groupVal.LookupPath(cue.ParsePath("properties"))
		if propsVal.Exists() {
			propIter, err := propsVal.Fields()
			if err != nil {
				return formatCUEError(err)
			}
			for propIter.Next() {
				typeName, err := propIter.Value().String()
				if err != nil {
					return &CompileError{
						Field:   field + ".properties." + propIter.Label(),
						Message: "property type must be a type name",
						Pos:     propIter.Value().Pos(),
					}
				}
				def.Properties[propIter.Label()] = typeName
			}
		}

		for _, idField := range identityFields(kind) {
			typeName, ok, err := optionalString(groupVal, idField)
			if err != nil {
				return err
			}
			if ok {
				if _, declared := s.Types[typeName]; !declared {
					return &CompileError{
						Field:   field + "." + idField,
						Message: fmt.Sprintf("undeclared type %q", typeName),
						Pos:     groupVal.LookupPath(cue.ParsePath(idField)).Pos(),
					}
				}
			}
		}

		s.AddGroup(def)
	}
	return nil
}

func blockName(kind ir.Kind) string {
	if kind == ir.KindEdge {
		return "edges"
	}
	return "entities"
}

func identityFields(kind ir.Kind) []string {
	if kind == ir.KindEdge {
		return []string{"source", "destination", "directed"}
	}
	return []string{"vertex"}
}

// requiredString returns the string at path, or a CompileError naming
// field.path if it is missing or not a string.
func requiredString(v cue.Value, path, field string) (string, error) {
	s, ok, err := optionalString(v, path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &CompileError{Field: field + "." + path, Message: path + " is required", Pos: v.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, path string) (string, bool, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", false, nil
	}
	s, err := val.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

// stringList accepts either a single string or a list of strings.
func stringList(v cue.Value) ([]string, error) {
	if s, err := v.String(); err == nil {
		return []string{s}, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// literal decodes a concrete CUE scalar into an IRValue of class. An empty
// class infers the class from the CUE kind.
func literal(v cue.Value, class ir.TypeClass) (ir.IRValue, error) {
	var raw any
	var err error
	switch v.Kind() {
	case cue.NullKind:
		return ir.IRNull{}, nil
	case cue.StringKind:
		raw, err = v.String()
	case cue.IntKind:
		raw, err = v.Int64()
	case cue.BoolKind:
		raw, err = v.Bool()
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "value",
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	if err != nil {
		return nil, formatCUEError(err)
	}
	out, err := ir.ConvertValue(raw, class)
	if err != nil {
		return nil, &CompileError{Field: "value", Message: err.Error(), Pos: v.Pos()}
	}
	return out, nil
}

// operatorExists reports whether name is a known aggregate function.
func operatorExists(name string) bool {
	_, err := function.NewOperator(name)
	return err == nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
