package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
)

// parseMigrations reads the migrations block:
//
//	migrations: {
//		output: "NEW"
//		entities: [{old: "entityOld", new: "entityNew", toNew: [...], toOld: [...]}]
//		edges: [...]
//	}
func parseMigrations(v cue.Value, spec *GraphSpec) error {
	output, ok, err := optionalString(v, "output")
	if err != nil {
		return err
	}
	if ok {
		d, err := migrate.ParseDirection(output)
		if err != nil {
			return &CompileError{
				Field:   "migrations.output",
				Message: fmt.Sprintf("invalid output type %q, must be \"OLD\" or \"NEW\"", output),
				Pos:     v.LookupPath(cue.ParsePath("output")).Pos(),
			}
		}
		spec.Output = d
	}

	spec.Entities, err = parseEntries(v, ir.KindEntity)
	if err != nil {
		return err
	}
	spec.Edges, err = parseEntries(v, ir.KindEdge)
	return err
}

func parseEntries(v cue.Value, kind ir.Kind) ([]migrate.Entry, error) {
	block := blockName(kind)
	listVal := v.LookupPath(cue.ParsePath(block))
	if !listVal.Exists() {
		return nil, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entries []migrate.Entry
	for i := 0; iter.Next(); i++ {
		entryVal := iter.Value()
		field := fmt.Sprintf("migrations.%s[%d]", block, i)

		oldGroup, err := requiredString(entryVal, "old", field)
		if err != nil {
			return nil, err
		}
		newGroup, err := requiredString(entryVal, "new", field)
		if err != nil {
			return nil, err
		}
		toNew, err := parseTransformer(entryVal, "toNew", field)
		if err != nil {
			return nil, err
		}
		toOld, err := parseTransformer(entryVal, "toOld", field)
		if err != nil {
			return nil, err
		}
		entries = append(entries, migrate.NewEntry(oldGroup, newGroup, toNew, toOld))
	}
	return entries, nil
}

// parseTransformer reads a list of pipeline steps. A missing list is a pure
// rename.
//
//	toNew: [{select: ["count"], function: "ToLong", project: "count"}]
//	toOld: [{select: "count", function: "ReturnValue", value: 0, type: "int", project: "count"}]
func parseTransformer(v cue.Value, path, field string) (function.Transformer, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return function.Transformer{}, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return function.Transformer{}, formatCUEError(err)
	}

	var t function.Transformer
	for i := 0; iter.Next(); i++ {
		step, err := parseStep(iter.Value(), fmt.Sprintf("%s.%s[%d]", field, path, i))
		if err != nil {
			return function.Transformer{}, err
		}
		t.Steps = append(t.Steps, step)
	}
	return t, nil
}

func parseStep(v cue.Value, field string) (function.Step, error) {
	selVal := v.LookupPath(cue.ParsePath("select"))
	if !selVal.Exists() {
		return function.Step{}, &CompileError{Field: field + ".select", Message: "select is required", Pos: v.Pos()}
	}
	selection, err := stringList(selVal)
	if err != nil {
		return function.Step{}, err
	}
	if len(selection) == 0 {
		return function.Step{}, &CompileError{Field: field + ".select", Message: "select must name at least one property", Pos: selVal.Pos()}
	}

	name, err := requiredString(v, "function", field)
	if err != nil {
		return function.Step{}, err
	}
	projection, err := requiredString(v, "project", field)
	if err != nil {
		return function.Step{}, err
	}

	var arg ir.IRValue = ir.IRNull{}
	if valueVal := v.LookupPath(cue.ParsePath("value")); valueVal.Exists() {
		class, _, err := optionalString(v, "type")
		if err != nil {
			return function.Step{}, err
		}
		arg, err = literal(valueVal, ir.TypeClass(class))
		if err != nil {
			if ce, ok := err.(*CompileError); ok {
				ce.Field = field + ".value"
			}
			return function.Step{}, err
		}
	}

	fn, err := function.NewFunction(name, arg)
	if err != nil {
		return function.Step{}, &CompileError{
			Field:   field + ".function",
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath("function")).Pos(),
		}
	}

	return function.Step{Selection: selection, Function: fn, Projection: projection}, nil
}
