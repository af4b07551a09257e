package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
)

// Validation error codes (E200-E299)
const (
	// Schema errors (E200-E209)
	ErrInvalidSchema    = "E200" // schema is internally inconsistent
	ErrUnknownAggregate = "E201" // type names an unknown aggregate function

	// Migration errors (E210-E219)
	ErrUndeclaredGroup     = "E210" // migration names a group missing from the schema
	ErrGroupKindMismatch   = "E211" // migration group is declared under the other kind
	ErrUndeclaredSelection = "E212" // step selects a property the source group lacks
	ErrUndeclaredProject   = "E213" // step projects a property the target group lacks
)

// ValidationError represents a spec validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is every validation error of one spec.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Validate validates a compiled spec.
// Returns all errors found (does not fail-fast).
func Validate(spec *GraphSpec) ValidationErrors {
	var errs ValidationErrors

	// E200: schema consistency
	for _, err := range spec.Schema.Validate() {
		errs = append(errs, ValidationError{Field: "schema", Message: err.Error(), Code: ErrInvalidSchema})
	}

	// E201: aggregate functions must resolve
	for _, name := range sortedTypes(spec.Schema) {
		agg := spec.Schema.Types[name].Aggregate
		if agg != "" && !operatorExists(agg) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("types.%s.aggregate", name),
				Message: fmt.Sprintf("unknown aggregate function %q", agg),
				Code:    ErrUnknownAggregate,
			})
		}
	}

	errs = append(errs, validateEntries(spec.Schema, ir.KindEntity, spec.Entities)...)
	errs = append(errs, validateEntries(spec.Schema, ir.KindEdge, spec.Edges)...)
	return errs
}

func validateEntries(s *ir.Schema, kind ir.Kind, entries []migrate.Entry) ValidationErrors {
	var errs ValidationErrors
	for i, e := range entries {
		field := fmt.Sprintf("migrations.%s[%d]", blockName(kind), i)

		oldOK := validateGroup(s, kind, e.OldGroup, field+".old", &errs)
		newOK := validateGroup(s, kind, e.NewGroup, field+".new", &errs)
		if !oldOK || !newOK {
			continue
		}

		validateSteps(s, kind, e.OldGroup, e.NewGroup, e.ToNew, field+".toNew", &errs)
		validateSteps(s, kind, e.NewGroup, e.OldGroup, e.ToOld, field+".toOld", &errs)
	}
	return errs
}

// validateGroup reports E210 or E211 and returns whether the group is
// declared under kind. Empty names are left to the registry.
func validateGroup(s *ir.Schema, kind ir.Kind, group, field string, errs *ValidationErrors) bool {
	if group == "" {
		return false
	}
	if _, ok := s.Group(kind, group); ok {
		return true
	}
	if _, ok := s.Group(otherKind(kind), group); ok {
		*errs = append(*errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("group %q is declared as an %s, not an %s", group, otherKind(kind), kind),
			Code:    ErrGroupKindMismatch,
		})
		return false
	}
	*errs = append(*errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf("group %q is not declared in the schema", group),
		Code:    ErrUndeclaredGroup,
	})
	return false
}

// validateSteps checks a pipeline converting from source to target.
// A step may select a property projected by an earlier step.
func validateSteps(s *ir.Schema, kind ir.Kind, source, target string, t function.Transformer, field string, errs *ValidationErrors) {
	srcDef, _ := s.Group(kind, source)
	dstDef, _ := s.Group(kind, target)
	projected := make(map[string]bool)

	for i, step := range t.Steps {
		stepField := fmt.Sprintf("%s[%d]", field, i)
		for _, sel := range step.Selection {
			if _, ok := srcDef.Properties[sel]; !ok && !projected[sel] {
				*errs = append(*errs, ValidationError{
					Field:   stepField + ".select",
					Message: fmt.Sprintf("group %q has no property %q", source, sel),
					Code:    ErrUndeclaredSelection,
				})
			}
		}
		if _, ok := dstDef.Properties[step.Projection]; !ok {
			*errs = append(*errs, ValidationError{
				Field:   stepField + ".project",
				Message: fmt.Sprintf("group %q has no property %q", target, step.Projection),
				Code:    ErrUndeclaredProject,
			})
		}
		projected[step.Projection] = true
	}
}

func otherKind(kind ir.Kind) ir.Kind {
	if kind == ir.KindEdge {
		return ir.KindEntity
	}
	return ir.KindEdge
}

func sortedTypes(s *ir.Schema) []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
