package migrate

import (
	"fmt"
	"sort"

	"github.com/roach88/schemamig/internal/ir"
)

// Registry indexes migration entries by old and by new group name, per
// element kind. It is immutable and safe for concurrent use.
type Registry struct {
	entities kindRegistry
	edges    kindRegistry
}

type kindRegistry struct {
	entries []Entry        // declaration order
	byOld   map[string]int // old group -> index into entries
	byNew   map[string]int // new group -> index into entries
}

// NewRegistry builds a registry from entity and edge entries.
//
// Within a kind every group may take part in at most one entry, on either
// side. An entry may not pair a group with itself or use an empty name, and
// a group migrated as an entity may not also be migrated as an edge. Any
// violation returns a *ConfigurationError; the first one found is reported,
// entities before edges, in declaration order.
func NewRegistry(entities, edges []Entry) (*Registry, error) {
	r := &Registry{}
	var err error
	if r.entities, err = buildKind(ir.KindEntity, entities); err != nil {
		return nil, err
	}
	if r.edges, err = buildKind(ir.KindEdge, edges); err != nil {
		return nil, err
	}
	for _, e := range r.edges.entries {
		for _, g := range []string{e.OldGroup, e.NewGroup} {
			if r.entities.has(g) {
				return nil, &ConfigurationError{
					Code:    ErrCodeKindCollision,
					Kind:    ir.KindEdge,
					Group:   g,
					Message: "group is migrated as both an entity and an edge",
				}
			}
		}
	}
	return r, nil
}

func buildKind(kind ir.Kind, entries []Entry) (kindRegistry, error) {
	kr := kindRegistry{
		entries: make([]Entry, 0, len(entries)),
		byOld:   make(map[string]int, len(entries)),
		byNew:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.OldGroup == "" || e.NewGroup == "" {
			return kindRegistry{}, &ConfigurationError{
				Code:    ErrCodeEmptyGroup,
				Kind:    kind,
				Group:   e.OldGroup + e.NewGroup,
				Message: fmt.Sprintf("%s migration %d has an empty group name", kind, i),
			}
		}
		if e.OldGroup == e.NewGroup {
			return kindRegistry{}, &ConfigurationError{
				Code:    ErrCodeSelfPaired,
				Kind:    kind,
				Group:   e.OldGroup,
				Message: "old and new group must differ",
			}
		}
		for _, g := range []string{e.OldGroup, e.NewGroup} {
			if kr.has(g) {
				return kindRegistry{}, &ConfigurationError{
					Code:    ErrCodeDuplicateGroup,
					Kind:    kind,
					Group:   g,
					Message: "group takes part in more than one migration",
				}
			}
		}
		if err := e.ToNew.Validate(); err != nil {
			return kindRegistry{}, invalidTransform(kind, e.OldGroup, "toNew", err)
		}
		if err := e.ToOld.Validate(); err != nil {
			return kindRegistry{}, invalidTransform(kind, e.OldGroup, "toOld", err)
		}
		kr.byOld[e.OldGroup] = len(kr.entries)
		kr.byNew[e.NewGroup] = len(kr.entries)
		kr.entries = append(kr.entries, e.clone())
	}
	return kr, nil
}

func invalidTransform(kind ir.Kind, group, dir string, err error) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeInvalidTransform,
		Kind:    kind,
		Group:   group,
		Message: fmt.Sprintf("%s: %v", dir, err),
	}
}

func (kr *kindRegistry) has(group string) bool {
	_, old := kr.byOld[group]
	_, nw := kr.byNew[group]
	return old || nw
}

func (r *Registry) kind(kind ir.Kind) *kindRegistry {
	if kind == ir.KindEdge {
		return &r.edges
	}
	return &r.entities
}

// LookupByOld returns a copy of the entry whose OldGroup is group. A group
// that is not an old group is reported with false, not an error.
func (r *Registry) LookupByOld(kind ir.Kind, group string) (Entry, bool) {
	e, ok := r.byOld(kind, group)
	return e.clone(), ok
}

// LookupByNew returns a copy of the entry whose NewGroup is group.
func (r *Registry) LookupByNew(kind ir.Kind, group string) (Entry, bool) {
	e, ok := r.byNew(kind, group)
	return e.clone(), ok
}

// byOld and byNew return the registered entry itself. Callers in this
// package must not modify it.
func (r *Registry) byOld(kind ir.Kind, group string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	kr := r.kind(kind)
	i, ok := kr.byOld[group]
	if !ok {
		return Entry{}, false
	}
	return kr.entries[i], true
}

func (r *Registry) byNew(kind ir.Kind, group string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	kr := r.kind(kind)
	i, ok := kr.byNew[group]
	if !ok {
		return Entry{}, false
	}
	return kr.entries[i], true
}

// Partner returns the other group of the pair group belongs to.
func (r *Registry) Partner(kind ir.Kind, group string) (string, bool) {
	if e, ok := r.byOld(kind, group); ok {
		return e.NewGroup, true
	}
	if e, ok := r.byNew(kind, group); ok {
		return e.OldGroup, true
	}
	return "", false
}

// AllGroups returns every old and new group of a kind, sorted.
func (r *Registry) AllGroups(kind ir.Kind) []string {
	if r == nil {
		return nil
	}
	kr := r.kind(kind)
	out := make([]string, 0, 2*len(kr.entries))
	for _, e := range kr.entries {
		out = append(out, e.OldGroup, e.NewGroup)
	}
	sort.Strings(out)
	return out
}

// Entries returns copies of the entries of a kind in declaration order.
func (r *Registry) Entries(kind ir.Kind) []Entry {
	if r == nil {
		return nil
	}
	entries := r.kind(kind).entries
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// CheckSchema reports the first migrated group, entities before edges in
// declaration order, that s does not declare under the entry's kind.
// ExpandView adds partner groups to views, so a registry used against a
// store must pass this check or every query naming the paired group fails.
func (r *Registry) CheckSchema(s *ir.Schema) error {
	if r == nil {
		return nil
	}
	for _, kind := range ir.Kinds {
		for _, e := range r.kind(kind).entries {
			for _, g := range []string{e.OldGroup, e.NewGroup} {
				if _, ok := s.Group(kind, g); !ok {
					return &ConfigurationError{
						Code:    ErrCodeUndeclaredGroup,
						Kind:    kind,
						Group:   g,
						Message: "group is not declared in the schema",
					}
				}
			}
		}
	}
	return nil
}

// IsEmpty reports whether no migration is declared for any kind.
func (r *Registry) IsEmpty() bool {
	return r == nil || (len(r.entities.entries) == 0 && len(r.edges.entries) == 0)
}
