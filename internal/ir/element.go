package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Kind partitions the group namespace: entity groups and edge groups are
// declared, stored and migrated independently.
type Kind string

const (
	KindEntity Kind = "entity"
	KindEdge   Kind = "edge"
)

// Kinds lists every element kind in canonical order.
var Kinds = []Kind{KindEntity, KindEdge}

// Valid reports whether k is a known element kind.
func (k Kind) Valid() bool {
	return k == KindEntity || k == KindEdge
}

// ParseKind parses "entity" or "edge" (plural forms accepted).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entity", "entities":
		return KindEntity, nil
	case "edge", "edges":
		return KindEdge, nil
	default:
		return "", fmt.Errorf("unknown element kind %q", s)
	}
}

// Properties maps property names to typed values.
// Use SortedKeys() for deterministic iteration.
type Properties map[string]IRValue

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (p Properties) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Clone returns a shallow copy. Values are immutable so a shallow copy is a
// full copy.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the value for a property, or IRNull if absent.
func (p Properties) Get(name string) IRValue {
	if v, ok := p[name]; ok && v != nil {
		return v
	}
	return IRNull{}
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := MarshalIRValue(p[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// Element is an entity or an edge held in a group.
//
// Identity fields are Vertex for entities and Source, Destination, Directed
// for edges. Two elements with the same kind, group and identity are the
// same logical element and are aggregated together by the store.
type Element struct {
	Kind        Kind       `json:"kind"`
	Group       string     `json:"group"`
	Vertex      string     `json:"vertex,omitempty"`
	Source      string     `json:"source,omitempty"`
	Destination string     `json:"destination,omitempty"`
	Directed    bool       `json:"directed,omitempty"`
	Properties  Properties `json:"properties"`
}

// NewEntity creates an entity element.
func NewEntity(group, vertex string, props Properties) Element {
	if props == nil {
		props = Properties{}
	}
	return Element{
		Kind:       KindEntity,
		Group:      group,
		Vertex:     vertex,
		Properties: props,
	}
}

// NewEdge creates an edge element.
func NewEdge(group, source, destination string, directed bool, props Properties) Element {
	if props == nil {
		props = Properties{}
	}
	return Element{
		Kind:        KindEdge,
		Group:       group,
		Source:      source,
		Destination: destination,
		Directed:    directed,
		Properties:  props,
	}
}

// Identity renders the identity fields of the element.
//
// Format:
//
//	entity: vertex=<v>
//	edge:   source=<s> destination=<d> directed=<bool>
func (e Element) Identity() string {
	if e.Kind == KindEdge {
		return fmt.Sprintf("source=%s destination=%s directed=%t", e.Source, e.Destination, e.Directed)
	}
	return "vertex=" + e.Vertex
}

// WithGroup returns a new element in the given group carrying props, with
// every identity field copied verbatim.
func (e Element) WithGroup(group string, props Properties) Element {
	out := e
	out.Group = group
	out.Properties = props
	return out
}

// Clone returns a copy whose properties map is not shared with e.
func (e Element) Clone() Element {
	out := e
	out.Properties = e.Properties.Clone()
	return out
}

// MatchesSeed reports whether the element is reachable from a seed vertex.
// Entities match on vertex; edges match on either end.
func (e Element) MatchesSeed(seed string) bool {
	if e.Kind == KindEdge {
		return e.Source == seed || e.Destination == seed
	}
	return e.Vertex == seed
}

// String renders the element on one line with properties in canonical order.
//
//	entity entityNew vertex=v1 {count=10L}
func (e Element) String() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteByte(' ')
	b.WriteString(e.Group)
	b.WriteByte(' ')
	b.WriteString(e.Identity())
	b.WriteString(" {")
	for i, k := range e.Properties.SortedKeys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(FormatValue(e.Properties[k]))
	}
	b.WriteByte('}')
	return b.String()
}
