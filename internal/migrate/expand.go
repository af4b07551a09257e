package migrate

import (
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/view"
)

// ExpandView returns a copy of v that also names the migration partner of
// every group v names, with a copy of that group's definition.
//
// Groups without a partner, and groups whose partner v already names, are
// carried over unchanged. No group is removed. v is not modified. A nil
// view or an empty registry returns v itself.
func ExpandView(v *view.View, r *Registry) *view.View {
	out, _ := expandView(v, r)
	return out
}

// expandView is ExpandView that also reports the groups it added, per kind.
func expandView(v *view.View, r *Registry) (*view.View, map[ir.Kind][]string) {
	if v == nil || r.IsEmpty() {
		return v, nil
	}
	out := v.Clone()
	added := make(map[ir.Kind][]string)
	for _, kind := range ir.Kinds {
		for _, group := range v.Groups(kind) {
			partner, ok := r.Partner(kind, group)
			if !ok || v.Has(kind, partner) {
				continue
			}
			def, _ := v.Get(kind, group)
			out.Set(kind, partner, def.Clone())
			added[kind] = append(added[kind], partner)
		}
	}
	return out, added
}
