package migrate

import (
	"github.com/roach88/schemamig/internal/function"
)

// Entry pairs an old group with the new group that replaced it.
//
// ToNew converts properties of an OldGroup element into the NewGroup schema;
// ToOld converts the other way. A transformer with no steps is a pure
// rename. Properties a transformer does not project are carried over
// unchanged.
//
// A Registry keeps its own deep copy of every entry and hands out copies,
// so entries are immutable once registered.
type Entry struct {
	OldGroup string
	NewGroup string
	ToNew    function.Transformer
	ToOld    function.Transformer
}

// NewEntry creates an Entry.
func NewEntry(oldGroup, newGroup string, toNew, toOld function.Transformer) Entry {
	return Entry{OldGroup: oldGroup, NewGroup: newGroup, ToNew: toNew, ToOld: toOld}
}

// Partner returns the other group of the pair, or false if group is
// neither side.
func (e Entry) Partner(group string) (string, bool) {
	switch group {
	case e.OldGroup:
		return e.NewGroup, true
	case e.NewGroup:
		return e.OldGroup, true
	default:
		return "", false
	}
}

func (e Entry) clone() Entry {
	return Entry{
		OldGroup: e.OldGroup,
		NewGroup: e.NewGroup,
		ToNew:    e.ToNew.Clone(),
		ToOld:    e.ToOld.Clone(),
	}
}
