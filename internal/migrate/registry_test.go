package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/testutil"
)

func entityEntry() Entry {
	return NewEntry(testutil.EntityOld, testutil.EntityNew, testutil.CountToLong(), testutil.CountToInteger())
}

func edgeEntry() Entry {
	return NewEntry(testutil.EdgeOld, testutil.EdgeNew, testutil.CountToLong(), testutil.CountToInteger())
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry([]Entry{entityEntry()}, []Entry{edgeEntry()})
	require.NoError(t, err)
	return r
}

func TestRegistry_Lookup(t *testing.T) {
	r := testRegistry(t)

	e, ok := r.LookupByOld(ir.KindEntity, "entityOld")
	require.True(t, ok)
	assert.Equal(t, "entityNew", e.NewGroup)

	e, ok = r.LookupByNew(ir.KindEntity, "entityNew")
	require.True(t, ok)
	assert.Equal(t, "entityOld", e.OldGroup)

	_, ok = r.LookupByOld(ir.KindEntity, "entityNew")
	assert.False(t, ok, "new group is not an old group")

	_, ok = r.LookupByNew(ir.KindEntity, "entityOld")
	assert.False(t, ok)

	_, ok = r.LookupByOld(ir.KindEntity, "undeclared")
	assert.False(t, ok, "undeclared group is not an error")

	_, ok = r.LookupByOld(ir.KindEdge, "entityOld")
	assert.False(t, ok, "kinds are separate")

	e, ok = r.LookupByOld(ir.KindEdge, "edgeOld")
	require.True(t, ok)
	assert.Equal(t, "edgeNew", e.NewGroup)
}

func TestRegistry_Partner(t *testing.T) {
	r := testRegistry(t)

	p, ok := r.Partner(ir.KindEntity, "entityOld")
	require.True(t, ok)
	assert.Equal(t, "entityNew", p)

	p, ok = r.Partner(ir.KindEdge, "edgeNew")
	require.True(t, ok)
	assert.Equal(t, "edgeOld", p)

	_, ok = r.Partner(ir.KindEntity, "plain")
	assert.False(t, ok)
}

func TestRegistry_AllGroupsSorted(t *testing.T) {
	r, err := NewRegistry([]Entry{
		NewEntry("zOld", "zNew", function.Transformer{}, function.Transformer{}),
		NewEntry("aOld", "aNew", function.Transformer{}, function.Transformer{}),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"aNew", "aOld", "zNew", "zOld"}, r.AllGroups(ir.KindEntity))
	assert.Empty(t, r.AllGroups(ir.KindEdge))

	entries := r.Entries(ir.KindEntity)
	require.Len(t, entries, 2)
	assert.Equal(t, "zOld", entries[0].OldGroup, "entries keep declaration order")
}

func TestRegistry_IsEmpty(t *testing.T) {
	r, err := NewRegistry(nil, nil)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())

	var nilReg *Registry
	assert.True(t, nilReg.IsEmpty())
	_, ok := nilReg.LookupByOld(ir.KindEntity, "x")
	assert.False(t, ok)

	assert.False(t, testRegistry(t).IsEmpty())
}

func TestRegistry_EntriesAreCopied(t *testing.T) {
	entries := []Entry{entityEntry()}
	r, err := NewRegistry(entries, nil)
	require.NoError(t, err)

	entries[0].NewGroup = "mutated"
	entries[0].ToNew.Steps[0].Selection[0] = "mutated"
	entries[0].ToNew.Steps[0] = function.Step{}

	e, ok := r.LookupByOld(ir.KindEntity, "entityOld")
	require.True(t, ok)
	assert.Equal(t, "entityNew", e.NewGroup)
	assert.Equal(t, "count", e.ToNew.Steps[0].Projection)
	assert.Equal(t, []string{"count"}, e.ToNew.Steps[0].Selection)
}

func TestRegistry_AccessorsReturnCopies(t *testing.T) {
	r := testRegistry(t)

	byOld, ok := r.LookupByOld(ir.KindEntity, testutil.EntityOld)
	require.True(t, ok)
	byOld.ToNew.Steps[0] = function.Step{Selection: []string{"nope"}, Projection: "x"}

	byNew, ok := r.LookupByNew(ir.KindEntity, testutil.EntityNew)
	require.True(t, ok)
	byNew.ToOld.Steps[0].Selection[0] = "nope"

	listed := r.Entries(ir.KindEdge)
	require.Len(t, listed, 1)
	listed[0].ToNew.Steps[0].Selection[0] = "nope"
	listed[0].OldGroup = "nope"

	want := entityEntry()
	got, ok := r.LookupByOld(ir.KindEntity, testutil.EntityOld)
	require.True(t, ok)
	assert.Equal(t, want.ToNew.Steps[0].Selection, got.ToNew.Steps[0].Selection)
	assert.Equal(t, want.ToNew.Steps[0].Projection, got.ToNew.Steps[0].Projection)
	assert.Equal(t, want.ToOld.Steps[0].Selection, got.ToOld.Steps[0].Selection)

	edges := r.Entries(ir.KindEdge)
	assert.Equal(t, testutil.EdgeOld, edges[0].OldGroup)
	assert.Equal(t, []string{"count"}, edges[0].ToNew.Steps[0].Selection)

	out, err := NormalizeElement(testutil.OldEntity("V1", 3), r, New)
	require.NoError(t, err)
	assert.Equal(t, testutil.NewEntity("V1", 3), out)
}

func TestRegistry_CheckSchema(t *testing.T) {
	assert.NoError(t, testRegistry(t).CheckSchema(testutil.MigrationSchema()))
	assert.NoError(t, (*Registry)(nil).CheckSchema(testutil.MigrationSchema()))

	none := function.Transformer{}
	r, err := NewRegistry(nil, []Entry{NewEntry(testutil.EdgeOld, "edgeV3", none, none)})
	require.NoError(t, err)

	err = r.CheckSchema(testutil.MigrationSchema())
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeUndeclaredGroup, ce.Code)
	assert.Equal(t, ir.KindEdge, ce.Kind)
	assert.Equal(t, "edgeV3", ce.Group)

	// an entity group is not declared as an edge
	r, err = NewRegistry(nil, []Entry{NewEntry(testutil.EntityOld, testutil.EntityNew, none, none)})
	require.NoError(t, err)
	assert.True(t, IsConfigurationError(r.CheckSchema(testutil.MigrationSchema())))
}

func TestNewRegistry_Errors(t *testing.T) {
	none := function.Transformer{}
	tests := []struct {
		name     string
		entities []Entry
		edges    []Entry
		code     ConfigurationErrorCode
		group    string
	}{
		{
			name:     "empty old group",
			entities: []Entry{NewEntry("", "b", none, none)},
			code:     ErrCodeEmptyGroup,
		},
		{
			name:  "empty new group",
			edges: []Entry{NewEntry("a", "", none, none)},
			code:  ErrCodeEmptyGroup,
		},
		{
			name:     "self paired",
			entities: []Entry{NewEntry("a", "a", none, none)},
			code:     ErrCodeSelfPaired,
			group:    "a",
		},
		{
			name: "duplicate old group",
			entities: []Entry{
				NewEntry("a", "b", none, none),
				NewEntry("a", "c", none, none),
			},
			code:  ErrCodeDuplicateGroup,
			group: "a",
		},
		{
			name: "new group reused as old group",
			entities: []Entry{
				NewEntry("a", "b", none, none),
				NewEntry("b", "c", none, none),
			},
			code:  ErrCodeDuplicateGroup,
			group: "b",
		},
		{
			name: "duplicate new group",
			edges: []Entry{
				NewEntry("a", "c", none, none),
				NewEntry("b", "c", none, none),
			},
			code:  ErrCodeDuplicateGroup,
			group: "c",
		},
		{
			name:     "kind collision",
			entities: []Entry{NewEntry("a", "b", none, none)},
			edges:    []Entry{NewEntry("x", "b", none, none)},
			code:     ErrCodeKindCollision,
			group:    "b",
		},
		{
			name: "invalid transform",
			entities: []Entry{NewEntry("a", "b",
				function.Transformer{Steps: []function.Step{{Selection: []string{"count"}, Projection: "count"}}},
				none)},
			code:  ErrCodeInvalidTransform,
			group: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.entities, tt.edges)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, IsConfigurationError(err))

			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
			if tt.group != "" {
				assert.Equal(t, tt.group, ce.Group)
			}
		})
	}
}

func TestNewRegistry_SameNamesAcrossPairsInDifferentKindsFail(t *testing.T) {
	// The same pair declared for both kinds is a collision, not a duplicate.
	_, err := NewRegistry([]Entry{NewEntry("a", "b", function.Transformer{}, function.Transformer{})},
		[]Entry{NewEntry("a", "b", function.Transformer{}, function.Transformer{})})
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeKindCollision, ce.Code)
	assert.Equal(t, ir.KindEdge, ce.Kind)
}
