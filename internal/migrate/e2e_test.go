package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/store"
	"github.com/roach88/schemamig/internal/stream"
	"github.com/roach88/schemamig/internal/testutil"
	"github.com/roach88/schemamig/internal/view"
)

// migratedGraph opens a store holding elements and wires a configured hook
// in front of it.
func migratedGraph(t *testing.T, h *Hook, elements ...ir.Element) *graph.Graph {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "e2e.db"), testutil.MigrationSchema())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.AddElements(context.Background(), elements))
	return graph.New(st, graph.WithHooks(h), graph.WithQueryIDGenerator(testutil.NewFixedQueryIDGenerator("")))
}

func entityView(group string) *view.View {
	return view.New().Set(ir.KindEntity, group, view.ElementDefinition{})
}

func TestE2E_OldGroupViewReturnsNewSchema(t *testing.T) {
	h := configuredHook(t, WithOutputType(New))
	g := migratedGraph(t, h, testutil.OldEntity("V1", 10), testutil.NewEntity("V2", 10))

	got, err := g.Collect(context.Background(), graph.GetAllElements{View: entityView(testutil.EntityOld)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ir.Element{
		testutil.NewEntity("V1", 10),
		testutil.NewEntity("V2", 10),
	}, got)
}

func TestE2E_NewGroupViewReturnsOldSchema(t *testing.T) {
	h := configuredHook(t, WithOutputType(Old))
	g := migratedGraph(t, h, testutil.OldEntity("V1", 10), testutil.NewEntity("V2", 10))

	got, err := g.Collect(context.Background(), graph.GetAllElements{View: entityView(testutil.EntityNew)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ir.Element{
		testutil.OldEntity("V1", 10),
		testutil.OldEntity("V2", 10),
	}, got)
}

func TestE2E_UnmigratedGroupUnchanged(t *testing.T) {
	for _, d := range []Direction{New, Old} {
		t.Run(d.String(), func(t *testing.T) {
			h := configuredHook(t, WithOutputType(d))
			g := migratedGraph(t, h, testutil.PlainEntity("P1", 3), testutil.OldEntity("V1", 1))

			got, err := g.Collect(context.Background(), graph.GetAllElements{View: entityView(testutil.Plain)})
			require.NoError(t, err)
			assert.Equal(t, []ir.Element{testutil.PlainEntity("P1", 3)}, got)
		})
	}
}

func TestE2E_FilterAppliesToBothGroups(t *testing.T) {
	// The int literal is compared against both int and long counts.
	moreThanFive := function.Where([]string{"count"}, function.IsMoreThan{Value: ir.IRInt(5)})
	v := view.New().Set(ir.KindEntity, testutil.EntityOld, view.ElementDefinition{
		PreAggregationFilter: moreThanFive,
	})

	h := configuredHook(t, WithOutputType(New))
	g := migratedGraph(t, h,
		testutil.OldEntity("V1", 10),
		testutil.OldEntity("V3", 1),
		testutil.NewEntity("V2", 10),
		testutil.NewEntity("V4", 2),
	)

	got, err := g.Collect(context.Background(), graph.GetAllElements{View: v})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ir.Element{
		testutil.NewEntity("V1", 10),
		testutil.NewEntity("V2", 10),
	}, got)
}

func TestE2E_AggregatesPerPhysicalGroup(t *testing.T) {
	h := configuredHook(t, WithOutputType(New))
	g := migratedGraph(t, h,
		testutil.OldEntity("V1", 4),
		testutil.OldEntity("V1", 6),
		testutil.NewEntity("V1", 5),
	)

	got, err := g.Collect(context.Background(), graph.GetElements{
		Seeds: []string{"V1"},
		View:  entityView(testutil.EntityOld),
	})
	require.NoError(t, err)
	// The two physical groups aggregate separately and both normalize to
	// entityNew without being merged.
	assert.ElementsMatch(t, []ir.Element{
		testutil.NewEntity("V1", 10),
		testutil.NewEntity("V1", 5),
	}, got)
}

func TestE2E_EdgesBySeed(t *testing.T) {
	h := configuredHook(t, WithOutputType(Old))
	g := migratedGraph(t, h,
		testutil.NewEdge("V1", "V2", 7),
		testutil.OldEdge("V3", "V1", 2),
		testutil.OldEdge("V3", "V4", 9),
	)

	v := view.New().Set(ir.KindEdge, testutil.EdgeNew, view.ElementDefinition{})
	got, err := g.Collect(context.Background(), graph.GetElements{Seeds: []string{"V1"}, View: v})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ir.Element{
		testutil.OldEdge("V1", "V2", 7),
		testutil.OldEdge("V3", "V1", 2),
	}, got)
}

func TestE2E_PerQueryOverride(t *testing.T) {
	h := configuredHook(t, WithOutputType(New))
	g := migratedGraph(t, h, testutil.OldEntity("V1", 10), testutil.NewEntity("V2", 10))

	got, err := g.Collect(context.Background(), graph.GetAllElements{
		View:    entityView(testutil.EntityOld),
		Options: map[string]string{OptionOutputType: "old"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []ir.Element{
		testutil.OldEntity("V1", 10),
		testutil.OldEntity("V2", 10),
	}, got)
	assert.Equal(t, New, h.OutputType(), "override must not change the hook")

	_, err = g.Execute(context.Background(), graph.GetAllElements{
		View:    entityView(testutil.EntityOld),
		Options: map[string]string{OptionOutputType: "sideways"},
	})
	require.Error(t, err)
	assert.True(t, graph.IsHookError(err))
	assert.True(t, IsConfigurationError(err))
}

func TestE2E_TransformFailureMidStream(t *testing.T) {
	broken := NewEntry(testutil.EntityOld, testutil.EntityNew,
		function.Transform([]string{"missing"}, function.ToLong{}, "count"),
		testutil.CountToInteger(),
	)
	h := NewHook(WithOutputType(New))
	require.NoError(t, h.ConfigureMigrations([]Entry{broken}, nil))

	// Rows come back ordered by group, so entityNew precedes entityOld.
	g := migratedGraph(t, h, testutil.OldEntity("V1", 10), testutil.NewEntity("V2", 10))

	it, err := g.Execute(context.Background(), graph.GetAllElements{View: entityView(testutil.EntityOld)})
	require.NoError(t, err)

	got, err := stream.Collect(it)
	require.Error(t, err)
	assert.True(t, IsTransformError(err))
	assert.ErrorIs(t, err, function.ErrMissingProperty)
	assert.Equal(t, []ir.Element{testutil.NewEntity("V2", 10)}, got)

	var te *TransformError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, testutil.EntityOld, te.Group)
	assert.Equal(t, "vertex=V1", te.Identity)
}

func TestE2E_AddElementsPassesThrough(t *testing.T) {
	h := configuredHook(t)
	g := migratedGraph(t, h)

	it, err := g.Execute(context.Background(), graph.AddElements{Elements: []ir.Element{testutil.OldEntity("V1", 1)}})
	require.NoError(t, err)
	require.NoError(t, it.Close())

	got, err := g.Collect(context.Background(), graph.GetAllElements{})
	require.NoError(t, err)
	// A nil view is not expanded; the element is still normalized.
	assert.Equal(t, []ir.Element{testutil.NewEntity("V1", 1)}, got)
}
