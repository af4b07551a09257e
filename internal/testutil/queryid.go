package testutil

// FixedQueryIDGenerator generates the same query ID every time.
//
// Log output and golden snapshots that include query IDs stay
// byte-identical across runs.
//
// Thread-safety: FixedQueryIDGenerator is stateless and safe for concurrent use.
type FixedQueryIDGenerator struct {
	id string
}

// NewFixedQueryIDGenerator creates a generator returning id.
// If id is empty, Generate() returns "test-query-default".
func NewFixedQueryIDGenerator(id string) *FixedQueryIDGenerator {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedQueryIDGenerator{id: id}
}

// Generate returns the fixed query ID.
//
// Implements graph.QueryIDGenerator.
func (g *FixedQueryIDGenerator) Generate() string {
	return g.id
}
