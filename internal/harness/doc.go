// Package harness runs migration scenarios against a real store.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: count_widening
//	description: "What this scenario validates"
//	spec: ../specs/graph.cue
//	elements:
//	  - {kind: entity, group: entityOld, vertex: V1, properties: {count: 10}}
//	cases:
//	  - name: old view as new
//	    direction: NEW
//	    seeds: [V1]
//	    view: {entities: {entityOld: {}}}
//	    expect:
//	      - {kind: entity, group: entityNew, vertex: V1, properties: {count: 10}}
//
// The spec path is relative to the scenario file. Element literals take the
// value class the spec's schema declares for each property.
//
// # Expectations
//
// Each case may combine:
//
//   - expect: the result equals these elements, ignoring order
//   - expect_contains: the result includes these elements
//   - expect_count: the result has exactly this many elements
//   - expect_error: the query fails with an error of this category
//     ("transform" or "configuration")
//
// # Deterministic Testing
//
// Every scenario runs in a fresh SQLite database with a fixed query ID, and
// snapshots list elements in sorted order so golden files are stable.
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/count_widening.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
package harness
