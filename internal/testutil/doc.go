// Package testutil provides deterministic helpers shared by package tests:
// a fixed query ID generator, an iterator that records how it is consumed,
// and the entity/edge migration fixtures used across the suite.
package testutil
