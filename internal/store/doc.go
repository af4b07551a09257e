// Package store provides a SQLite-backed element store queried through views.
//
// Every AddElements call appends one row per element. Rows are never
// updated: two rows with the same kind, group and identity are the same
// logical element and are folded together when read.
//
// # Query pipeline
//
// For every group named by the view, per logical element:
//
//  1. PreAggregationFilter is applied to each stored row.
//  2. Surviving rows are folded property by property. The operator comes
//     from the view's Aggregator override, else from the aggregate function
//     of the property's schema type; a property whose type declares none
//     keeps its first value.
//  3. PostAggregationFilter, Transformer and PostTransformFilter are applied
//     to the folded element.
//
// Aggregation is per physical group: an old group and its migration partner
// are never folded together here.
//
// # Ordering
//
// Rows are read ORDER BY kind, group_name, element_id, seq so that all rows
// of one element are adjacent and the fold is a single streaming pass.
// Results are produced lazily from the open cursor; closing the iterator
// releases it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Element IDs are computed by ir.ElementID using RFC 8785 canonical JSON and
// SHA-256 with domain separation.
package store
