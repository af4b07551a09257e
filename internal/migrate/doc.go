// Package migrate implements schema migration between paired element groups.
//
// When a group's schema changes, the new schema is declared under a new
// group name and existing data stays under the old one. An Entry pairs the
// two names with a Transformer for each direction of travel. A Registry
// holds the entries for entities and edges.
//
// The Hook makes the pairing invisible to callers:
//
//  1. Before execution, ExpandView adds the partner of every requested group
//     to the view, with a copy of the requested group's definition, so the
//     store filters and aggregates each physical group on its own.
//  2. After execution, Normalize converts every returned element into the
//     requested schema version (Direction), lazily, as it is pulled.
//
// Elements from the two physical groups that land on the same output group
// and identity are not merged: aggregation happens in the store, per
// physical group, before normalization.
//
// A Hook holds no per-query state. The Direction used by a query is captured
// when its result is wrapped; it can also be set per query through the
// OptionOutputType operation option.
package migrate
