// Package function provides the property-level execution primitives used by
// views, the store and schema migrations.
//
// Three capabilities are offered:
//
//   - Transformer: select properties, apply a Function, project the result
//     back under the same or a renamed key. A migration pair declares one
//     Transformer per direction of travel.
//   - Filter: select properties and test them with a Predicate. Views carry
//     filters that the store evaluates before and after aggregation and
//     after transformation.
//   - BinaryOperator: fold two property values into one during store-side
//     aggregation of rows sharing an identity.
//
// NUMERIC TOLERANCE:
//
// Comparison predicates widen IRInt and IRLong operands to int64 before
// comparing, so a filter written against an old group (narrow integers) can
// be evaluated unchanged against the new group (wide integers) of the same
// migration pair, and vice versa.
//
// All functions, predicates and operators are pure and deterministic.
package function
