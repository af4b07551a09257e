// Package ir provides the element data model shared by every schemamig package.
//
// This package contains the typed property values, entity and edge elements,
// the group schema, and the canonical encodings used for storage and identity.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Integers are typed by width: IRInt is 32-bit, IRLong is 64-bit. A
//     schema migration typically moves a property from one to the other.
//   - NO float types anywhere - property values must encode deterministically
//   - Elements are values; transformations build new elements and never
//     mutate the properties of an element they were given
//   - All JSON tags use snake_case
package ir
