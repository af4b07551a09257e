// Package graph executes operations against an element store through a
// chain of hooks.
//
// Execute runs, in order:
//
//  1. every hook's PreExecute, each receiving the operation returned by the
//     previous one;
//  2. the operation itself against the store;
//  3. every hook's PostExecute, in the same order, each wrapping the result
//     of the previous one.
//
// Results are lazy stream.Iterators. If a hook fails after the store has
// produced a result, that result is closed before the error is returned, so
// no cursor leaks.
//
// Each Execute call is tagged with a query ID (UUIDv7 by default) that
// appears on every log record of the call.
package graph
