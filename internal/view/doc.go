// Package view defines the per-group query view evaluated by the store.
//
// A View maps each requested entity or edge group to an ElementDefinition.
// The store applies the definition's stages in this order:
//
//	PreAggregationFilter -> Aggregator -> PostAggregationFilter
//	  -> Transformer -> PostTransformFilter
//
// Only groups named in the view are returned. A group absent from the view
// is not queried at all, which is why schema migrations expand a view to
// name both sides of a pair before it reaches the store.
//
// Views are values: Clone and Merge never share step slices with their
// inputs, so a view handed to a store can't be modified from the outside.
package view
