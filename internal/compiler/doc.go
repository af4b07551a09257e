// Package compiler turns CUE graph specs into a store schema and
// migration entries.
//
// A spec declares value types, entity and edge groups, and the migration
// pairs between them:
//
//	types: {
//		int:  {class: "int", aggregate: "Sum"}
//		long: {class: "long", aggregate: "Sum"}
//	}
//	entities: {
//		entityOld: properties: count: "int"
//		entityNew: properties: count: "long"
//	}
//	migrations: {
//		output: "NEW"
//		entities: [{
//			old:   "entityOld"
//			new:   "entityNew"
//			toNew: [{select: ["count"], function: "ToLong", project: "count"}]
//			toOld: [{select: ["count"], function: "ToInteger", project: "count"}]
//		}]
//	}
//
// Compilation fails with *CompileError for malformed input, ValidationErrors
// for references the schema cannot satisfy, and *migrate.ConfigurationError
// for invalid pairings.
package compiler
