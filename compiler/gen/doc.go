// Package gen generates typed AQL query builders from record schemas.
//
// For every record type the generator writes one package whose state types
// wrap aql.Builder. The method set of each state is derived from the
// capability lattice in package aql, so an operation a state lacks is not a
// runtime error but a missing method:
//
//	person.Query().Read().Filter().NameEq("Joe").Limit(10).Build()
//	person.Query().Read().Filter().Build() // does not compile
//
// # Pipeline
//
//	Record types (Go source, reflection or aqlgen.yaml)
//	        ↓
//	   schema.Schema
//	        ↓
//	   Graph of Types (naming, method sets, collision checks)
//	        ↓
//	   Generator (Jennifer, one file per type, rendered in parallel)
//	        ↓
//	   <target>/<type>/<type>.go
//
// # Generated identifiers
//
// Condition methods are named after the field and operator (NameEq,
// AgeGe, TagsNotIn). In and NotIn take their values variadically. Set
// methods are named after the field; a field whose name clashes with an
// operation method, such as Limit, gets a Field suffix (LimitField).
//
// # Configuration
//
// Options follow the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//		gen.WithTarget("./queries"),
//		gen.WithPackage("github.com/acme/app/queries"),
//		gen.WithSource("./records", "Person"),
//	)
//
// The same settings can be read from an aqlgen.yaml file with ReadConfig.
package gen
