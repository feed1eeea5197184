// Package schema describes the records query builders are generated for.
//
// A [Schema] is the ordered list of addressable fields of one record kind.
// Each [Field] pairs the document attribute name with the Go type values
// of that field must have. Schemas come from three sources:
//
//   - [For] inspects a Go struct at run time.
//   - The compiler/load package reads Go source without running it.
//   - [New] accepts an explicit description, as read from aqlgen.yaml.
//
// Attribute names follow encoding/json: the json tag name when present,
// the Go field name otherwise. Fields tagged "-" and unexported fields are
// not part of the schema. A record without any addressable field, or with
// an embedded field that carries no json name, is rejected with an [*Error].
//
//	type Person struct {
//		ID   uuid.UUID `json:"id"`
//		Name string    `json:"name"`
//		Age  int       `json:"age"`
//	}
//
//	s, err := schema.For[Person]()
//	// s.FieldNames() == []string{"id", "name", "age"}
//
// *Schema implements aql.Fields, so the untyped builder can check field
// names and value types against it:
//
//	aql.NewFor("People", schema.MustFor[Person]())
package schema
