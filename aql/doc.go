// Package aql assembles parameterized AQL statements from a closed set of
// operations.
//
// A statement is built by moving a value through a small state machine. Every
// state carries a set of capabilities, and an operation is legal only from a
// state carrying the capability it requires:
//
//	EmptyBuilder ──create/read/update/delete──▶ CreateQuery, ReadQuery, UpdateQuery, DeleteQuery
//	Filterable   ──filter──▶ Filtering
//	Conditionable ──condition──▶ Conditional
//	LogicallyOperatable ──and/or──▶ LogicalOperator
//	Limitable    ──limit──▶ (same state)
//	Sortable     ──sort──▶ Sorting
//	UpdateWith   ──set/replace──▶ UpdateField
//	Buildable    ──build──▶ Query
//
// The lattice is exposed as data through [Capabilities] and [Step]. Generated
// per-schema packages turn it into distinct Go types, so an illegal chain such
// as calling Build on a LogicalOperator does not compile. [Builder] is the
// untyped engine those packages wrap. Used directly it checks every call
// against the same table and records the first illegal call as a
// [*TransitionError] that Build returns.
//
// # Parameters
//
// Values never appear in the statement text. Each one is serialized with
// encoding/json when it is bound and stored under a generated name:
//
//	filterVar<n>   comparison operands
//	withVar<n>     field and document updates
//	sort_by        the attribute name of the first sort
//	limit          the result cap (pre-bound to 100 for reads)
//	@collection    the target collection
//
// where <n> is the number of parameters already bound. Names are unique for
// the life of a builder.
//
// # Example
//
//	q, err := aql.New("People").
//		Read().
//		Filter().
//		Condition("name", aql.OpEq, "Alice").
//		Limit(10).
//		Build()
//
// produces
//
//	FOR item IN @@collection FILTER item.name == @filterVar2 LIMIT @limit RETURN item
//
// with bind variables {"@collection":"People","filterVar2":"Alice","limit":10}.
package aql
