// Package arangoq holds the collaborators that execute the AQL queries
// built by package aql and the generated builder packages.
//
// The query builders never talk to a server. A finished aql.Query is
// handed to an Executor, whose result set All and One decode:
//
//	q, err := person.Query().Read().Filter().NameEq("Ada").Build()
//	if err != nil {
//		return err
//	}
//	p, err := arangoq.One[people.Person](ctx, exec, q)
//
// Connection and Context name the server endpoints and the collections of
// an application.
package arangoq
