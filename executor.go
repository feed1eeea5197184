package arangoq

import (
	"context"
	"encoding/json"

	"github.com/syssam/arangoq/aql"
)

// Executor runs finished queries. Execute returns the result set of q,
// a JSON array with one element per returned document.
type Executor interface {
	Execute(ctx context.Context, q aql.Query) (json.RawMessage, error)
}

// The ExecutorFunc type is an adapter to allow the use of ordinary
// functions as Executor.
type ExecutorFunc func(context.Context, aql.Query) (json.RawMessage, error)

// Execute calls f(ctx, q).
func (f ExecutorFunc) Execute(ctx context.Context, q aql.Query) (json.RawMessage, error) {
	return f(ctx, q)
}

// All executes q and decodes every returned document into a T.
func All[T any](ctx context.Context, ex Executor, q aql.Query) ([]T, error) {
	raw, err := ex.Execute(ctx, q)
	if err != nil {
		return nil, NewQueryError("execute", q, err)
	}
	var docs []T
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, NewQueryError("decode", q, err)
	}
	return docs, nil
}

// One executes q and returns its only document. It fails with a
// *NotFoundError when q returns nothing and a *NotSingularError when it
// returns more than one document.
func One[T any](ctx context.Context, ex Executor, q aql.Query) (T, error) {
	var zero T
	docs, err := All[T](ctx, ex, q)
	if err != nil {
		return zero, err
	}
	switch len(docs) {
	case 1:
		return docs[0], nil
	case 0:
		return zero, NewNotFoundError(collectionOf(q))
	default:
		return zero, NewNotSingularError(collectionOf(q), len(docs))
	}
}

// collectionOf returns the collection bound to q, or "" for queries that
// do not bind one.
func collectionOf(q aql.Query) string {
	raw, ok := q.BindVar(aql.CollectionParam)
	if !ok {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return name
}
