package arangoq

import (
	"errors"
	"fmt"

	"github.com/syssam/arangoq/aql"
)

// Standard sentinel errors of query execution.
var (
	// ErrUnknownQuery is returned by executors that do not know how to
	// answer a query, such as arangotest.Mock without a canned response.
	ErrUnknownQuery = errors.New("arangoq: unknown query")

	// ErrNotFound is returned when a query expecting one document
	// returns none.
	ErrNotFound = errors.New("arangoq: document not found")

	// ErrNotSingular is returned when a query expecting one document
	// returns several.
	ErrNotSingular = errors.New("arangoq: document not singular")
)

// UnknownQueryError reports a query an executor has no answer for.
type UnknownQueryError struct {
	Query aql.Query
}

// Error returns the error string.
func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("arangoq: unknown query %q", e.Query.Text())
}

// Is reports whether the target error matches UnknownQueryError.
// This allows errors.Is(err, ErrUnknownQuery) to return true.
func (e *UnknownQueryError) Is(err error) bool {
	return err == ErrUnknownQuery
}

// NewUnknownQueryError returns a new UnknownQueryError for q.
func NewUnknownQueryError(q aql.Query) *UnknownQueryError {
	return &UnknownQueryError{Query: q}
}

// IsUnknownQuery returns true if the error is an UnknownQueryError.
func IsUnknownQuery(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownQueryError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownQuery)
}

// NotFoundError represents a query that matched no document.
type NotFoundError struct {
	collection string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.collection == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("arangoq: document not found in %s", e.collection)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Collection returns the collection that was searched, if known.
func (e *NotFoundError) Collection() string {
	return e.collection
}

// NewNotFoundError returns a new NotFoundError for the given collection.
func NewNotFoundError(collection string) *NotFoundError {
	return &NotFoundError{collection: collection}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents a query expecting one document that
// matched several.
type NotSingularError struct {
	collection string
	count      int
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.collection == "" {
		return fmt.Sprintf("arangoq: document not singular (got %d results, expected 1)", e.count)
	}
	return fmt.Sprintf("arangoq: %s document not singular (got %d results, expected 1)", e.collection, e.count)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Count returns the number of documents returned.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError with the result count.
func NewNotSingularError(collection string, count int) *NotSingularError {
	return &NotSingularError{collection: collection, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// QueryError wraps a failure to execute or decode a query.
type QueryError struct {
	Op    string // Operation (e.g., "execute", "decode")
	Query string // Query text
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("arangoq: %s %q: %v", e.Op, e.Query, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(op string, q aql.Query, err error) *QueryError {
	return &QueryError{Op: op, Query: q.Text(), Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}
