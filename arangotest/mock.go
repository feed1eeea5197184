// Package arangotest provides an in-memory arangoq.Executor for tests.
package arangotest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syssam/arangoq"
	"github.com/syssam/arangoq/aql"
)

// Mock answers queries with canned result sets. Queries are matched by
// their wire JSON, so two queries match when they have the same text,
// bind parameters and batch size.
//
//	m := arangotest.NewMock().On(q, []people.Person{p})
//	got, err := arangoq.All[people.Person](ctx, m, q)
type Mock struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	failures  map[string]error
	calls     []aql.Query
}

var _ arangoq.Executor = (*Mock)(nil)

// NewMock returns a mock without responses.
func NewMock() *Mock {
	return &Mock{
		responses: make(map[string]json.RawMessage),
		failures:  make(map[string]error),
	}
}

// On registers the result set of q. A json.RawMessage is used as is;
// any other value is encoded with encoding/json. On panics if result
// cannot be encoded.
func (m *Mock) On(q aql.Query, result any) *Mock {
	raw, ok := result.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(result); err != nil {
			panic(fmt.Sprintf("arangotest: encode result of %q: %v", q.Text(), err))
		}
	}
	key := Key(q)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, key)
	m.responses[key] = raw
	return m
}

// OnError makes q fail with err.
func (m *Mock) OnError(q aql.Query, err error) *Mock {
	key := Key(q)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.responses, key)
	m.failures[key] = err
	return m
}

// Execute implements arangoq.Executor. Queries without a registered
// response fail with an *arangoq.UnknownQueryError.
func (m *Mock) Execute(ctx context.Context, q aql.Query) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Key(q)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, q)
	if err, ok := m.failures[key]; ok {
		return nil, err
	}
	raw, ok := m.responses[key]
	if !ok {
		return nil, arangoq.NewUnknownQueryError(q)
	}
	return append(json.RawMessage(nil), raw...), nil
}

// Calls returns the executed queries in call order.
func (m *Mock) Calls() []aql.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]aql.Query(nil), m.calls...)
}

// Reset drops the recorded calls. Responses are kept.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Key returns the wire JSON a query is matched by.
func Key(q aql.Query) string {
	data, err := q.MarshalJSON()
	if err != nil {
		// Bind values are encoded when bound, so a finished query always
		// encodes.
		panic(fmt.Sprintf("arangotest: encode query: %v", err))
	}
	return string(data)
}
