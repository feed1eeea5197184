package aql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Query is a finished statement: text, bound parameters and an optional
// result batch size. A Query owns its data and shares nothing with the
// builder that produced it.
type Query struct {
	text      string
	bindVars  map[string]json.RawMessage
	batchSize int
}

// wireQuery is the cursor request body.
type wireQuery struct {
	Query     string                     `json:"query"`
	BindVars  map[string]json.RawMessage `json:"bindVars,omitempty"`
	BatchSize int                        `json:"batchSize,omitempty"`
}

// Raw wraps a hand-written statement. Each value in vars is serialized with
// encoding/json.
func Raw(text string, vars map[string]any) (Query, error) {
	q := Query{text: text}
	if len(vars) == 0 {
		return q, nil
	}
	q.bindVars = make(map[string]json.RawMessage, len(vars))
	for name, v := range vars {
		raw, err := marshalValue(v)
		if err != nil {
			return Query{}, &BindError{Op: "Raw", Param: name, Cause: err}
		}
		q.bindVars[name] = raw
	}
	return q, nil
}

// RawBatched is Raw with a result batch size.
func RawBatched(text string, vars map[string]any, batchSize int) (Query, error) {
	if batchSize < 1 {
		return Query{}, fmt.Errorf("aql: batch size must be positive, got %d", batchSize)
	}
	q, err := Raw(text, vars)
	if err != nil {
		return Query{}, err
	}
	q.batchSize = batchSize
	return q, nil
}

// Text returns the statement text.
func (q Query) Text() string {
	return q.text
}

// String returns the statement text.
func (q Query) String() string {
	return q.text
}

// BindVars returns a copy of the bound parameters.
func (q Query) BindVars() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(q.bindVars))
	for k, v := range q.bindVars {
		out[k] = bytes.Clone(v)
	}
	return out
}

// BindVar returns the serialized value bound under name.
func (q Query) BindVar(name string) (json.RawMessage, bool) {
	v, ok := q.bindVars[name]
	return bytes.Clone(v), ok
}

// BatchSize returns the batch size hint, if one is set.
func (q Query) BatchSize() (int, bool) {
	return q.batchSize, q.batchSize > 0
}

// WithBatchSize returns a copy of q carrying the batch size hint n.
// A value below one clears the hint.
func (q Query) WithBatchSize(n int) Query {
	q.bindVars = maps.Clone(q.bindVars)
	q.batchSize = max(n, 0)
	return q
}

// Equal reports whether q and o have the same text, batch size and
// parameters. Parameter values are compared after compaction.
func (q Query) Equal(o Query) bool {
	if q.text != o.text || q.batchSize != o.batchSize || len(q.bindVars) != len(o.bindVars) {
		return false
	}
	for k, v := range q.bindVars {
		w, ok := o.bindVars[k]
		if !ok || !equalJSON(v, w) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the query in cursor request form:
//
//	{"query":"...","bindVars":{...},"batchSize":n}
//
// bindVars is omitted when empty and batchSize when unset. Comparison
// operators are not HTML-escaped, so the text reads as written. Note that
// json.Marshal re-escapes the output of MarshalJSON; call MarshalJSON
// directly or use an encoder with SetEscapeHTML(false) to keep it.
func (q Query) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wireQuery{
		Query:     q.text,
		BindVars:  q.bindVars,
		BatchSize: q.batchSize,
	}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes the cursor request form.
func (q *Query) UnmarshalJSON(data []byte) error {
	var w wireQuery
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("aql: decode query: %w", err)
	}
	if w.BatchSize < 0 {
		return fmt.Errorf("aql: decode query: negative batch size %d", w.BatchSize)
	}
	*q = Query{text: w.Query, batchSize: w.BatchSize}
	if len(w.BindVars) > 0 {
		q.bindVars = make(map[string]json.RawMessage, len(w.BindVars))
		for k, v := range w.BindVars {
			q.bindVars[k] = bytes.Clone(v)
		}
	}
	return nil
}

func marshalValue(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func equalJSON(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
