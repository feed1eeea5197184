package aql

import (
	"encoding/json"
	"fmt"
)

// CollectionType is the ArangoDB collection type code.
type CollectionType int

// Collection types.
const (
	DocumentCollection CollectionType = 2
	EdgeCollection     CollectionType = 3
)

func (t CollectionType) String() string {
	switch t {
	case DocumentCollection:
		return "document"
	case EdgeCollection:
		return "edge"
	default:
		return fmt.Sprintf("CollectionType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t CollectionType) MarshalText() ([]byte, error) {
	switch t {
	case DocumentCollection, EdgeCollection:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("aql: unknown collection type %d", int(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CollectionType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "document", "":
		*t = DocumentCollection
	case "edge":
		*t = EdgeCollection
	default:
		return fmt.Errorf("aql: unknown collection type %q", text)
	}
	return nil
}

// Collection issues single-statement queries against one collection by
// document key.
type Collection struct {
	Name string
	Type CollectionType
}

// NewCollection returns a Collection named name.
func NewCollection(name string, typ CollectionType) Collection {
	return Collection{Name: name, Type: typ}
}

// Insert stores elem as a new document.
func (c Collection) Insert(elem any) (Query, error) {
	return c.query("INSERT @value INTO @@collection RETURN NEW", "value", elem)
}

// GetAll returns every document.
func (c Collection) GetAll() (Query, error) {
	return c.query("FOR item in @@collection RETURN item")
}

// GetByKey returns the document stored under key.
func (c Collection) GetByKey(key any) (Query, error) {
	return c.query("RETURN DOCUMENT(@@collection, @key)", "key", key)
}

// GetByKeys returns the documents stored under keys.
func (c Collection) GetByKeys(keys any) (Query, error) {
	return c.query("RETURN DOCUMENT(@@collection, @keys)", "keys", keys)
}

// Replace overwrites the document stored under key with elem.
func (c Collection) Replace(key, elem any) (Query, error) {
	return c.query("REPLACE @key WITH @elem IN @@collection RETURN NEW", "key", key, "elem", elem)
}

// Update merges patch into the document stored under key.
func (c Collection) Update(key, patch any) (Query, error) {
	return c.query("UPDATE @key WITH @update IN @@collection RETURN NEW", "key", key, "update", patch)
}

// UpdateWithID merges patch into the document with the given _id.
func (c Collection) UpdateWithID(id string, patch any) (Query, error) {
	return c.query("LET doc = DOCUMENT(@id) UPDATE doc WITH @update IN @@collection RETURN NEW", "id", id, "update", patch)
}

// Remove deletes the document stored under key.
func (c Collection) Remove(key any) (Query, error) {
	return c.query("REMOVE @key IN @@collection RETURN OLD", "key", key)
}

// Truncate deletes every document.
func (c Collection) Truncate() (Query, error) {
	return c.query("FOR item IN @@collection REMOVE item IN @@collection")
}

// query binds the collection and the name/value pairs in kv.
func (c Collection) query(text string, kv ...any) (Query, error) {
	name, _ := json.Marshal(c.Name)
	q := Query{text: text, bindVars: map[string]json.RawMessage{CollectionParam: name}}
	for i := 0; i+1 < len(kv); i += 2 {
		param := kv[i].(string)
		raw, err := marshalValue(kv[i+1])
		if err != nil {
			return Query{}, &BindError{Op: "Collection", Param: param, Cause: err}
		}
		q.bindVars[param] = raw
	}
	return q, nil
}
