package aql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type beatle struct {
	Name string `json:"name"`
}

type instrument struct {
	Instrument string `json:"instrument"`
}

func TestCollectionQueries(t *testing.T) {
	c := NewCollection("Beatles", DocumentCollection)

	tests := []struct {
		name  string
		query func() (Query, error)
		want  string
	}{
		{
			name:  "insert",
			query: func() (Query, error) { return c.Insert(beatle{"Paul McCartney"}) },
			want:  `{"query":"INSERT @value INTO @@collection RETURN NEW","bindVars":{"@collection":"Beatles","value":{"name":"Paul McCartney"}}}`,
		},
		{
			name:  "get all",
			query: c.GetAll,
			want:  `{"query":"FOR item in @@collection RETURN item","bindVars":{"@collection":"Beatles"}}`,
		},
		{
			name:  "get by key",
			query: func() (Query, error) { return c.GetByKey("Paul") },
			want:  `{"query":"RETURN DOCUMENT(@@collection, @key)","bindVars":{"@collection":"Beatles","key":"Paul"}}`,
		},
		{
			name:  "get by keys",
			query: func() (Query, error) { return c.GetByKeys([]string{"Paul", "John", "Ringo", "George"}) },
			want:  `{"query":"RETURN DOCUMENT(@@collection, @keys)","bindVars":{"@collection":"Beatles","keys":["Paul","John","Ringo","George"]}}`,
		},
		{
			name:  "replace",
			query: func() (Query, error) { return c.Replace("Paul", beatle{"John Lennon"}) },
			want:  `{"query":"REPLACE @key WITH @elem IN @@collection RETURN NEW","bindVars":{"@collection":"Beatles","elem":{"name":"John Lennon"},"key":"Paul"}}`,
		},
		{
			name:  "update",
			query: func() (Query, error) { return c.Update("Paul", instrument{"bass"}) },
			want:  `{"query":"UPDATE @key WITH @update IN @@collection RETURN NEW","bindVars":{"@collection":"Beatles","key":"Paul","update":{"instrument":"bass"}}}`,
		},
		{
			name:  "update with id",
			query: func() (Query, error) { return c.UpdateWithID("Beatles/Paul", instrument{"bass"}) },
			want:  `{"query":"LET doc = DOCUMENT(@id) UPDATE doc WITH @update IN @@collection RETURN NEW","bindVars":{"@collection":"Beatles","id":"Beatles/Paul","update":{"instrument":"bass"}}}`,
		},
		{
			name:  "remove",
			query: func() (Query, error) { return c.Remove("Paul") },
			want:  `{"query":"REMOVE @key IN @@collection RETURN OLD","bindVars":{"@collection":"Beatles","key":"Paul"}}`,
		},
		{
			name:  "truncate",
			query: c.Truncate,
			want:  `{"query":"FOR item IN @@collection REMOVE item IN @@collection","bindVars":{"@collection":"Beatles"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.query()
			require.NoError(t, err)
			out, err := q.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestCollectionBindError(t *testing.T) {
	_, err := NewCollection("Beatles", DocumentCollection).Insert(make(chan int))
	require.Error(t, err)
	assert.True(t, IsBindError(err))
	assert.Contains(t, err.Error(), "value")
}

func TestCollectionType(t *testing.T) {
	assert.Equal(t, 2, int(DocumentCollection))
	assert.Equal(t, 3, int(EdgeCollection))

	out, err := json.Marshal(map[string]CollectionType{"t": EdgeCollection})
	require.NoError(t, err)
	assert.Equal(t, `{"t":"edge"}`, string(out))

	var decoded map[string]CollectionType
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, EdgeCollection, decoded["t"])

	var bad CollectionType
	assert.Error(t, bad.UnmarshalText([]byte("graph")))
	_, err = CollectionType(9).MarshalText()
	assert.Error(t, err)
}
