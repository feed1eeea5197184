package aql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWireShape(t *testing.T) {
	t.Run("omits empty bind vars", func(t *testing.T) {
		q, err := Raw("RETURN 1", nil)
		require.NoError(t, err)

		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.Equal(t, `{"query":"RETURN 1"}`, string(out))
	})

	t.Run("includes batch size when set", func(t *testing.T) {
		q, err := RawBatched("FOR x IN stuff RETURN x", map[string]any{}, 3)
		require.NoError(t, err)

		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.Equal(t, `{"query":"FOR x IN stuff RETURN x","batchSize":3}`, string(out))
	})

	t.Run("binds raw values", func(t *testing.T) {
		q, err := Raw("FOR x IN @@c FILTER x.a == @a RETURN x", map[string]any{"@c": "stuff", "a": []int{1, 2}})
		require.NoError(t, err)

		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.Equal(t, `{"query":"FOR x IN @@c FILTER x.a == @a RETURN x","bindVars":{"@c":"stuff","a":[1,2]}}`, string(out))
	})

	t.Run("keeps comparison operators unescaped", func(t *testing.T) {
		q, err := Raw("FOR x IN c FILTER x.a >= 1 && x.b < 2 RETURN x", nil)
		require.NoError(t, err)

		out, err := q.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"query":"FOR x IN c FILTER x.a >= 1 && x.b < 2 RETURN x"}`, string(out))

		escaped, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, string(out), string(escaped))
	})
}

func TestRawErrors(t *testing.T) {
	t.Run("unserializable value", func(t *testing.T) {
		_, err := Raw("RETURN @a", map[string]any{"a": make(chan int)})
		require.Error(t, err)
		assert.True(t, IsBindError(err))
		assert.Contains(t, err.Error(), "Raw")
	})

	t.Run("non-positive batch size", func(t *testing.T) {
		_, err := RawBatched("RETURN 1", nil, 0)
		require.Error(t, err)
	})
}

func TestQueryRoundTrip(t *testing.T) {
	queries := map[string]func() (Query, error){
		"read": New("People").Read().Filter().Condition("name", OpIn, []string{"a", "b"}).Build,
		"create": New("People").Create(struct {
			Name string `json:"name"`
		}{"Ford"}).Build,
		"update": New("People").Update().Set("age", 7).Build,
		"batched": func() (Query, error) {
			return RawBatched("FOR x IN stuff RETURN x", map[string]any{"n": 1}, 25)
		},
		"no vars": func() (Query, error) { return Raw("RETURN 1", nil) },
	}

	for name, build := range queries {
		t.Run(name, func(t *testing.T) {
			q, err := build()
			require.NoError(t, err)

			data, err := json.Marshal(q)
			require.NoError(t, err)

			var decoded Query
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, q.Equal(decoded), "decoded %s", data)
			assert.Equal(t, q.Text(), decoded.Text())

			again, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestQueryUnmarshalErrors(t *testing.T) {
	var q Query
	assert.Error(t, json.Unmarshal([]byte(`{"query":1}`), &q))
	assert.Error(t, json.Unmarshal([]byte(`{"query":"x","batchSize":-1}`), &q))
}

func TestQueryBatchSize(t *testing.T) {
	q, err := New("c").Read().Build()
	require.NoError(t, err)

	_, ok := q.BatchSize()
	assert.False(t, ok)

	batched := q.WithBatchSize(50)
	n, ok := batched.BatchSize()
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	_, ok = q.BatchSize()
	assert.False(t, ok, "WithBatchSize must not change the receiver")

	_, ok = batched.WithBatchSize(0).BatchSize()
	assert.False(t, ok)
}

func TestQueryEqual(t *testing.T) {
	a, err := Raw("RETURN @a", map[string]any{"a": map[string]int{"x": 1}})
	require.NoError(t, err)

	var b Query
	require.NoError(t, json.Unmarshal([]byte(`{"query":"RETURN @a","bindVars":{"a":{ "x" : 1 }}}`), &b))
	assert.True(t, a.Equal(b))

	c, err := Raw("RETURN @a", map[string]any{"a": 2})
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.WithBatchSize(2)))
}
