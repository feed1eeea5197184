package aql

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wire(t *testing.T, b Builder) string {
	t.Helper()
	q, err := b.Build()
	require.NoError(t, err)
	out, err := q.MarshalJSON()
	require.NoError(t, err)
	return string(out)
}

// =============================================================================
// Wire format
// =============================================================================

func TestBuilderWireFormat(t *testing.T) {
	people := func() Builder { return New("People") }

	tests := []struct {
		name    string
		builder Builder
		want    string
	}{
		{
			name:    "read",
			builder: people().Read(),
			want:    `{"query":"FOR item IN @@collection LIMIT @limit RETURN item ","bindVars":{"@collection":"People","limit":100}}`,
		},
		{
			name:    "read with filter",
			builder: people().Read().Filter().Condition("name", OpEq, "John Lennon"),
			want:    `{"query":"FOR item IN @@collection FILTER item.name == @filterVar2 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":"John Lennon","limit":100}}`,
		},
		{
			name: "read with chained filters",
			builder: people().Read().
				Filter().Condition("name", OpEq, "John Lennon").
				Filter().Condition("age", OpGt, 42),
			want: `{"query":"FOR item IN @@collection FILTER item.name == @filterVar2 FILTER item.age > @filterVar3 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":"John Lennon","filterVar3":42,"limit":100}}`,
		},
		{
			name: "read with or and and",
			builder: people().Read().Filter().
				Condition("name", OpEq, "John").
				Or().Condition("name", OpEq, "Paul").
				And().Condition("age", OpGe, 42).
				Limit(10),
			want: `{"query":"FOR item IN @@collection FILTER item.name == @filterVar2 OR item.name == @filterVar3 AND item.age >= @filterVar4 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":"John","filterVar3":"Paul","filterVar4":42,"limit":10}}`,
		},
		{
			name:    "create",
			builder: people().Create(map[string]any{"name": "Douglas Adams", "age": 42}),
			want:    `{"query":"INSERT @elem INTO @@collection RETURN NEW ","bindVars":{"@collection":"People","elem":{"age":42,"name":"Douglas Adams"}}}`,
		},
		{
			name:    "delete",
			builder: people().Delete(),
			want:    `{"query":"FOR item IN @@collection REMOVE item IN @@collection RETURN OLD ","bindVars":{"@collection":"People"}}`,
		},
		{
			name:    "delete with filter",
			builder: people().Delete().Filter().Condition("name", OpEq, "John Lennon"),
			want:    `{"query":"FOR item IN @@collection FILTER item.name == @filterVar1 REMOVE item IN @@collection RETURN OLD ","bindVars":{"@collection":"People","filterVar1":"John Lennon"}}`,
		},
		{
			name:    "update set field",
			builder: people().Update().Set("name", "John Lennon"),
			want:    `{"query":"FOR item IN @@collection UPDATE item WITH { name: @withVar1 } IN @@collection RETURN NEW ","bindVars":{"@collection":"People","withVar1":"John Lennon"}}`,
		},
		{
			name:    "update filter then set field",
			builder: people().Update().Filter().Condition("name", OpEq, "Paul McCartney").Set("age", 66),
			want:    `{"query":"FOR item IN @@collection FILTER item.name == @filterVar1 UPDATE item WITH { age: @withVar2 } IN @@collection RETURN NEW ","bindVars":{"@collection":"People","filterVar1":"Paul McCartney","withVar2":66}}`,
		},
		{
			name: "update filter then replace",
			builder: people().Update().Filter().Condition("name", OpEq, "Paul McCartney").
				ReplaceWith(map[string]any{"name": "Douglas Adams", "age": 42}),
			want: `{"query":"FOR item IN @@collection FILTER item.name == @filterVar1 UPDATE item WITH @withVar2 IN @@collection RETURN NEW ","bindVars":{"@collection":"People","filterVar1":"Paul McCartney","withVar2":{"age":42,"name":"Douglas Adams"}}}`,
		},
		{
			name:    "in",
			builder: people().Read().Filter().Condition("name", OpIn, []string{"John", "Paul"}),
			want:    `{"query":"FOR item IN @@collection FILTER item.name IN @filterVar2 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":["John","Paul"],"limit":100}}`,
		},
		{
			name:    "not in",
			builder: people().Read().Filter().Condition("age", OpNotIn, [2]int{27, 42}),
			want:    `{"query":"FOR item IN @@collection FILTER item.age NOT IN @filterVar2 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":[27,42],"limit":100}}`,
		},
		{
			name:    "read condition then set field",
			builder: people().Read().Filter().Condition("name", OpEq, "x").Set("age", 5),
			want:    `{"query":"FOR item IN @@collection FILTER item.name == @filterVar2 UPDATE item WITH { age: @withVar3 } LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar2":"x","limit":100,"withVar3":5}}`,
		},
		{
			name:    "sort ascending",
			builder: people().Read().Sort("name", Asc),
			want:    `{"query":"FOR item IN @@collection SORT item.@sort_by LIMIT @limit RETURN item ","bindVars":{"@collection":"People","limit":100,"sort_by":"name"}}`,
		},
		{
			name:    "sort descending",
			builder: people().Read().Sort("name", Desc),
			want:    `{"query":"FOR item IN @@collection SORT item.@sort_by DESC LIMIT @limit RETURN item ","bindVars":{"@collection":"People","limit":100,"sort_by":"name"}}`,
		},
		{
			name:    "sort then filter",
			builder: people().Read().Sort("name", Asc).Filter().Condition("name", OpEq, "John"),
			want:    `{"query":"FOR item IN @@collection SORT item.@sort_by FILTER item.name == @filterVar3 LIMIT @limit RETURN item ","bindVars":{"@collection":"People","filterVar3":"John","limit":100,"sort_by":"name"}}`,
		},
		{
			name: "update with limit",
			builder: people().Update().Filter().Condition("name", OpEq, "x").
				Limit(5).Set("age", 1),
			want: `{"query":"FOR item IN @@collection FILTER item.name == @filterVar1 LIMIT @limit UPDATE item WITH { age: @withVar3 } IN @@collection RETURN NEW ","bindVars":{"@collection":"People","filterVar1":"x","limit":5,"withVar3":1}}`,
		},
		{
			name:    "delete with limit",
			builder: people().Delete().Filter().Condition("name", OpEq, "x").Limit(5),
			want:    `{"query":"FOR item IN @@collection FILTER item.name == @filterVar1 LIMIT @limit REMOVE item IN @@collection RETURN OLD ","bindVars":{"@collection":"People","filterVar1":"x","limit":5}}`,
		},
		{
			name:    "quoted attribute",
			builder: people().Read().Filter().Condition("first-name", OpEq, "x"),
			want:    "{\"query\":\"FOR item IN @@collection FILTER item.`first-name` == @filterVar2 LIMIT @limit RETURN item \",\"bindVars\":{\"@collection\":\"People\",\"filterVar2\":\"x\",\"limit\":100}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wire(t, tt.builder))
		})
	}
}

func TestOperatorSymbols(t *testing.T) {
	want := map[Operator]string{
		OpEq:    "==",
		OpNe:    "!=",
		OpGt:    ">",
		OpLt:    "<",
		OpGe:    ">=",
		OpLe:    "<=",
		OpIn:    "IN",
		OpNotIn: "NOT IN",
	}
	require.Len(t, Operators(), len(want))

	for _, op := range Operators() {
		t.Run(op.Name(), func(t *testing.T) {
			v := any(1)
			if op.Sequence() {
				v = []int{1}
			}
			q, err := New("c").Read().Filter().Condition("n", op, v).Build()
			require.NoError(t, err)
			assert.Contains(t, q.Text(), "item.n "+want[op]+" @filterVar2 ")
		})
	}
}

// =============================================================================
// Semantics
// =============================================================================

func TestLimitIsIdempotent(t *testing.T) {
	once, err := New("People").Read().Limit(10).Build()
	require.NoError(t, err)
	twice, err := New("People").Read().Limit(5).Limit(10).Build()
	require.NoError(t, err)

	assert.True(t, once.Equal(twice))

	onceDel, err := New("People").Delete().Filter().Condition("a", OpEq, 1).Limit(10).Build()
	require.NoError(t, err)
	twiceDel, err := New("People").Delete().Filter().Condition("a", OpEq, 1).Limit(5).Limit(10).Build()
	require.NoError(t, err)
	assert.True(t, onceDel.Equal(twiceDel))
}

func TestBuilderParametersAreUnique(t *testing.T) {
	q, err := New("People").Read().
		Sort("age", Desc).
		Filter().Condition("name", OpEq, "a").
		Or().Condition("name", OpIn, []string{"b", "c"}).
		Filter().Sort("name", Asc).
		Limit(3).
		Build()
	require.NoError(t, err)

	vars := q.BindVars()
	for name := range vars {
		if strings.HasPrefix(name, "@") {
			continue
		}
		assert.Equal(t, 1, strings.Count(q.Text(), "@"+name+" "), "parameter %s", name)
	}
	assert.Contains(t, vars, "sort_by")
	assert.Contains(t, vars, "sortVar5")
}

func TestBuilderTransitionsDoNotAlias(t *testing.T) {
	base := New("People").Read().Filter()
	a := base.Condition("name", OpEq, "A")
	b := base.Condition("name", OpEq, "B")

	qa, err := a.Build()
	require.NoError(t, err)
	qb, err := b.Build()
	require.NoError(t, err)

	va, _ := qa.BindVar("filterVar2")
	vb, _ := qb.BindVar("filterVar2")
	assert.JSONEq(t, `"A"`, string(va))
	assert.JSONEq(t, `"B"`, string(vb))
	assert.Equal(t, []string{"FOR item IN @@collection", "FILTER"}, base.Clauses())
	assert.Len(t, base.BindVars(), 2)
}

func TestBuilderQueryOwnsData(t *testing.T) {
	b := New("People").Read()
	q, err := b.Build()
	require.NoError(t, err)

	vars := q.BindVars()
	vars["limit"] = json.RawMessage("1")

	v, ok := q.BindVar("limit")
	require.True(t, ok)
	assert.Equal(t, "100", string(v))
}

func TestBuilderPhaseAndKind(t *testing.T) {
	b := New("People")
	assert.Equal(t, PhaseEmpty, b.Phase())
	assert.Equal(t, KindUnset, b.Kind())

	b = b.Update()
	assert.Equal(t, PhaseUpdate, b.Phase())
	assert.Equal(t, KindUpdate, b.Kind())

	b = b.Filter().Condition("a", OpEq, 1).Limit(2)
	assert.Equal(t, PhaseConditional, b.Phase())
	assert.Equal(t, KindUpdate, b.Kind())
}

// =============================================================================
// Errors
// =============================================================================

func TestBuilderTransitionErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() Builder
		step  Step
		phase Phase
	}{
		{"build before kind", func() Builder { return New("c") }, StepBuild, PhaseEmpty},
		{"filter before kind", func() Builder { return New("c").Filter() }, StepFilter, PhaseEmpty},
		{"second kind", func() Builder { return New("c").Read().Delete() }, StepDelete, PhaseRead},
		{"build after and", func() Builder { return New("c").Read().Filter().Condition("a", OpEq, 1).And() }, StepBuild, PhaseLogicalOperator},
		{"build update without set", func() Builder { return New("c").Update() }, StepBuild, PhaseUpdate},
		{"filter twice", func() Builder { return New("c").Read().Filter().Filter() }, StepFilter, PhaseFiltering},
		{"set on read", func() Builder { return New("c").Read().Set("a", 2) }, StepSet, PhaseRead},
		{"replace on delete", func() Builder { return New("c").Delete().ReplaceWith(1) }, StepReplaceWith, PhaseDelete},
		{"limit on delete", func() Builder { return New("c").Delete().Limit(1) }, StepLimit, PhaseDelete},
		{"sort on create", func() Builder { return New("c").Create(1).Sort("a", Asc) }, StepSort, PhaseCreate},
		{"second set", func() Builder { return New("c").Update().Set("a", 1).Set("b", 2) }, StepSet, PhaseUpdateField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			require.Error(t, err)
			assert.True(t, IsTransitionError(err))
			assert.ErrorIs(t, err, ErrInvalidTransition)

			var tErr *TransitionError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, tt.step, tErr.Step)
			assert.Equal(t, tt.phase, tErr.Phase)
		})
	}
}

func TestBuilderErrorIsSticky(t *testing.T) {
	b := New("c").Read().And()
	require.Error(t, b.Err())

	after := b.Filter().Condition("a", OpEq, 1)
	assert.Equal(t, b.Err(), after.Err())
	assert.Equal(t, PhaseRead, after.Phase())
	assert.Equal(t, []string{"FOR item IN @@collection"}, after.Clauses())
}

func TestBuilderBindErrors(t *testing.T) {
	t.Run("unserializable value", func(t *testing.T) {
		_, err := New("c").Read().Filter().Condition("a", OpEq, make(chan int)).Build()
		require.Error(t, err)
		assert.True(t, IsBindError(err))
		assert.ErrorIs(t, err, ErrBind)
		assert.Contains(t, err.Error(), "filterVar2")
		assert.Contains(t, err.Error(), "Condition")
	})

	t.Run("unserializable element", func(t *testing.T) {
		_, err := New("c").Create(func() {}).Build()
		require.Error(t, err)
		assert.True(t, IsBindError(err))
		assert.Contains(t, err.Error(), "Create")
	})

	t.Run("in requires a sequence", func(t *testing.T) {
		_, err := New("c").Read().Filter().Condition("a", OpIn, 1).Build()
		require.Error(t, err)
		assert.True(t, IsBindError(err))
	})

	t.Run("in with nil slice binds empty list", func(t *testing.T) {
		q, err := New("c").Read().Filter().Condition("a", OpIn, []string(nil)).Build()
		require.NoError(t, err)
		v, _ := q.BindVar("filterVar2")
		assert.Equal(t, "[]", string(v))
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := New("c").Read().Limit(-1).Build()
		require.Error(t, err)
		assert.True(t, IsBindError(err))
	})
}

type stubFields map[string]reflect.Type

func (stubFields) SchemaName() string { return "Person" }

func (f stubFields) Lookup(name string) (reflect.Type, bool) {
	t, ok := f[name]
	return t, ok
}

func TestBuilderWithFields(t *testing.T) {
	fields := stubFields{
		"name": reflect.TypeFor[string](),
		"age":  reflect.TypeFor[int](),
		"tags": nil,
	}

	t.Run("known fields", func(t *testing.T) {
		_, err := NewFor("People", fields).Read().
			Filter().Condition("name", OpIn, []string{"a"}).
			And().Condition("age", OpGe, 3).
			And().Condition("tags", OpEq, []string{"x"}).
			Build()
		require.NoError(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := NewFor("People", fields).Read().Sort("email", Asc).Build()
		require.Error(t, err)
		assert.True(t, IsFieldError(err))
		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Contains(t, err.Error(), `"email"`)
	})

	t.Run("wrong value type", func(t *testing.T) {
		_, err := NewFor("People", fields).Update().Set("age", "old").Build()
		require.Error(t, err)
		assert.True(t, IsBindError(err))
		assert.Contains(t, err.Error(), `"age"`)
	})
}

func TestMustBuild(t *testing.T) {
	assert.NotPanics(t, func() {
		q := MustBuild(New("c").Read())
		assert.NotEmpty(t, q.Text())
	})
	assert.Panics(t, func() {
		MustBuild(New("c").Update())
	})
}
