package schema_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/arangoq/schema"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		expr    string
		want    string
		kind    schema.Kind
		pkgPath string
	}{
		{"string", "string", schema.KindBasic, ""},
		{" int64 ", "int64", schema.KindBasic, ""},
		{"[]string", "[]string", schema.KindSlice, ""},
		{"[4]byte", "[4]byte", schema.KindArray, ""},
		{"*int", "*int", schema.KindPointer, ""},
		{"time.Time", "time.Time", schema.KindNamed, "time"},
		{"uuid.UUID", "uuid.UUID", schema.KindNamed, "github.com/google/uuid"},
		{"map[string]*uuid.UUID", "map[string]*uuid.UUID", schema.KindMap, ""},
		{"map[string][]int", "map[string][]int", schema.KindMap, ""},
		{"github.com/acme/money.Amount", "money.Amount", schema.KindNamed, "github.com/acme/money"},
		{"any", "any", schema.KindAny, ""},
		{"interface{}", "any", schema.KindAny, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			info, err := schema.ParseType(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.String())
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.pkgPath, info.PkgPath)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, expr := range []string{"", "[]", "[x]int", "map[string", "foo.Bar", "Thing", "int]", ".T", "time."} {
		t.Run(expr, func(t *testing.T) {
			_, err := schema.ParseType(expr)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { schema.MustParseType("nope") })
}

type box[T any] struct{ V T }

func TestTypeOf(t *testing.T) {
	tests := []struct {
		rt   reflect.Type
		want string
	}{
		{reflect.TypeFor[string](), "string"},
		{reflect.TypeFor[[]time.Time](), "[]time.Time"},
		{reflect.TypeFor[*uuid.UUID](), "*uuid.UUID"},
		{reflect.TypeFor[map[string]int](), "map[string]int"},
		{reflect.TypeFor[[2]float64](), "[2]float64"},
		{reflect.TypeFor[any](), "any"},
		{reflect.TypeFor[error](), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			info, err := schema.TypeOf(tt.rt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.String())
		})
	}

	for _, rt := range []reflect.Type{
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[struct{ A int }](),
		reflect.TypeFor[box[int]](),
		reflect.TypeFor[interface{ M() }](),
	} {
		_, err := schema.TypeOf(rt)
		assert.Error(t, err, rt.String())
	}
}

func TestTypeInfoComparable(t *testing.T) {
	assert.True(t, schema.MustParseType("string").Comparable())
	assert.True(t, schema.MustParseType("[2]int").Comparable())
	assert.False(t, schema.MustParseType("[]int").Comparable())
	assert.False(t, schema.MustParseType("map[string]int").Comparable())
}
