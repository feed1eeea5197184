package schema

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("json")
}

type cached struct {
	schema *Schema
	err    error
}

var schemas sync.Map // reflect.Type -> cached

// For returns the schema of struct type T. The result is computed once per
// type and shared, so callers must not modify it.
//
// Exported fields become schema fields named by their json tag. Fields
// tagged "-" are skipped. An embedded field without a json name has no
// attribute name of its own and is rejected.
func For[T any]() (*Schema, error) {
	rt := reflect.TypeFor[T]()
	if v, ok := schemas.Load(rt); ok {
		c := v.(cached)
		return c.schema, c.err
	}
	s, err := inspect[T](rt)
	v, _ := schemas.LoadOrStore(rt, cached{s, err})
	c := v.(cached)
	return c.schema, c.err
}

// MustFor is like For but panics on error.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func inspect[T any](rt reflect.Type) (*Schema, error) {
	// sentinel dereferences pointers; records must be struct values.
	if rt.Kind() != reflect.Struct {
		return nil, &Error{Schema: rt.String(), Message: "not a struct type"}
	}
	meta, err := sentinel.TryInspect[T]()
	if err != nil {
		return nil, &Error{Schema: rt.String(), Message: "not a struct type", Cause: err}
	}
	if meta.TypeName == "" {
		return nil, &Error{Schema: rt.String(), Message: "anonymous struct types have no name to generate from"}
	}

	s := &Schema{Name: meta.TypeName, PkgPath: meta.PackageName}
	for _, fm := range meta.Fields {
		def := fm.Name
		// The embedding bit is the one field fact sentinel does not record.
		if rt.FieldByIndex(fm.Index).Anonymous {
			def = ""
		}
		name, skip := TagName(fm.Tags["json"], def)
		if skip {
			continue
		}
		if name == "" {
			return nil, &Error{Schema: s.Name, Field: fm.Name, Message: "embedded field has no attribute name, add a json tag"}
		}
		info, err := TypeOf(fm.ReflectType)
		if err != nil {
			return nil, &Error{Schema: s.Name, Field: fm.Name, Cause: err}
		}
		s.Fields = append(s.Fields, &Field{
			Name:   name,
			GoName: fm.Name,
			Type:   info,
			rtype:  fm.ReflectType,
		})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
