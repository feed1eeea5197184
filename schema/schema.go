package schema

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"
)

// Sentinel errors.
var (
	// ErrInvalidSchema indicates a record that cannot drive code generation.
	ErrInvalidSchema = errors.New("schema: invalid schema")
)

// Error represents a schema definition error.
type Error struct {
	Schema  string // Record type name
	Field   string // Go field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("schema: invalid schema")
	if e.Schema != "" {
		b.WriteString(" ")
		b.WriteString(e.Schema)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidSchema
}

// IsSchemaError reports whether the error is a schema Error.
func IsSchemaError(err error) bool {
	var sErr *Error
	return errors.As(err, &sErr)
}

// Schema is the ordered field set of one record kind.
type Schema struct {
	// Name is the record type name, e.g. "Person".
	Name string `json:"name" yaml:"name"`
	// PkgPath is the import path of the package declaring the record.
	PkgPath string `json:"pkg_path,omitempty" yaml:"package,omitempty"`
	// Fields in declaration order.
	Fields []*Field `json:"fields" yaml:"fields"`
}

// Field is one addressable field of a record.
type Field struct {
	// Name is the document attribute name, taken from the json tag.
	Name string `json:"name" yaml:"name"`
	// GoName is the struct field name.
	GoName string `json:"go_name" yaml:"go_name,omitempty"`
	// Type is the declared Go type.
	Type *TypeInfo `json:"type" yaml:"-"`

	rtype reflect.Type
}

// New validates and returns a schema.
func New(name, pkgPath string, fields ...*Field) (*Schema, error) {
	s := &Schema{Name: name, PkgPath: pkgPath, Fields: fields}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the schema can drive code generation: it has a
// name, at least one field, and unique, non-empty field names.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return &Error{Message: "missing name"}
	}
	if !token.IsIdentifier(s.Name) {
		return &Error{Schema: s.Name, Message: "name is not a Go identifier"}
	}
	if len(s.Fields) == 0 {
		return &Error{Schema: s.Name, Message: "record has no addressable fields"}
	}
	seen := make(map[string]string, len(s.Fields))
	for i, f := range s.Fields {
		if f == nil {
			return &Error{Schema: s.Name, Message: fmt.Sprintf("field %d is nil", i)}
		}
		if f.GoName == "" {
			f.GoName = f.Name
		}
		if f.Name == "" {
			return &Error{Schema: s.Name, Field: f.GoName, Message: "field has no name"}
		}
		if f.Type == nil || f.Type.Kind == KindInvalid {
			return &Error{Schema: s.Name, Field: f.GoName, Message: "missing type"}
		}
		if prev, ok := seen[f.Name]; ok {
			return &Error{Schema: s.Name, Field: f.GoName, Message: fmt.Sprintf("attribute %q already used by field %s", f.Name, prev)}
		}
		seen[f.Name] = f.GoName
	}
	return nil
}

// SchemaName returns the record type name.
func (s *Schema) SchemaName() string {
	return s.Name
}

// Field returns the field with the given attribute name.
func (s *Schema) Field(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Lookup returns the reflect type of the named field. The type is nil for
// schemas that were not built from a Go value.
func (s *Schema) Lookup(name string) (reflect.Type, bool) {
	f, ok := s.Field(name)
	if !ok {
		return nil, false
	}
	return f.rtype, true
}

// FieldNames returns the attribute names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// ReflectType returns the reflect type the field was built from, if any.
func (f *Field) ReflectType() reflect.Type {
	return f.rtype
}

// TagName parses a json struct tag value. It returns the attribute name, or
// def when the tag names none, and whether the field is skipped.
func TagName(tag, def string) (name string, skip bool) {
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		name = def
	}
	return name, false
}
