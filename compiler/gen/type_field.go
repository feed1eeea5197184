package gen

import (
	"github.com/syssam/arangoq/aql"
	"github.com/syssam/arangoq/schema"
)

// Field holds the information of a record field used by the generator.
type Field struct {
	typ *Type
	def *schema.Field
	// Name is the document attribute name.
	Name string
	// GoName is the struct field name.
	GoName string
	// Type holds the Go type of the field values.
	Type *schema.TypeInfo
}

// StructField returns the Go spelling of the field used in generated
// identifiers: the struct field name, or the PascalCase attribute name for
// records described without Go source.
func (f Field) StructField() string {
	if exported(f.GoName) {
		return f.GoName
	}
	return pascal(f.Name)
}

// Constant returns the name of the Field constant.
func (f Field) Constant() string { return "Field" + f.StructField() }

// ConditionName returns the condition method name, e.g. NameEq.
func (f Field) ConditionName(op aql.Operator) string {
	return f.StructField() + op.Name()
}

// SetterName returns the field-set method name. A name taken by one of the
// operation methods gets a "Field" suffix.
//
//	name  => Name
//	limit => LimitField
func (f Field) SetterName(reserved map[string]struct{}) string {
	n := f.StructField()
	if _, ok := reserved[n]; ok {
		return n + "Field"
	}
	return n
}

