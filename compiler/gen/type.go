package gen

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"strings"

	"github.com/syssam/arangoq/aql"
	"github.com/syssam/arangoq/schema"
)

// The following types and their exported methods are used by the codegen
// to generate the typed builder packages.
type (
	// Type represents one record type and the builder package generated
	// for it.
	Type struct {
		*Config
		schema *schema.Schema
		// Name holds the record type name.
		Name string
		// Fields holds the addressable fields in declaration order.
		Fields []*Field
		fields map[string]*Field
		// methods holds the method set of every state, by phase.
		methods map[aql.Phase][]*Method
	}

	// Method is one method of a generated state type.
	Method struct {
		// Name is the Go method name.
		Name string
		// Step is the builder operation the method performs.
		Step aql.Step
		// Field is set for condition and field-set methods.
		Field *Field
		// Op is the comparison operator of a condition method.
		Op aql.Operator
		// Next is the state the method returns. For Build it is the phase
		// the method is declared on.
		Next aql.Phase
	}
)

// NewType creates a new type and its fields from the given schema.
func NewType(c *Config, s *schema.Schema) (*Type, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := ValidSchemaName(s.Name); err != nil {
		return nil, &schema.Error{Schema: s.Name, Cause: err}
	}
	typ := &Type{
		Config: c,
		schema: s,
		Name:   s.Name,
		Fields: make([]*Field, 0, len(s.Fields)),
		fields: make(map[string]*Field, len(s.Fields)),
	}
	consts := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		tf := &Field{
			typ:    typ,
			def:    f,
			Name:   f.Name,
			GoName: f.GoName,
			Type:   f.Type,
		}
		sf := tf.StructField()
		if !exported(sf) {
			return nil, &schema.Error{Schema: s.Name, Field: f.GoName, Message: fmt.Sprintf("attribute %q has no Go name, set go_name", f.Name)}
		}
		if prev, ok := consts[sf]; ok {
			return nil, &schema.Error{Schema: s.Name, Field: f.GoName, Message: fmt.Sprintf("Go name %s already used by attribute %q", sf, prev)}
		}
		consts[sf] = f.Name
		typ.Fields = append(typ.Fields, tf)
		typ.fields[f.Name] = tf
	}
	if err := typ.buildMethods(); err != nil {
		return nil, err
	}
	return typ, nil
}

// =============================================================================
// Type methods
// =============================================================================

// Schema returns the schema the type was built from.
func (t Type) Schema() *schema.Schema { return t.schema }

// Package returns the package name of the generated builder.
func (t Type) Package() string { return t.PackageDir() }

// PackageDir returns the name of the package directory.
func (t Type) PackageDir() string { return strings.ToLower(t.Name) }

// PkgPath returns the import path of the generated builder.
func (t Type) PkgPath() string {
	if t.Config == nil || t.Config.Package == "" {
		return t.PackageDir()
	}
	return path.Join(t.Config.Package, t.PackageDir())
}

// File returns the generated file path relative to the target directory.
func (t Type) File() string {
	return filepath.Join(t.PackageDir(), t.PackageDir()+".go")
}

// RecordPkgPath returns the import path of the record type, or "" when the
// record has no Go declaration.
func (t Type) RecordPkgPath() string { return t.schema.PkgPath }

// Collection returns the default collection name, the plural of the
// snake-cased type name.
//
//	Person   => people
//	LineItem => line_items
func (t Type) Collection() string {
	return rules.Pluralize(snake(t.Name))
}

// Receiver returns the receiver name of the state methods.
func (t Type) Receiver() string { return "q" }

// StateName returns the Go type name of a state. EmptyBuilder is spelled
// Builder so that New returns person.Builder.
func (t Type) StateName(p aql.Phase) string {
	if p == aql.PhaseEmpty {
		return "Builder"
	}
	return p.String()
}

// Field returns the field with the given attribute name.
func (t Type) Field(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// Methods returns the method set of the state in declaration order.
func (t Type) Methods(p aql.Phase) []*Method {
	return t.methods[p]
}

// MethodNames returns the method names of the state.
func (t Type) MethodNames(p aql.Phase) []string {
	ms := t.methods[p]
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

// buildMethods derives the method set of every state from the lattice:
// one method per operation the state allows, one condition method per
// field and operator on condition states and one set method per field on
// update states.
func (t *Type) buildMethods() error {
	reserved := stepMethods()
	t.methods = make(map[aql.Phase][]*Method, len(aql.Phases()))
	for _, p := range aql.Phases() {
		var ms []*Method
		for _, s := range aql.Steps() {
			if !s.Allowed(p) {
				continue
			}
			next := s.Next(p)
			if s.Terminal() {
				next = p
			}
			switch s {
			case aql.StepCondition:
				for _, f := range t.Fields {
					for _, op := range aql.Operators() {
						ms = append(ms, &Method{Name: f.ConditionName(op), Step: s, Field: f, Op: op, Next: next})
					}
				}
			case aql.StepSet:
				for _, f := range t.Fields {
					ms = append(ms, &Method{Name: f.SetterName(reserved), Step: s, Field: f, Next: next})
				}
			default:
				ms = append(ms, &Method{Name: s.String(), Step: s, Next: next})
			}
		}
		seen := make(map[string]*Method, len(ms))
		for _, m := range ms {
			if prev, ok := seen[m.Name]; ok {
				return &schema.Error{
					Schema:  t.Name,
					Field:   m.fieldName(),
					Message: fmt.Sprintf("method %s.%s is generated twice (for %s and %s)", t.StateName(p), m.Name, prev.describe(), m.describe()),
				}
			}
			seen[m.Name] = m
		}
		t.methods[p] = ms
	}
	return nil
}

// stepMethods returns the names of the methods generated for operations
// that are not per field.
func stepMethods() map[string]struct{} {
	var ids []string
	for _, s := range aql.Steps() {
		if s != aql.StepCondition && s != aql.StepSet {
			ids = append(ids, s.String())
		}
	}
	return names(ids...)
}

func (m *Method) fieldName() string {
	if m.Field == nil {
		return ""
	}
	return m.Field.GoName
}

func (m *Method) describe() string {
	switch {
	case m.Field == nil:
		return m.Step.String()
	case m.Step == aql.StepCondition:
		return fmt.Sprintf("%q %s", m.Field.Name, m.Op.Symbol())
	default:
		return fmt.Sprintf("setting %q", m.Field.Name)
	}
}

// ValidSchemaName will determine if a name is going to conflict with any
// pre-defined names or contains unsafe characters.
func ValidSchemaName(name string) error {
	if name == "" {
		return errors.New("schema name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("schema name %q contains path characters", name)
	}
	if !token.IsIdentifier(name) {
		return fmt.Errorf("schema name %q is not a valid Go identifier", name)
	}
	// Builder packages are lower-cased (see Type.Package).
	pkg := strings.ToLower(name)
	if token.Lookup(pkg).IsKeyword() {
		return fmt.Errorf("schema lowercase name conflicts with Go keyword %q", pkg)
	}
	if types.Universe.Lookup(pkg) != nil {
		return fmt.Errorf("schema lowercase name conflicts with Go predeclared identifier %q", pkg)
	}
	if pkg == "aql" {
		return fmt.Errorf("schema lowercase name conflicts with the aql package")
	}
	return nil
}
