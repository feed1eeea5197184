// Package load reads record schemas from Go source.
//
// Unlike schema.For, loading does not require the record package to be
// linked into the running binary: the package is parsed and type-checked
// with golang.org/x/tools/go/packages and the exported struct types found
// in it are turned into schemas.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/arangoq/schema"
)

// Config holds the configuration for loading record schemas.
type Config struct {
	// Path is the package import path or directory to load.
	Path string
	// Names are the record type names to load. All exported struct types
	// of the package are loaded when empty.
	Names []string
	// Dir is the working directory of the load. Defaults to the current one.
	Dir string
	// BuildFlags are passed to the build system, e.g. "-tags=dev".
	BuildFlags []string
}

// Spec is the result of a load.
type Spec struct {
	// PkgPath is the import path of the loaded package.
	PkgPath string
	// Schemas in the order requested, or sorted by name when every type was
	// loaded.
	Schemas []*schema.Schema
}

// Load type-checks the configured package and extracts its schemas.
func (c *Config) Load(ctx context.Context) (*Spec, error) {
	if c.Path == "" {
		return nil, errors.New("load: missing package path")
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
		Mode:       packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedImports,
	}, c.Path)
	if err != nil {
		return nil, fmt.Errorf("load: loading package %q: %w", c.Path, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load: %q matched %d packages, expected one", c.Path, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		msgs := make([]string, len(pkg.Errors))
		for i, e := range pkg.Errors {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("load: package %s has errors:\n\t%s", pkg.PkgPath, strings.Join(msgs, "\n\t"))
	}

	spec := &Spec{PkgPath: pkg.PkgPath}
	scope := pkg.Types.Scope()
	names := c.Names
	if len(names) == 0 {
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}
			if _, ok := obj.Type().Underlying().(*types.Struct); ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
	}
	for _, name := range names {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			return nil, &schema.Error{Schema: name, Message: fmt.Sprintf("no type %s in package %s", name, pkg.PkgPath)}
		}
		s, err := NewSchema(obj)
		if err != nil {
			return nil, err
		}
		spec.Schemas = append(spec.Schemas, s)
	}
	return spec, nil
}

// NewSchema builds the schema of a named struct type.
func NewSchema(obj *types.TypeName) (*schema.Schema, error) {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, &schema.Error{Schema: obj.Name(), Message: "not a defined type"}
	}
	if named.TypeParams().Len() > 0 {
		return nil, &schema.Error{Schema: obj.Name(), Message: "generic types are not supported"}
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, &schema.Error{Schema: obj.Name(), Message: "not a struct type"}
	}
	s := &schema.Schema{Name: obj.Name()}
	if obj.Pkg() != nil {
		s.PkgPath = obj.Pkg().Path()
	}
	for i := range st.NumFields() {
		v := st.Field(i)
		if !v.Exported() {
			continue
		}
		def := v.Name()
		if v.Embedded() {
			def = ""
		}
		name, skip := schema.TagName(reflect.StructTag(st.Tag(i)).Get("json"), def)
		if skip {
			continue
		}
		if name == "" {
			return nil, &schema.Error{Schema: s.Name, Field: v.Name(), Message: "embedded field has no attribute name, add a json tag"}
		}
		info, err := TypeInfo(v.Type())
		if err != nil {
			return nil, &schema.Error{Schema: s.Name, Field: v.Name(), Cause: err}
		}
		s.Fields = append(s.Fields, &schema.Field{Name: name, GoName: v.Name(), Type: info})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// TypeInfo describes a type-checked Go type.
func TypeInfo(t types.Type) (*schema.TypeInfo, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if t.Info()&types.IsUntyped != 0 || t.Kind() == types.UnsafePointer {
			return nil, fmt.Errorf("unsupported type %s", t)
		}
		return &schema.TypeInfo{Kind: schema.KindBasic, Ident: t.Name()}, nil
	case *types.Named:
		if t.TypeArgs().Len() > 0 {
			return nil, fmt.Errorf("generic type %s is not supported", t)
		}
		obj := t.Obj()
		if obj.Pkg() == nil {
			return &schema.TypeInfo{Kind: schema.KindBasic, Ident: obj.Name()}, nil
		}
		return &schema.TypeInfo{Kind: schema.KindNamed, Ident: obj.Name(), PkgPath: obj.Pkg().Path()}, nil
	case *types.Slice:
		elem, err := TypeInfo(t.Elem())
		if err != nil {
			return nil, err
		}
		return &schema.TypeInfo{Kind: schema.KindSlice, Elem: elem}, nil
	case *types.Array:
		elem, err := TypeInfo(t.Elem())
		if err != nil {
			return nil, err
		}
		return &schema.TypeInfo{Kind: schema.KindArray, Len: int(t.Len()), Elem: elem}, nil
	case *types.Pointer:
		elem, err := TypeInfo(t.Elem())
		if err != nil {
			return nil, err
		}
		return &schema.TypeInfo{Kind: schema.KindPointer, Elem: elem}, nil
	case *types.Map:
		key, err := TypeInfo(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := TypeInfo(t.Elem())
		if err != nil {
			return nil, err
		}
		return &schema.TypeInfo{Kind: schema.KindMap, Key: key, Elem: elem}, nil
	case *types.Interface:
		if t.Empty() {
			return &schema.TypeInfo{Kind: schema.KindAny}, nil
		}
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}
