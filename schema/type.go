package schema

import (
	"fmt"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// Kind classifies a TypeInfo.
type Kind uint8

// Type kinds.
const (
	KindInvalid Kind = iota
	KindBasic
	KindNamed
	KindSlice
	KindArray
	KindPointer
	KindMap
	KindAny
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBasic:   "basic",
	KindNamed:   "named",
	KindSlice:   "slice",
	KindArray:   "array",
	KindPointer: "pointer",
	KindMap:     "map",
	KindAny:     "any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// TypeInfo describes the Go type of a field well enough to spell it in
// generated code.
type TypeInfo struct {
	Kind Kind `json:"kind"`
	// Ident is the predeclared name of a basic type or the name of a named type.
	Ident string `json:"ident,omitempty"`
	// PkgPath is the import path of a named type. Empty for predeclared types.
	PkgPath string `json:"pkg_path,omitempty"`
	// Len is the length of an array type.
	Len int `json:"len,omitempty"`
	// Elem is the element type of slices, arrays, pointers and maps.
	Elem *TypeInfo `json:"elem,omitempty"`
	// Key is the key type of maps.
	Key *TypeInfo `json:"key,omitempty"`
}

// PkgName returns the last element of the import path.
func (t *TypeInfo) PkgName() string {
	if t.PkgPath == "" {
		return ""
	}
	return path.Base(t.PkgPath)
}

// String returns the Go spelling of the type, qualifying named types with
// their package name.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindBasic:
		return t.Ident
	case KindNamed:
		if t.PkgPath == "" {
			return t.Ident
		}
		return t.PkgName() + "." + t.Ident
	case KindSlice:
		return "[]" + t.Elem.String()
	case KindArray:
		return "[" + strconv.Itoa(t.Len) + "]" + t.Elem.String()
	case KindPointer:
		return "*" + t.Elem.String()
	case KindMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Comparable reports whether values of the type support == in Go.
func (t *TypeInfo) Comparable() bool {
	switch t.Kind {
	case KindSlice, KindMap, KindInvalid:
		return false
	case KindArray:
		return t.Elem.Comparable()
	default:
		return true
	}
}

var basicTypes = map[string]bool{
	"bool": true, "string": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

// knownPackages resolves the package names accepted by ParseType.
var knownPackages = map[string]string{
	"time": "time",
	"uuid": "github.com/google/uuid",
	"json": "encoding/json",
	"big":  "math/big",
	"net":  "net",
	"url":  "net/url",
}

// ParseType parses a Go type expression such as "string", "[]time.Time",
// "map[string]*uuid.UUID" or "github.com/acme/money.Amount".
func ParseType(expr string) (*TypeInfo, error) {
	t, rest, err := parseType(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("schema: parse type %q: %w", expr, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("schema: parse type %q: unexpected %q", expr, rest)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(expr string) *TypeInfo {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}

func parseType(s string) (*TypeInfo, string, error) {
	switch {
	case s == "":
		return nil, "", fmt.Errorf("empty type")
	case strings.HasPrefix(s, "[]"):
		elem, rest, err := parseType(s[2:])
		if err != nil {
			return nil, "", err
		}
		return &TypeInfo{Kind: KindSlice, Elem: elem}, rest, nil
	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, "", fmt.Errorf("unterminated array length")
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid array length %q", s[1:end])
		}
		elem, rest, err := parseType(s[end+1:])
		if err != nil {
			return nil, "", err
		}
		return &TypeInfo{Kind: KindArray, Len: n, Elem: elem}, rest, nil
	case strings.HasPrefix(s, "*"):
		elem, rest, err := parseType(s[1:])
		if err != nil {
			return nil, "", err
		}
		return &TypeInfo{Kind: KindPointer, Elem: elem}, rest, nil
	case strings.HasPrefix(s, "map["):
		key, rest, err := parseType(s[4:])
		if err != nil {
			return nil, "", err
		}
		if !strings.HasPrefix(rest, "]") {
			return nil, "", fmt.Errorf("expected ] after map key")
		}
		elem, rest, err := parseType(rest[1:])
		if err != nil {
			return nil, "", err
		}
		return &TypeInfo{Kind: KindMap, Key: key, Elem: elem}, rest, nil
	case strings.HasPrefix(s, "interface{}"):
		return &TypeInfo{Kind: KindAny}, s[len("interface{}"):], nil
	}

	end := strings.IndexAny(s, "]")
	if end < 0 {
		end = len(s)
	}
	name, rest := s[:end], s[end:]
	if name == "any" {
		return &TypeInfo{Kind: KindAny}, rest, nil
	}
	if basicTypes[name] {
		return &TypeInfo{Kind: KindBasic, Ident: name}, rest, nil
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return nil, "", fmt.Errorf("unknown type %q", name)
	}
	pkg, ident := name[:dot], name[dot+1:]
	if p, ok := knownPackages[pkg]; ok {
		pkg = p
	} else if !strings.Contains(pkg, "/") {
		return nil, "", fmt.Errorf("unknown package %q, use the full import path", pkg)
	}
	return &TypeInfo{Kind: KindNamed, Ident: ident, PkgPath: pkg}, rest, nil
}

// TypeOf describes a reflect.Type.
func TypeOf(rt reflect.Type) (*TypeInfo, error) {
	if rt == nil {
		return &TypeInfo{Kind: KindAny}, nil
	}
	if rt.Name() != "" {
		if strings.ContainsRune(rt.Name(), '[') {
			return nil, fmt.Errorf("generic type %s is not supported", rt)
		}
		if rt.PkgPath() == "" {
			return &TypeInfo{Kind: KindBasic, Ident: rt.Name()}, nil
		}
		return &TypeInfo{Kind: KindNamed, Ident: rt.Name(), PkgPath: rt.PkgPath()}, nil
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer:
		elem, err := TypeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		t := &TypeInfo{Elem: elem}
		switch rt.Kind() {
		case reflect.Slice:
			t.Kind = KindSlice
		case reflect.Array:
			t.Kind, t.Len = KindArray, rt.Len()
		default:
			t.Kind = KindPointer
		}
		return t, nil
	case reflect.Map:
		key, err := TypeOf(rt.Key())
		if err != nil {
			return nil, err
		}
		elem, err := TypeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		return &TypeInfo{Kind: KindMap, Key: key, Elem: elem}, nil
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return &TypeInfo{Kind: KindAny}, nil
		}
	}
	return nil, fmt.Errorf("unsupported type %s", rt)
}
