package aql

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Parameter names.
const (
	CollectionParam = "@collection"
	LimitParam      = "limit"
	ElemParam       = "elem"
	SortParam       = "sort_by"

	filterPrefix = "filterVar"
	withPrefix   = "withVar"
	sortPrefix   = "sortVar"
)

// DefaultLimit is the result cap bound by Read.
const DefaultLimit = 100

// Fields describes the field set a Builder checks names and values against.
// A nil reflect.Type from Lookup disables the value check for that field.
type Fields interface {
	SchemaName() string
	Lookup(field string) (reflect.Type, bool)
}

// Builder is the untyped state-transition engine. Every method returns a new
// Builder and leaves the receiver untouched, so an intermediate value may be
// kept and extended independently.
//
// Calls are checked against the capability lattice at run time. The first
// illegal call, or the first value that cannot be bound, is recorded and
// turns every later call into a no-op. Build returns the recorded error.
type Builder struct {
	phase    Phase
	kind     Kind
	clauses  []string
	bindVars map[string]json.RawMessage
	fields   Fields
	withAt   int
	err      error
}

// New returns an EmptyBuilder targeting collection.
func New(collection string) Builder {
	name, _ := json.Marshal(collection)
	return Builder{bindVars: map[string]json.RawMessage{CollectionParam: name}}
}

// NewFor is New with field names and values checked against fields.
func NewFor(collection string, fields Fields) Builder {
	b := New(collection)
	b.fields = fields
	return b
}

// Phase returns the current state.
func (b Builder) Phase() Phase { return b.phase }

// Kind returns the operation kind, or KindUnset before the first transition.
func (b Builder) Kind() Kind { return b.kind }

// Err returns the recorded error, if any.
func (b Builder) Err() error { return b.err }

// Clauses returns a copy of the fragments appended so far.
func (b Builder) Clauses() []string { return slices.Clone(b.clauses) }

// BindVars returns a copy of the parameters bound so far.
func (b Builder) BindVars() map[string]json.RawMessage { return maps.Clone(b.bindVars) }

// Create starts an insert of elem.
func (b Builder) Create(elem any) Builder {
	b, ok := b.next(StepCreate)
	if !ok {
		return b
	}
	b.kind = KindCreate
	b.push("INSERT @" + ElemParam)
	b.bind(StepCreate, ElemParam, elem)
	return b
}

// Read starts a read capped at DefaultLimit results.
func (b Builder) Read() Builder {
	b, ok := b.next(StepRead)
	if !ok {
		return b
	}
	b.kind = KindRead
	b.push("FOR item IN @@collection")
	b.bind(StepRead, LimitParam, DefaultLimit)
	return b
}

// Update starts an update of matching documents.
func (b Builder) Update() Builder {
	b, ok := b.next(StepUpdate)
	if !ok {
		return b
	}
	b.kind = KindUpdate
	b.push("FOR item IN @@collection")
	return b
}

// Delete starts a removal of matching documents.
func (b Builder) Delete() Builder {
	b, ok := b.next(StepDelete)
	if !ok {
		return b
	}
	b.kind = KindDelete
	b.push("FOR item IN @@collection")
	return b
}

// Filter opens a filter clause.
func (b Builder) Filter() Builder {
	b, ok := b.next(StepFilter)
	if !ok {
		return b
	}
	b.push("FILTER")
	return b
}

// Condition compares field against v. For OpIn and OpNotIn, v must be a
// slice or array.
func (b Builder) Condition(field string, op Operator, v any) Builder {
	b, ok := b.next(StepCondition)
	if !ok || !b.check(StepCondition, field, v, op.Sequence()) {
		return b
	}
	name := b.param(filterPrefix)
	if op.Sequence() {
		if !b.bindSequence(name, v) {
			return b
		}
	} else if !b.bind(StepCondition, name, v) {
		return b
	}
	b.push("item." + attribute(field) + " " + op.Symbol() + " @" + name)
	return b
}

// And joins the previous condition with the next one.
func (b Builder) And() Builder {
	b, ok := b.next(StepAnd)
	if ok {
		b.push("AND")
	}
	return b
}

// Or joins the previous condition with the next one.
func (b Builder) Or() Builder {
	b, ok := b.next(StepOr)
	if ok {
		b.push("OR")
	}
	return b
}

// Limit caps the number of results. Repeated calls overwrite the cap.
func (b Builder) Limit(n int) Builder {
	b, ok := b.next(StepLimit)
	if !ok {
		return b
	}
	if n < 0 {
		b.err = &BindError{Op: StepLimit.String(), Param: LimitParam, Message: "limit must not be negative: " + strconv.Itoa(n)}
		return b
	}
	b.bind(StepLimit, LimitParam, n)
	return b
}

// Sort orders results by field. The field name is bound as a parameter.
func (b Builder) Sort(field string, dir SortDirection) Builder {
	b, ok := b.next(StepSort)
	if !ok || !b.check(StepSort, field, nil, false) {
		return b
	}
	name := SortParam
	if _, taken := b.bindVars[name]; taken {
		name = b.param(sortPrefix)
	}
	if !b.bind(StepSort, name, field) {
		return b
	}
	fragment := "SORT item.@" + name
	if dir == Desc {
		fragment += " DESC"
	}
	b.push(fragment)
	return b
}

// Set updates a single field of every matching document to v.
func (b Builder) Set(field string, v any) Builder {
	b, ok := b.next(StepSet)
	if !ok || !b.check(StepSet, field, v, false) {
		return b
	}
	name := b.param(withPrefix)
	if !b.bind(StepSet, name, v) {
		return b
	}
	b.withAt = len(b.clauses)
	b.push("UPDATE item WITH { " + objectKey(field) + ": @" + name + " }")
	return b
}

// ReplaceWith merges elem into every matching document.
func (b Builder) ReplaceWith(elem any) Builder {
	b, ok := b.next(StepReplaceWith)
	if !ok {
		return b
	}
	name := b.param(withPrefix)
	if !b.bind(StepReplaceWith, name, elem) {
		return b
	}
	b.withAt = len(b.clauses)
	b.push("UPDATE item WITH @" + name)
	return b
}

// Build finishes the statement. It appends the closing fragment for the
// operation kind and joins all fragments, each followed by one space.
//
// An explicit limit on an update or delete is emitted as a LIMIT fragment
// ahead of the modification, since their closing fragments do not
// reference @limit.
func (b Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	if !StepBuild.Allowed(b.phase) {
		return Query{}, &TransitionError{Step: StepBuild, Phase: b.phase}
	}
	clauses := slices.Clone(b.clauses)
	if _, limited := b.bindVars[LimitParam]; limited {
		switch {
		case b.kind == KindUpdate && b.withAt > 0:
			clauses = slices.Insert(clauses, b.withAt, "LIMIT @"+LimitParam)
		case b.kind == KindUpdate || b.kind == KindDelete:
			clauses = append(clauses, "LIMIT @"+LimitParam)
		}
	}
	clauses = append(clauses, b.kind.terminal())

	var sb strings.Builder
	for _, c := range clauses {
		sb.WriteString(c)
		sb.WriteByte(' ')
	}
	return Query{text: sb.String(), bindVars: maps.Clone(b.bindVars)}, nil
}

// next validates s against the current state and returns a private copy of
// b in the following state.
func (b Builder) next(s Step) (Builder, bool) {
	if b.err != nil {
		return b, false
	}
	if !s.Allowed(b.phase) {
		b.err = &TransitionError{Step: s, Phase: b.phase}
		return b, false
	}
	b.clauses = slices.Clone(b.clauses)
	b.bindVars = maps.Clone(b.bindVars)
	b.phase = s.Next(b.phase)
	return b, true
}

func (b *Builder) push(fragment string) {
	if fragment != "" {
		b.clauses = append(b.clauses, fragment)
	}
}

// param allocates prefix<n>, n being the number of bound parameters.
func (b *Builder) param(prefix string) string {
	for n := len(b.bindVars); ; n++ {
		name := prefix + strconv.Itoa(n)
		if _, taken := b.bindVars[name]; !taken {
			return name
		}
	}
}

func (b *Builder) bind(s Step, name string, v any) bool {
	raw, err := marshalValue(v)
	if err != nil {
		b.err = &BindError{Op: s.String(), Param: name, Cause: err}
		return false
	}
	b.bindVars[name] = raw
	return true
}

func (b *Builder) bindSequence(name string, v any) bool {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		b.err = &BindError{Op: StepCondition.String(), Param: name, Message: "IN operand must be a slice or array, got nil"}
		return false
	case rv.Kind() == reflect.Slice && rv.IsNil():
		b.bindVars[name] = json.RawMessage("[]")
		return true
	case rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array:
		b.err = &BindError{Op: StepCondition.String(), Param: name, Message: fmt.Sprintf("IN operand must be a slice or array, got %T", v)}
		return false
	}
	return b.bind(StepCondition, name, v)
}

// check validates field, and v when non-nil, against the bound field set.
func (b *Builder) check(s Step, field string, v any, sequence bool) bool {
	if b.fields == nil {
		return true
	}
	typ, ok := b.fields.Lookup(field)
	if !ok {
		b.err = &FieldError{Schema: b.fields.SchemaName(), Field: field, Step: s}
		return false
	}
	if typ == nil || v == nil {
		return true
	}
	vt := reflect.TypeOf(v)
	if sequence {
		if vt.Kind() != reflect.Slice && vt.Kind() != reflect.Array {
			return true
		}
		vt = vt.Elem()
	}
	if !vt.AssignableTo(typ) {
		b.err = &BindError{
			Op:      s.String(),
			Message: fmt.Sprintf("%s value is not assignable to field %q of type %s", vt, field, typ),
		}
		return false
	}
	return true
}

// attribute renders field for member access, quoting names that are not
// plain identifiers.
func attribute(field string) string {
	if isIdent(field) {
		return field
	}
	return "`" + strings.ReplaceAll(field, "`", "\\`") + "`"
}

func objectKey(field string) string {
	if isIdent(field) {
		return field
	}
	return strconv.Quote(field)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
