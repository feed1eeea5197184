package aql

import (
	"strconv"
	"strings"
)

// Phase identifies a builder state.
type Phase uint8

// Builder states.
const (
	PhaseEmpty Phase = iota
	PhaseCreate
	PhaseRead
	PhaseUpdate
	PhaseDelete
	PhaseFiltering
	PhaseConditional
	PhaseLogicalOperator
	PhaseUpdateField
	PhaseSorting
)

var phaseNames = [...]string{
	PhaseEmpty:           "EmptyBuilder",
	PhaseCreate:          "CreateQuery",
	PhaseRead:            "ReadQuery",
	PhaseUpdate:          "UpdateQuery",
	PhaseDelete:          "DeleteQuery",
	PhaseFiltering:       "Filtering",
	PhaseConditional:     "Conditional",
	PhaseLogicalOperator: "LogicalOperator",
	PhaseUpdateField:     "UpdateField",
	PhaseSorting:         "Sorting",
}

// String returns the state name, e.g. "ReadQuery".
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Phase(" + strconv.Itoa(int(p)) + ")"
}

// Phases returns every builder state in declaration order.
func Phases() []Phase {
	ps := make([]Phase, len(phaseNames))
	for i := range ps {
		ps[i] = Phase(i)
	}
	return ps
}

// Capability is a set of labels gating operations. Capabilities combine
// with bitwise or.
type Capability uint8

// Capability labels.
const (
	Buildable Capability = 1 << iota
	Filterable
	Limitable
	Conditionable
	LogicallyOperatable
	UpdateWith
	Sortable
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Buildable, "Buildable"},
	{Filterable, "Filterable"},
	{Limitable, "Limitable"},
	{Conditionable, "Conditionable"},
	{LogicallyOperatable, "LogicallyOperatable"},
	{UpdateWith, "UpdateWith"},
	{Sortable, "Sortable"},
}

// Has reports whether every label in o is present in c.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// String returns the labels joined with "|", or "none".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

var lattice = [...]Capability{
	PhaseEmpty:           0,
	PhaseCreate:          Buildable,
	PhaseRead:            Buildable | Filterable | Limitable | Sortable,
	PhaseUpdate:          Filterable | UpdateWith,
	PhaseDelete:          Buildable | Filterable,
	PhaseFiltering:       Conditionable | Sortable,
	PhaseConditional:     Buildable | Filterable | Limitable | LogicallyOperatable | UpdateWith,
	PhaseLogicalOperator: Conditionable,
	PhaseUpdateField:     Buildable,
	PhaseSorting:         Buildable | Filterable | Limitable,
}

// Capabilities returns the capability set of state p.
func Capabilities(p Phase) Capability {
	if int(p) < len(lattice) {
		return lattice[p]
	}
	return 0
}

// Step is one operation of the transition table.
type Step uint8

// Operations.
const (
	StepCreate Step = iota
	StepRead
	StepUpdate
	StepDelete
	StepFilter
	StepCondition
	StepAnd
	StepOr
	StepLimit
	StepSort
	StepSet
	StepReplaceWith
	StepBuild
)

// A zero requires value with initial set means "only from EmptyBuilder".
// A produces value of PhaseEmpty on a non-initial step means "same state".
var steps = [...]struct {
	name     string
	initial  bool
	requires Capability
	produces Phase
}{
	StepCreate:      {"Create", true, 0, PhaseCreate},
	StepRead:        {"Read", true, 0, PhaseRead},
	StepUpdate:      {"Update", true, 0, PhaseUpdate},
	StepDelete:      {"Delete", true, 0, PhaseDelete},
	StepFilter:      {"Filter", false, Filterable, PhaseFiltering},
	StepCondition:   {"Condition", false, Conditionable, PhaseConditional},
	StepAnd:         {"And", false, LogicallyOperatable, PhaseLogicalOperator},
	StepOr:          {"Or", false, LogicallyOperatable, PhaseLogicalOperator},
	StepLimit:       {"Limit", false, Limitable, PhaseEmpty},
	StepSort:        {"Sort", false, Sortable, PhaseSorting},
	StepSet:         {"Set", false, UpdateWith, PhaseUpdateField},
	StepReplaceWith: {"ReplaceWith", false, UpdateWith, PhaseUpdateField},
	StepBuild:       {"Build", false, Buildable, PhaseEmpty},
}

// Steps returns every operation in declaration order.
func Steps() []Step {
	ss := make([]Step, len(steps))
	for i := range ss {
		ss[i] = Step(i)
	}
	return ss
}

// String returns the operation name, e.g. "Filter".
func (s Step) String() string {
	if int(s) < len(steps) {
		return steps[s].name
	}
	return "Step(" + strconv.Itoa(int(s)) + ")"
}

// Requires returns the capability the operation needs. Initial operations
// require none and are legal from EmptyBuilder only.
func (s Step) Requires() Capability {
	return steps[s].requires
}

// Initial reports whether the operation chooses the operation kind.
func (s Step) Initial() bool {
	return steps[s].initial
}

// Terminal reports whether the operation finishes the builder.
func (s Step) Terminal() bool {
	return s == StepBuild
}

// Allowed reports whether the operation is legal from state p.
func (s Step) Allowed(p Phase) bool {
	if s.Initial() {
		return p == PhaseEmpty
	}
	return p != PhaseEmpty && Capabilities(p).Has(s.Requires())
}

// Next returns the state the operation moves p into. It is only meaningful
// when Allowed(p) holds and the step is not terminal.
func (s Step) Next(p Phase) Phase {
	if s == StepLimit {
		return p
	}
	return steps[s].produces
}

// Kind is the operation kind of a query, fixed by the first transition.
type Kind uint8

// Operation kinds.
const (
	KindUnset Kind = iota
	KindCreate
	KindRead
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindRead:
		return "read"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unset"
	}
}

// terminal returns the closing fragment appended by Build.
func (k Kind) terminal() string {
	switch k {
	case KindCreate:
		return "INTO @@collection RETURN NEW"
	case KindRead:
		return "LIMIT @limit RETURN item"
	case KindUpdate:
		return "IN @@collection RETURN NEW"
	case KindDelete:
		return "REMOVE item IN @@collection RETURN OLD"
	default:
		return ""
	}
}

// Operator is a comparison operator.
type Operator uint8

// Comparison operators.
const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpIn
	OpNotIn
)

var operators = [...]struct {
	name, symbol string
}{
	OpEq:    {"Eq", "=="},
	OpNe:    {"Ne", "!="},
	OpGt:    {"Gt", ">"},
	OpLt:    {"Lt", "<"},
	OpGe:    {"Ge", ">="},
	OpLe:    {"Le", "<="},
	OpIn:    {"In", "IN"},
	OpNotIn: {"NotIn", "NOT IN"},
}

// Operators returns every comparison operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, len(operators))
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// Symbol returns the AQL spelling of the operator.
func (o Operator) Symbol() string {
	return operators[o].symbol
}

// Name returns the method suffix used for the operator, e.g. "NotIn".
func (o Operator) Name() string {
	return operators[o].name
}

func (o Operator) String() string {
	return o.Symbol()
}

// Sequence reports whether the operand is a list of values.
func (o Operator) Sequence() bool {
	return o == OpIn || o == OpNotIn
}

// SortDirection orders a sort fragment.
type SortDirection uint8

// Sort directions. Ascending emits no keyword.
const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
