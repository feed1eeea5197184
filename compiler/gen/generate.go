package gen

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/arangoq/aql"
	"github.com/syssam/arangoq/schema"
)

const aqlPkg = "github.com/syssam/arangoq/aql"

// Generator renders one typed builder package per graph node with
// Jennifer and writes them in parallel.
type Generator struct {
	graph   *Graph
	workers int
	outDir  string

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewGenerator creates a generator writing below the graph's target.
func NewGenerator(g *Graph) *Generator {
	gen := &Generator{
		graph:   g,
		workers: runtime.GOMAXPROCS(0),
	}
	if g.Config != nil {
		gen.outDir = g.TargetDir()
	}
	return gen
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithTarget overrides the output directory.
func (g *Generator) WithTarget(dir string) *Generator {
	if dir != "" {
		g.outDir = dir
	}
	return g
}

// Metrics returns a snapshot of the generation metrics.
func (g *Generator) Metrics() WriterMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// Generate writes every builder package. The first failure cancels the
// files not yet started.
func (g *Generator) Generate(ctx context.Context) error {
	if g.outDir == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("", g.outDir, "create output directory", err)
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, t := range g.graph.Nodes {
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeFile(t, g.GenFile(t))
			}
		})
	}
	return errg.Wait()
}

// =============================================================================
// Builder package
// =============================================================================

// GenFile renders the builder package of t.
func (g *Generator) GenFile(t *Type) *jen.File {
	f := jen.NewFilePathName(t.PkgPath(), t.Package())
	header := DefaultHeader
	if t.Config != nil {
		header = t.HeaderComment()
	}
	f.HeaderComment(header)
	f.PackageComment(fmt.Sprintf("Package %s builds AQL queries over %s documents.", t.Package(), t.Name))

	genFields(f, t)
	genConstructors(f, t)
	for _, p := range aql.Phases() {
		genState(f, t, p)
	}
	genAssertions(f, t)
	return f
}

func genFields(f *jen.File, t *Type) {
	f.Comment(fmt.Sprintf("Collection is the default collection of %s documents.", t.Name))
	f.Const().Id("Collection").Op("=").Lit(t.Collection())

	f.Comment(fmt.Sprintf("Field is an attribute of a %s document.", t.Name))
	f.Type().Id("Field").String()

	consts := make([]jen.Code, len(t.Fields))
	ids := make([]jen.Code, len(t.Fields))
	for i, fd := range t.Fields {
		consts[i] = jen.Id(fd.Constant()).Id("Field").Op("=").Lit(fd.Name)
		ids[i] = jen.Id(fd.Constant())
	}
	f.Comment(fmt.Sprintf("%s attributes.", t.Name))
	f.Const().Defs(consts...)

	f.Comment("Fields lists every attribute in declaration order.")
	f.Var().Id("Fields").Op("=").Index().Id("Field").Values(ids...)
}

func genConstructors(f *jen.File, t *Type) {
	empty := t.StateName(aql.PhaseEmpty)
	f.Comment(fmt.Sprintf("New returns a %s query over collection.", t.Name))
	f.Func().Id("New").Params(jen.Id("collection").String()).Id(empty).Block(
		jen.Return(jen.Id(empty).Values(jen.Id("b").Op(":").Qual(aqlPkg, "New").Call(jen.Id("collection")))),
	)
	f.Comment(fmt.Sprintf("Query returns a %s query over Collection.", t.Name))
	f.Func().Id("Query").Params().Id(empty).Block(
		jen.Return(jen.Id("New").Call(jen.Id("Collection"))),
	)
}

func genState(f *jen.File, t *Type, p aql.Phase) {
	name := t.StateName(p)
	f.Comment(fmt.Sprintf(stateDocs[p], name, t.Name))
	f.Type().Id(name).Struct(jen.Id("b").Qual(aqlPkg, "Builder"))
	for _, m := range t.Methods(p) {
		genMethod(f, t, p, m)
	}
}

func genMethod(f *jen.File, t *Type, p aql.Phase, m *Method) {
	recv := jen.Id(t.Receiver()).Id(t.StateName(p))
	b := func() *jen.Statement { return jen.Id(t.Receiver()).Dot("b") }
	var (
		params []jen.Code
		call   *jen.Statement
	)
	switch m.Step {
	case aql.StepCreate, aql.StepReplaceWith:
		params = []jen.Code{jen.Id("elem").Add(recordCode(t))}
		call = b().Dot(m.Step.String()).Call(jen.Id("elem"))
	case aql.StepLimit:
		params = []jen.Code{jen.Id("n").Int()}
		call = b().Dot("Limit").Call(jen.Id("n"))
	case aql.StepSort:
		params = []jen.Code{jen.Id("field").Id("Field"), jen.Id("dir").Qual(aqlPkg, "SortDirection")}
		call = b().Dot("Sort").Call(jen.String().Call(jen.Id("field")), jen.Id("dir"))
	case aql.StepCondition:
		arg := "v"
		if m.Op.Sequence() {
			arg = "vs"
			params = []jen.Code{jen.Id(arg).Op("...").Add(typeCode(m.Field.Type))}
		} else {
			params = []jen.Code{jen.Id(arg).Add(typeCode(m.Field.Type))}
		}
		call = b().Dot("Condition").Call(
			jen.String().Call(jen.Id(m.Field.Constant())),
			jen.Qual(aqlPkg, "Op"+m.Op.Name()),
			jen.Id(arg),
		)
	case aql.StepSet:
		params = []jen.Code{jen.Id("v").Add(typeCode(m.Field.Type))}
		call = b().Dot("Set").Call(jen.String().Call(jen.Id(m.Field.Constant())), jen.Id("v"))
	case aql.StepBuild:
		f.Comment(methodDoc(m))
		f.Func().Params(recv).Id(m.Name).Params().Params(jen.Qual(aqlPkg, "Query"), jen.Error()).Block(
			jen.Return(b().Dot("Build").Call()),
		)
		return
	default:
		call = b().Dot(m.Step.String()).Call()
	}
	next := t.StateName(m.Next)
	f.Comment(methodDoc(m))
	f.Func().Params(recv).Id(m.Name).Params(params...).Id(next).Block(
		jen.Return(jen.Id(next).Values(jen.Id("b").Op(":").Add(call))),
	)
}

// genAssertions checks at compile time that every state satisfies the
// aql capability interfaces of its capabilities.
func genAssertions(f *jen.File, t *Type) {
	var defs []jen.Code
	assert := func(iface jen.Code, state string) {
		defs = append(defs, jen.Id("_").Add(iface).Op("=").Id(state).Values())
	}
	for _, p := range aql.Phases() {
		c, name := aql.Capabilities(p), t.StateName(p)
		if c.Has(aql.Buildable) {
			assert(jen.Qual(aqlPkg, "BuildableState"), name)
		}
		if c.Has(aql.Filterable) {
			assert(jen.Qual(aqlPkg, "FilterableState").Types(jen.Id(t.StateName(aql.StepFilter.Next(p)))), name)
		}
		if c.Has(aql.Limitable) {
			assert(jen.Qual(aqlPkg, "LimitableState").Types(jen.Id(name)), name)
		}
		if c.Has(aql.LogicallyOperatable) {
			assert(jen.Qual(aqlPkg, "LogicallyOperatableState").Types(jen.Id(t.StateName(aql.StepAnd.Next(p)))), name)
		}
		if c.Has(aql.Sortable) {
			assert(jen.Qual(aqlPkg, "SortableState").Types(jen.Id("Field"), jen.Id(t.StateName(aql.StepSort.Next(p)))), name)
		}
		if c.Has(aql.UpdateWith) {
			assert(jen.Qual(aqlPkg, "ReplaceableState").Types(recordCode(t), jen.Id(t.StateName(aql.StepReplaceWith.Next(p)))), name)
		}
	}
	f.Var().Defs(defs...)
}

// recordCode spells the record type, or any for records without a Go
// declaration.
func recordCode(t *Type) jen.Code {
	if t.RecordPkgPath() == "" {
		return jen.Id("any")
	}
	return jen.Qual(t.RecordPkgPath(), t.Name)
}

// typeCode spells a field type.
func typeCode(info *schema.TypeInfo) jen.Code {
	switch info.Kind {
	case schema.KindNamed:
		if info.PkgPath == "" {
			return jen.Id(info.Ident)
		}
		return jen.Qual(info.PkgPath, info.Ident)
	case schema.KindSlice:
		return jen.Index().Add(typeCode(info.Elem))
	case schema.KindArray:
		return jen.Index(jen.Lit(info.Len)).Add(typeCode(info.Elem))
	case schema.KindPointer:
		return jen.Op("*").Add(typeCode(info.Elem))
	case schema.KindMap:
		return jen.Map(typeCode(info.Key)).Add(typeCode(info.Elem))
	case schema.KindAny:
		return jen.Id("any")
	default:
		return jen.Id(info.Ident)
	}
}

var stateDocs = map[aql.Phase]string{
	aql.PhaseEmpty:           "%s starts a %s query. Choose the operation with Create, Read, Update or Delete.",
	aql.PhaseCreate:          "%s inserts a %s document.",
	aql.PhaseRead:            "%s reads %s documents.",
	aql.PhaseUpdate:          "%s updates %s documents. Set a field or replace the document to finish it.",
	aql.PhaseDelete:          "%s removes %s documents.",
	aql.PhaseFiltering:       "%s is an open filter clause over %s documents awaiting a condition.",
	aql.PhaseConditional:     "%s follows a condition on %s documents.",
	aql.PhaseLogicalOperator: "%s follows AND or OR and awaits the next condition on %s documents.",
	aql.PhaseUpdateField:     "%s follows the modification of %s documents.",
	aql.PhaseSorting:         "%s orders %s documents.",
}

var stepDocs = map[aql.Step]string{
	aql.StepCreate:      "inserts elem into the collection.",
	aql.StepRead:        "starts a read of at most aql.DefaultLimit documents.",
	aql.StepUpdate:      "starts an update of the matching documents.",
	aql.StepDelete:      "starts a removal of the matching documents.",
	aql.StepFilter:      "opens a filter clause.",
	aql.StepAnd:         "requires the next condition as well.",
	aql.StepOr:          "accepts the next condition instead.",
	aql.StepLimit:       "caps the number of documents. A later call overwrites the cap.",
	aql.StepSort:        "orders the results by field.",
	aql.StepReplaceWith: "merges elem into every matching document.",
	aql.StepBuild:       "finishes the query.",
}

var opDocs = map[aql.Operator]string{
	aql.OpEq:    "equals v",
	aql.OpNe:    "differs from v",
	aql.OpGt:    "is greater than v",
	aql.OpLt:    "is less than v",
	aql.OpGe:    "is at least v",
	aql.OpLe:    "is at most v",
	aql.OpIn:    "is one of vs",
	aql.OpNotIn: "is none of vs",
}

func methodDoc(m *Method) string {
	switch m.Step {
	case aql.StepCondition:
		return fmt.Sprintf("%s matches documents whose %s %s.", m.Name, m.Field.Name, opDocs[m.Op])
	case aql.StepSet:
		return fmt.Sprintf("%s sets %s of every matching document to v.", m.Name, m.Field.Name)
	default:
		return m.Name + " " + stepDocs[m.Step]
	}
}
