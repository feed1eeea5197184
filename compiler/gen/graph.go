package gen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/syssam/arangoq/schema"
)

// Graph holds the record types to generate builders for.
type Graph struct {
	*Config
	// Nodes are the types in the order their schemas were given.
	Nodes []*Type
}

// NewGraph creates a new Graph for the code generation from the given
// schemas. It fails if a schema is invalid or two schemas would generate
// the same package.
func NewGraph(c *Config, schemas ...*schema.Schema) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	g := &Graph{Config: c, Nodes: make([]*Type, 0, len(schemas))}
	pkgs := make(map[string]string, len(schemas))
	for _, s := range schemas {
		if s == nil {
			return nil, &schema.Error{Message: "nil schema"}
		}
		t, err := NewType(c, s)
		if err != nil {
			return nil, err
		}
		if prev, ok := pkgs[t.PackageDir()]; ok {
			return nil, &schema.Error{Schema: s.Name, Message: fmt.Sprintf("package %q already generated for %s", t.PackageDir(), prev)}
		}
		pkgs[t.PackageDir()] = s.Name
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// Gen generates the builder packages into the configured target.
func (g *Graph) Gen(ctx context.Context) error {
	if g.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	gen := NewGenerator(g)
	if g.Workers > 0 {
		gen = gen.WithWorkers(g.Workers)
	}
	if err := gen.Generate(ctx); err != nil {
		return err
	}
	m := gen.Metrics()
	slog.Info("generated query builders", "types", len(g.Nodes), "files", m.FilesGenerated, "bytes", m.TotalBytes)
	return nil
}

// Type returns the node with the given record name.
func (g *Graph) Type(name string) (*Type, bool) {
	for _, t := range g.Nodes {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
