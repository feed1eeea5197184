package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syssam/arangoq/compiler/load"
	"github.com/syssam/arangoq/schema"
)

// DefaultConfigFile is the configuration file read by the aqlgen command.
const DefaultConfigFile = "aqlgen.yaml"

// DefaultHeader is written at the top of generated files when Config.Header
// is empty.
const DefaultHeader = "Code generated by aqlgen. DO NOT EDIT."

// Config holds the global codegen configuration.
type Config struct {
	// Target is the output directory. Each record type gets its own
	// sub-package below it.
	Target string `yaml:"target"`
	// Package is the import path of Target.
	Package string `yaml:"package"`
	// Header overrides DefaultHeader.
	Header string `yaml:"header,omitempty"`
	// Workers bounds the number of files rendered in parallel. Defaults to
	// GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`
	// BuildFlags are passed to the build system when loading sources.
	BuildFlags []string `yaml:"build_flags,omitempty"`
	// Sources are Go packages to read record types from.
	Sources []Source `yaml:"sources,omitempty"`
	// Schemas are records described inline.
	Schemas []InlineSchema `yaml:"schemas,omitempty"`
	// Dir is the directory relative paths are resolved against. ReadConfig
	// sets it to the directory of the file.
	Dir string `yaml:"-"`
}

// Source is a Go package holding record types.
type Source struct {
	Package string     `yaml:"package"`
	Types   StringList `yaml:"types,omitempty"`
}

// InlineSchema describes a record without Go source.
type InlineSchema struct {
	Name string `yaml:"name"`
	// Package is the import path of the record type. Generated Create and
	// ReplaceWith methods accept any value when it is empty.
	Package string        `yaml:"package,omitempty"`
	Fields  []InlineField `yaml:"fields"`
}

// InlineField is one field of an InlineSchema. Type is a Go type
// expression such as "[]string" or "uuid.UUID".
type InlineField struct {
	Name   string `yaml:"name"`
	GoName string `yaml:"go_name,omitempty"`
	Type   string `yaml:"type"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// ReadConfig reads a YAML configuration file. Unknown keys are rejected.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Dir = filepath.Dir(path)
	return c, nil
}

// ParseConfig decodes a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, NewConfigError("File", nil, err.Error())
	}
	return c, nil
}

// Validate checks the settings generation cannot do without.
func (c *Config) Validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "missing package import path in config")
	}
	if len(c.Sources) == 0 && len(c.Schemas) == 0 {
		return NewConfigError("Sources", nil, "no sources or inline schemas to generate from")
	}
	return nil
}

// TargetDir returns Target resolved against Dir.
func (c *Config) TargetDir() string {
	if c.Dir == "" || filepath.IsAbs(c.Target) {
		return c.Target
	}
	return filepath.Join(c.Dir, c.Target)
}

// HeaderComment returns the header of generated files.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// LoadSchemas loads every source package and builds the inline schemas,
// in configuration order.
func (c *Config) LoadSchemas(ctx context.Context) ([]*schema.Schema, error) {
	var schemas []*schema.Schema
	for _, src := range c.Sources {
		lc := &load.Config{
			Path:       src.Package,
			Names:      src.Types,
			Dir:        c.Dir,
			BuildFlags: c.BuildFlags,
		}
		spec, err := lc.Load(ctx)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, spec.Schemas...)
	}
	for _, is := range c.Schemas {
		s, err := is.Schema()
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// Schema builds and validates the schema.
func (is InlineSchema) Schema() (*schema.Schema, error) {
	fields := make([]*schema.Field, len(is.Fields))
	for i, f := range is.Fields {
		info, err := schema.ParseType(f.Type)
		if err != nil {
			return nil, &schema.Error{Schema: is.Name, Field: f.Name, Cause: err}
		}
		fields[i] = &schema.Field{Name: f.Name, GoName: f.GoName, Type: info}
	}
	return schema.New(is.Name, is.Package, fields...)
}
