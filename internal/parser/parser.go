// Package parser reads Terraform configuration into resource and variable
// records and converts them into graph blocks and connections.
package parser

import (
	"runtime"
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/result"
)

// Resource is one parsed `resource "<type>" "<name>"` declaration.
type Resource struct {
	Type string `json:"type"`
	Name string `json:"name"`
	// Attributes holds every attribute value as a string: literals rendered,
	// references in ${...} form, nested objects and blocks as JSON.
	Attributes map[string]string `json:"attributes"`
	// DependsOn lists the addresses of declared resources this one refers to,
	// in first-seen order.
	DependsOn []string `json:"depends_on,omitempty"`
	// VariableRefs lists the input variables this resource reads.
	VariableRefs []string `json:"variable_refs,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	Line         int      `json:"line,omitempty"`
}

// Address is the configuration address "type.name".
func (r Resource) Address() string { return r.Type + "." + r.Name }

// Variable is one parsed `variable "<name>"` declaration.
type Variable struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Default     string `json:"default,omitempty"`
	HasDefault  bool   `json:"has_default,omitempty"`
	Description string `json:"description,omitempty"`
	Sensitive   bool   `json:"sensitive,omitempty"`
}

// Result is what a parse produced. Warnings describe input that was skipped.
type Result struct {
	Resources []Resource       `json:"resources"`
	Variables []Variable       `json:"variables"`
	Warnings  []result.Warning `json:"warnings,omitempty"`
}

// Empty reports whether nothing was found.
func (r *Result) Empty() bool {
	return len(r.Resources) == 0 && len(r.Variables) == 0
}

// File is a named configuration source.
type File struct {
	Name    string
	Content []byte
}

// ConfigParser parses configuration text. It is safe for concurrent use.
type ConfigParser struct {
	opts  Options
	props graph.PropertySource
}

// New returns a new parser. props is consulted when converting records to
// blocks and may be nil.
func New(props graph.PropertySource, opts Options) *ConfigParser {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.NumCPU()
	}
	if opts.MaxParallel > 32 {
		opts.MaxParallel = 32
	}
	def := DefaultOptions()
	if opts.Columns <= 0 {
		opts.Columns = def.Columns
	}
	if opts.Spacing == (graph.Point{}) {
		opts.Spacing = def.Spacing
	}
	return &ConfigParser{opts: opts, props: props}
}

// Parse parses a single source.
func (p *ConfigParser) Parse(filename string, src []byte) *Result {
	return p.ParseFiles([]File{{Name: filename, Content: src}})
}

// ParseFiles parses several sources as one configuration: a reference in one
// file to a resource declared in another still counts as a dependency.
// Records keep file order, then declaration order.
func (p *ConfigParser) ParseFiles(files []File) *Result {
	out := &Result{Resources: []Resource{}, Variables: []Variable{}}

	// 1. Parse all files, at most MaxParallel at a time
	parsed := make([]*source, len(files))
	sem := make(chan struct{}, p.opts.MaxParallel)
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, f File) {
			defer wg.Done()
			defer func() { <-sem }()
			parsed[i] = parseSource(f)
		}(i, f)
	}
	wg.Wait()

	// 2. Collect declarations so references can be matched across files
	decls := make(declared)
	for _, s := range parsed {
		out.Warnings = append(out.Warnings, s.warnings...)
		if s.body == nil {
			continue
		}
		for _, blk := range s.body.Blocks {
			if blk.Type == "resource" && len(blk.Labels) == 2 {
				decls.add(blk.Labels[0], blk.Labels[1])
			}
		}
	}

	// 3. Extract records in source order
	for _, s := range parsed {
		if s.body == nil {
			continue
		}
		for _, blk := range s.body.Blocks {
			switch blk.Type {
			case "resource":
				if len(blk.Labels) != 2 {
					out.Warnings = append(out.Warnings, labelWarning(blk, "resource", "a type and a name"))
					continue
				}
				out.Resources = append(out.Resources, s.resource(blk, decls))
			case "variable":
				if len(blk.Labels) != 1 {
					out.Warnings = append(out.Warnings, labelWarning(blk, "variable", "a name"))
					continue
				}
				out.Variables = append(out.Variables, s.variable(blk))
			}
		}
	}
	return out
}

// source is one parsed file with the bytes its ranges point into.
type source struct {
	name     string
	src      []byte
	body     *hclsyntax.Body
	warnings []result.Warning
}

func parseSource(f File) *source {
	s := &source{name: f.Name, src: f.Content}
	file, diags := hclsyntax.ParseConfig(f.Content, f.Name, hcl.InitialPos)
	for _, d := range diags {
		s.warnings = append(s.warnings, result.NewWarning("parse_warning", "", d.Error()))
	}
	if file == nil {
		return s
	}
	if body, ok := file.Body.(*hclsyntax.Body); ok {
		s.body = body
	}
	return s
}

func labelWarning(blk *hclsyntax.Block, kind, want string) result.Warning {
	return result.NewWarning("parse_warning", "",
		blk.DefRange().String()+": "+kind+" block needs "+want+"; skipped")
}

func (s *source) text(rng hcl.Range) string {
	if rng.End.Byte > len(s.src) || rng.Start.Byte > rng.End.Byte {
		return ""
	}
	return string(rng.SliceBytes(s.src))
}

// Meta-argument blocks that are not resource settings.
var skippedBlocks = map[string]bool{
	"lifecycle":   true,
	"provisioner": true,
	"connection":  true,
}

func (s *source) resource(blk *hclsyntax.Block, decls declared) Resource {
	r := Resource{
		Type:       blk.Labels[0],
		Name:       blk.Labels[1],
		Attributes: make(map[string]string),
		Filename:   s.name,
		Line:       blk.DefRange().Start.Line,
	}
	refs := newRefCollector(r.Address(), decls)

	for _, attr := range sortedAttributes(blk.Body) {
		refs.collect(attr.Expr)
		if attr.Name == "depends_on" {
			continue
		}
		r.Attributes[attr.Name] = s.render(attr.Expr)
	}

	nested := make(map[string][]any)
	var nestedOrder []string
	for _, child := range blk.Body.Blocks {
		if skippedBlocks[child.Type] {
			continue
		}
		refs.collectBody(child.Body)
		if _, seen := nested[child.Type]; !seen {
			nestedOrder = append(nestedOrder, child.Type)
		}
		nested[child.Type] = append(nested[child.Type], s.blockValue(child.Body))
	}
	for _, name := range nestedOrder {
		if _, clash := r.Attributes[name]; clash {
			continue
		}
		r.Attributes[name] = marshalNested(nested[name])
	}

	r.DependsOn = refs.resources
	r.VariableRefs = refs.variables
	return r
}

func (s *source) variable(blk *hclsyntax.Block) Variable {
	v := Variable{Name: blk.Labels[0]}
	attrs := blk.Body.Attributes
	if a, ok := attrs["type"]; ok {
		v.Type = s.text(a.Expr.Range())
	}
	if a, ok := attrs["default"]; ok {
		v.Default = s.render(a.Expr)
		v.HasDefault = true
	}
	if a, ok := attrs["description"]; ok {
		v.Description = s.render(a.Expr)
	}
	if a, ok := attrs["sensitive"]; ok {
		v.Sensitive = s.render(a.Expr) == "true"
	}
	return v
}

// sortedAttributes returns a body's attributes in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
