// Package terraform writes a diagram back out as Terraform configuration.
package terraform

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/tfcanvas/canvas/internal/dependency"
	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/result"
	"github.com/tfcanvas/canvas/internal/schema"
)

// Options configures the exporter.
type Options struct {
	// Props supplies property kinds; nil writes every value as a string
	// unless it is structured or a reference.
	Props graph.PropertySource
	// EmitTfvars generates terraform.tfvars from diagram metadata when true.
	EmitTfvars bool
	// EmitOutputs generates outputs.tf with every resource id when true.
	EmitOutputs bool
	// Region is the default of the region variable.
	Region string
	// ProviderVersion is the AWS provider version constraint.
	ProviderVersion string
	// MaxParallel is the max number of nodes rendered in parallel per tier (0 = default).
	MaxParallel int
}

// DefaultOptions returns default exporter options.
func DefaultOptions() Options {
	return Options{
		EmitTfvars:      true,
		EmitOutputs:     true,
		Region:          "us-east-1",
		ProviderVersion: "~> 5.0",
	}
}

// Address is the resource address a node is written under.
type Address struct {
	Type string
	Name string
}

func (a Address) String() string { return a.Type + "." + a.Name }

// Exporter turns diagrams into Terraform files.
type Exporter struct {
	opts Options
}

// NewExporter returns an exporter with the given options.
func NewExporter(opts Options) *Exporter {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.NumCPU()
	}
	if opts.MaxParallel > 32 {
		opts.MaxParallel = 32
	}
	def := DefaultOptions()
	if opts.Region == "" {
		opts.Region = def.Region
	}
	if opts.ProviderVersion == "" {
		opts.ProviderVersion = def.ProviderVersion
	}
	return &Exporter{opts: opts}
}

// Export validates the diagram, orders resources by dependency and generates
// Terraform files. Nodes of unknown type are skipped with a warning.
func (x *Exporter) Export(d *diagram.Diagram) *result.ExportResult {
	out := &result.ExportResult{Success: true}

	// 1. Diagram-level validation
	for _, e := range diagram.Validate(d) {
		if e.IsError() {
			out.Errors = append(out.Errors, result.Error{
				Type: e.Type, Severity: e.Severity, NodeID: e.NodeID,
				Message: e.Message, Suggestion: e.Suggestion,
			})
			continue
		}
		out.Warnings = append(out.Warnings, result.Warning{
			Type: e.Type, Severity: e.Severity, NodeID: e.NodeID,
			Message: e.Message, Suggestion: e.Suggestion,
		})
	}
	if len(out.Errors) > 0 {
		out.Success = false
		return out
	}

	// 2. Resolve dependency order and tiers
	_, tiers, err := dependency.Resolve(d)
	if err != nil {
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "dependency_error", Severity: result.SeverityError,
			Message: err.Error(), Suggestion: "Remove circular edges",
		})
		return out
	}

	// 3. Assign addresses
	addrs := assignAddresses(d)

	// 4. Render tier by tier; within each tier render nodes in parallel
	type nodeResult struct {
		hcl   []byte
		warns []result.Warning
	}
	fs := newFileSet(d.Metadata.Name)
	sem := make(chan struct{}, x.opts.MaxParallel)
	for _, tier := range tiers {
		results := make([]nodeResult, len(tier))
		var wg sync.WaitGroup
		for i, nodeID := range tier {
			node := d.NodeByID(nodeID)
			if _, ok := addrs[nodeID]; !ok || node == nil {
				continue
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, n *diagram.Node) {
				defer wg.Done()
				defer func() { <-sem }()
				block, warns := x.renderNode(d, n, addrs)
				results[i] = nodeResult{hcl: block, warns: warns}
			}(i, node)
		}
		wg.Wait()

		// Append blocks in tier order so main.tf stays in dependency order
		for i, nodeID := range tier {
			out.Warnings = append(out.Warnings, results[i].warns...)
			fs.addResource(addrs[nodeID], results[i].hcl)
		}
	}

	// 5. Assemble Terraform files
	fs.put(result.FileVersions, VersionsTF(x.opts.ProviderVersion))
	fs.put(result.FileVariables, VariablesTF(x.opts.Region, d.Variables))
	if x.opts.EmitOutputs {
		fs.put(result.FileOutputs, OutputsTF(fs.exported()))
	}
	if x.opts.EmitTfvars {
		fs.put(result.FileTfvars, TfvarsFromMetadata(&d.Metadata, x.opts.Region, d.Variables))
	}
	out.Files = fs.files()
	return out
}

// assignAddresses names every exportable node after its label, falling back
// to its id, with numeric suffixes for clashes. Unknown types get no address.
func assignAddresses(d *diagram.Diagram) map[string]Address {
	addrs := make(map[string]Address, len(d.Nodes))
	used := make(map[Address]bool)
	for _, n := range d.Nodes {
		if !registry.ByCanonicalName(n.Type).IsKnown() {
			continue
		}
		base := n.Label
		if base == "" {
			base = n.ID
		}
		a := Address{Type: n.Type, Name: SanitizeName(base)}
		for i := 2; used[a]; i++ {
			a.Name = SanitizeName(base) + "_" + strconv.Itoa(i)
		}
		used[a] = true
		addrs[n.ID] = a
	}
	return addrs
}

func (x *Exporter) renderNode(d *diagram.Diagram, n *diagram.Node, addrs map[string]Address) ([]byte, []result.Warning) {
	var warns []result.Warning
	addr := addrs[n.ID]
	rt := registry.ByCanonicalName(n.Type)
	implied, linked := impliedRefs(d, n, addrs)

	defs := make(map[string]schema.PropertyDefinition)
	if x.opts.Props != nil {
		for _, def := range x.opts.Props.Properties(rt) {
			defs[def.Name] = def
			if _, ok := implied[def.Name]; ok {
				continue
			}
			if def.Required && strings.TrimSpace(n.Properties[def.Name]) == "" {
				warns = append(warns, result.Warning{
					Type: "missing_property", Severity: result.SeverityWarning, NodeID: n.ID,
					Message:    fmt.Sprintf("%s: required property %q is empty", addr, def.Name),
					Suggestion: "Set properties." + def.Name,
				})
			}
		}
	}

	block := ResourceBlock(addr.Type, addr.Name)
	body := block.Body()
	for _, name := range sortedKeys(n.Properties) {
		value := n.Properties[name]
		if value == "" || name == "depends_on" {
			continue
		}
		def, defined := defs[name]
		writeProperty(body, name, value, def, defined)
	}
	setImplied(body, implied)

	var deps []hclwrite.Tokens
	for _, e := range d.EdgesWithTarget(n.ID) {
		src, ok := addrs[e.Source]
		if !ok || linked[e.Source] || referenced(n.Properties, src) {
			continue
		}
		deps = append(deps, hclwrite.TokensForTraversal(refTraversal(src.Type, src.Name, "")))
	}
	if len(deps) > 0 {
		body.SetAttributeRaw("depends_on", hclwrite.TokensForTuple(deps))
	}
	return BlockToBytes(block), warns
}

func writeProperty(body *hclwrite.Body, name, value string, def schema.PropertyDefinition, defined bool) {
	switch {
	case IsStructured(value):
		switch {
		case defined && def.Kind == schema.KindJSON:
			if SetAttributeJSON(body, name, value) {
				return
			}
		case defined || IsFlatObject(value):
			if SetAttributeStructured(body, name, value) {
				return
			}
		default:
			if AppendNestedBlocks(body, name, value) || SetAttributeStructured(body, name, value) {
				return
			}
		}
	case schema.HasInterpolation(value):
		SetAttributeInterpolated(body, name, value)
		return
	case defined && def.Kind == schema.KindNumber:
		if SetAttributeNumber(body, name, value) {
			return
		}
	case defined && def.Kind == schema.KindBoolean:
		if SetAttributeBool(body, name, value) {
			return
		}
	}
	SetAttributeStr(body, name, value)
}

// referenced reports whether any property already refers to addr.
func referenced(props map[string]string, addr Address) bool {
	needle := addr.String() + "."
	for _, v := range props {
		if strings.Contains(v, needle) {
			return true
		}
	}
	return false
}
