package parser

import (
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/idgen"
	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/schema"
)

// GridPosition returns the fallback position of the record at index i.
func (p *ConfigParser) GridPosition(i int) graph.Point {
	col := i % p.opts.Columns
	row := i / p.opts.Columns
	return graph.Point{
		X: p.opts.Origin.X + float64(col)*p.opts.Spacing.X,
		Y: p.opts.Origin.Y + float64(row)*p.opts.Spacing.Y,
	}
}

// ConvertToBlocks builds one block per record, in record order. Unknown
// types become Unknown blocks that keep the verbatim type string. Known types
// start from the catalog defaults; parsed attribute values override them and
// are coerced to the kind of the matching property definition.
func (p *ConfigParser) ConvertToBlocks(resources []Resource) []*graph.Block {
	blocks := make([]*graph.Block, 0, len(resources))
	defsByType := make(map[registry.ResourceType]map[string]schema.PropertyDefinition)
	for i, r := range resources {
		rt := registry.ByCanonicalName(r.Type)
		b := graph.NewBlock(idgen.Must(idgen.BlockPrefix), rt, p.GridPosition(i), graph.DefaultBlockSize)
		b.TypeName = r.Type
		b.Label = r.Name
		if rt.IsKnown() {
			b.Properties = graph.DefaultProperties(p.props, rt)
		}

		defs, ok := defsByType[rt]
		if !ok {
			defs = p.definitions(rt)
			defsByType[rt] = defs
		}
		for name, raw := range r.Attributes {
			if d, ok := defs[name]; ok {
				raw = d.Coerce(raw)
			}
			b.Properties[name] = raw
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (p *ConfigParser) definitions(rt registry.ResourceType) map[string]schema.PropertyDefinition {
	out := make(map[string]schema.PropertyDefinition)
	if p.props == nil || !rt.IsKnown() {
		return out
	}
	for _, d := range p.props.Properties(rt) {
		out[d.Name] = d
	}
	return out
}

// Convert builds blocks and the connections implied by resource
// dependencies: the referenced resource is the source (output side), the
// referencing resource the target. When an address is declared more than
// once the first declaration is used.
func (p *ConfigParser) Convert(resources []Resource) ([]*graph.Block, []graph.Connection) {
	blocks := p.ConvertToBlocks(resources)

	byAddr := make(map[string]string, len(resources))
	for i, r := range resources {
		if _, dup := byAddr[r.Address()]; !dup {
			byAddr[r.Address()] = blocks[i].ID
		}
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool)
	var conns []graph.Connection
	for i, r := range resources {
		target := blocks[i].ID
		for _, dep := range r.DependsOn {
			source, ok := byAddr[dep]
			if !ok || source == target {
				continue
			}
			k := pair{source, target}
			if seen[k] {
				continue
			}
			seen[k] = true
			conns = append(conns, graph.Connection{
				ID:            idgen.Must(idgen.ConnectionPrefix),
				SourceBlockID: source,
				TargetBlockID: target,
			})
		}
	}
	return blocks, conns
}
