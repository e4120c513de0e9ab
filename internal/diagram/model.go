package diagram

import (
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/registry"
)

// FromModel snapshots m. The result shares no state with the model.
func FromModel(m *graph.Model, meta Metadata) *Diagram {
	if meta.Version == "" {
		meta.Version = FormatVersion
	}
	d := &Diagram{
		Metadata: meta,
		Nodes:    make([]Node, 0, m.Len()),
		Edges:    []Edge{},
	}
	for _, b := range m.Blocks() {
		size := b.Size()
		props := make(map[string]string, len(b.Properties))
		for k, v := range b.Properties {
			props[k] = v
		}
		d.Nodes = append(d.Nodes, Node{
			ID:         b.ID,
			Type:       b.TypeName,
			Label:      b.Label,
			Position:   b.Position(),
			Size:       &size,
			Properties: props,
		})
	}
	for _, c := range m.Connections() {
		d.Edges = append(d.Edges, Edge{ID: c.ID, Source: c.SourceBlockID, Target: c.TargetBlockID, Type: EdgeDependsOn})
	}
	for _, c := range m.Composites() {
		props := make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		d.Groups = append(d.Groups, Group{
			ID:         c.ID,
			Name:       c.Name,
			Position:   c.Position(),
			Children:   c.Children(),
			Properties: props,
		})
	}
	return d
}

// FromParse converts parsed configuration to a diagram without touching any
// live model: resources become nodes on the fallback grid, references become
// edges.
func FromParse(p *parser.ConfigParser, res *parser.Result, meta Metadata) *Diagram {
	m := graph.New(nil)
	m.Replace(p.Convert(res.Resources))
	d := FromModel(m, meta)
	d.Variables = append([]parser.Variable{}, res.Variables...)
	return d
}

// Blocks converts the nodes to graph blocks.
func (d *Diagram) Blocks() []*graph.Block {
	blocks := make([]*graph.Block, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		size := graph.DefaultBlockSize
		if n.Size != nil {
			size = *n.Size
		}
		b := graph.NewBlock(n.ID, registry.ByCanonicalName(n.Type), n.Position, size)
		b.TypeName = n.Type
		if n.Label != "" {
			b.Label = n.Label
		}
		for k, v := range n.Properties {
			b.Properties[k] = v
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Connections converts the edges to graph connections.
func (d *Diagram) Connections() []graph.Connection {
	conns := make([]graph.Connection, 0, len(d.Edges))
	for _, e := range d.Edges {
		conns = append(conns, graph.Connection{ID: e.ID, SourceBlockID: e.Source, TargetBlockID: e.Target})
	}
	return conns
}

// Apply replaces the contents of m with the diagram. Invalid nodes, edges and
// group children are skipped the same way the model rejects them.
func (d *Diagram) Apply(m *graph.Model) {
	m.Replace(d.Blocks(), d.Connections())
	for _, g := range d.Groups {
		c, ok := m.AddCompositeWithID(g.ID, g.Name, g.Position)
		if !ok {
			continue
		}
		for k, v := range g.Properties {
			c.Properties[k] = v
		}
		for _, id := range g.Children {
			if b, ok := m.Block(id); ok {
				m.AddChild(c.ID, b)
			}
		}
	}
}
