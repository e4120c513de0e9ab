package graph

import (
	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/schema"
)

// DefaultBlockSize is the size of newly placed blocks.
var DefaultBlockSize = Size{Width: 180, Height: 80}

// Block is a graph node. Position and size are only changed through the
// Model so the connection points always match them.
type Block struct {
	ID           string
	Category     registry.Category
	ResourceType registry.ResourceType
	// TypeName is the type string the block was created from; it differs from
	// the canonical name only for Unknown blocks.
	TypeName   string
	Label      string
	Properties map[string]string

	position Point
	size     Size
	input    Point
	output   Point
}

// NewBlock returns a block of type rt with its connection points computed.
func NewBlock(id string, rt registry.ResourceType, pos Point, size Size) *Block {
	b := &Block{
		ID:           id,
		Category:     rt.Category(),
		ResourceType: rt,
		TypeName:     rt.CanonicalName(),
		Label:        rt.DisplayName(),
		Properties:   make(map[string]string),
		position:     pos,
		size:         size,
	}
	b.recompute()
	return b
}

// Position is the top-left corner.
func (b *Block) Position() Point { return b.position }

// Size is the block's extent.
func (b *Block) Size() Size { return b.size }

// InputPoint is the middle of the left edge.
func (b *Block) InputPoint() Point { return b.input }

// OutputPoint is the middle of the right edge.
func (b *Block) OutputPoint() Point { return b.output }

// PointOf returns the connection point of kind k.
func (b *Block) PointOf(k PointKind) Point {
	if k == Output {
		return b.output
	}
	return b.input
}

func (b *Block) setPosition(p Point) {
	b.position = p
	b.recompute()
}

func (b *Block) setSize(s Size) {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	b.size = s
	b.recompute()
}

func (b *Block) recompute() {
	b.input = b.position.Add(Point{X: 0, Y: b.size.Height / 2})
	b.output = b.position.Add(Point{X: b.size.Width, Y: b.size.Height / 2})
}

// PropertySource supplies the property definitions of a resource type.
// *schema.Catalog implements it.
type PropertySource interface {
	Properties(rt registry.ResourceType) []schema.PropertyDefinition
}

// DefaultProperties returns a property bag holding every defined property of
// rt set to its default (possibly empty).
func DefaultProperties(src PropertySource, rt registry.ResourceType) map[string]string {
	props := make(map[string]string)
	if src == nil {
		return props
	}
	for _, d := range src.Properties(rt) {
		props[d.Name] = d.Default
	}
	return props
}
