// Package graph is the in-memory block graph behind the canvas: an arena of
// blocks keyed by id, id-based connections between them, composite groups,
// and the drag-to-connect state machine.
//
// A Model is not safe for concurrent use. All mutation is expected to happen
// on one logical timeline (see package workspace).
package graph

import (
	"github.com/tfcanvas/canvas/internal/idgen"
	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/schema"
)

// DefaultThreshold is the maximum distance at which a released drag snaps to a
// connection point.
const DefaultThreshold = 30.0

// Connection is a directed edge from the source block's output point to the
// target block's input point.
type Connection struct {
	ID            string `json:"id"`
	SourceBlockID string `json:"source"`
	TargetBlockID string `json:"target"`
}

type edgeKey struct{ source, target string }

// Option configures a Model.
type Option func(*Model)

// WithThreshold sets the snapping distance used by EndConnection.
func WithThreshold(d float64) Option {
	return func(m *Model) {
		if d > 0 {
			m.threshold = d
		}
	}
}

// WithListener subscribes l from construction on.
func WithListener(l Listener) Option {
	return func(m *Model) { m.Subscribe(l) }
}

// Model holds the graph state.
type Model struct {
	props     PropertySource
	threshold float64

	blocks map[string]*Block
	order  []string

	conns     []Connection
	connIndex map[edgeKey]string

	composites     map[string]*Composite
	compositeOrder []string
	owner          map[string]string

	drag DragState

	listeners    []listenerEntry
	nextListener int
}

// New returns an empty model. props supplies default properties for placed
// blocks and may be nil.
func New(props PropertySource, opts ...Option) *Model {
	m := &Model{
		props:     props,
		threshold: DefaultThreshold,
	}
	m.reset()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) reset() {
	m.blocks = make(map[string]*Block)
	m.order = nil
	m.conns = nil
	m.connIndex = make(map[edgeKey]string)
	m.composites = make(map[string]*Composite)
	m.compositeOrder = nil
	m.owner = make(map[string]string)
	m.drag = DragState{}
}

// Threshold returns the snapping distance.
func (m *Model) Threshold() float64 { return m.threshold }

// PlaceBlock creates a block of type rt at pos with default properties from
// the property source, as when the user drops a palette item.
func (m *Model) PlaceBlock(rt registry.ResourceType, pos Point) *Block {
	b := NewBlock(idgen.Must(idgen.BlockPrefix), rt, pos, DefaultBlockSize)
	b.Properties = DefaultProperties(m.props, rt)
	m.insertBlock(b)
	m.emitBlocks(OpAdded, b.ID)
	return b
}

// AddBlock inserts b. It reports false for nil blocks, empty ids and ids
// already present.
func (m *Model) AddBlock(b *Block) bool {
	if !m.canInsert(b) {
		return false
	}
	m.insertBlock(b)
	m.emitBlocks(OpAdded, b.ID)
	return true
}

func (m *Model) canInsert(b *Block) bool {
	if b == nil || b.ID == "" {
		return false
	}
	_, exists := m.blocks[b.ID]
	return !exists
}

func (m *Model) insertBlock(b *Block) {
	if b.Properties == nil {
		b.Properties = make(map[string]string)
	}
	m.blocks[b.ID] = b
	m.order = append(m.order, b.ID)
}

// Block returns the block with the given id.
func (m *Model) Block(id string) (*Block, bool) {
	b, ok := m.blocks[id]
	return b, ok
}

// Blocks returns all blocks in insertion order.
func (m *Model) Blocks() []*Block {
	out := make([]*Block, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.blocks[id])
	}
	return out
}

// Len returns the number of blocks.
func (m *Model) Len() int { return len(m.order) }

// RemoveBlock deletes the block and every connection touching it. Unknown ids
// are a no-op.
func (m *Model) RemoveBlock(id string) bool {
	if _, ok := m.blocks[id]; !ok {
		return false
	}
	m.removeBlock(id)
	return true
}

func (m *Model) removeBlock(id string) {
	var dropped []string
	kept := m.conns[:0]
	for _, c := range m.conns {
		if c.SourceBlockID == id || c.TargetBlockID == id {
			delete(m.connIndex, edgeKey{c.SourceBlockID, c.TargetBlockID})
			dropped = append(dropped, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	m.conns = kept

	if cid, ok := m.owner[id]; ok {
		m.composites[cid].removeChild(id)
		delete(m.owner, id)
	}
	if m.drag.Active && m.drag.SourceBlockID == id {
		m.drag = DragState{}
	}

	delete(m.blocks, id)
	for i, bid := range m.order {
		if bid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if len(dropped) > 0 {
		m.emitConnections(OpRemoved, dropped...)
	}
	m.emitBlocks(OpRemoved, id)
}

// UpdateBlockPosition moves a block; its connection points follow.
func (m *Model) UpdateBlockPosition(id string, p Point) bool {
	b, ok := m.blocks[id]
	if !ok {
		return false
	}
	b.setPosition(p)
	m.emitBlocks(OpUpdated, id)
	return true
}

// UpdateBlockSize resizes a block; negative extents clamp to zero.
func (m *Model) UpdateBlockSize(id string, s Size) bool {
	b, ok := m.blocks[id]
	if !ok {
		return false
	}
	b.setSize(s)
	m.emitBlocks(OpUpdated, id)
	return true
}

// UpdateBlockProperty sets one property value.
func (m *Model) UpdateBlockProperty(id, name, value string) bool {
	b, ok := m.blocks[id]
	if !ok || name == "" {
		return false
	}
	b.Properties[name] = value
	m.emitBlocks(OpUpdated, id)
	return true
}

// UpdateBlockLabel sets the display label.
func (m *Model) UpdateBlockLabel(id, label string) bool {
	b, ok := m.blocks[id]
	if !ok {
		return false
	}
	b.Label = label
	m.emitBlocks(OpUpdated, id)
	return true
}

// PropertiesForBlock returns the property definitions for the block's
// resource type. The result is never nil.
func (m *Model) PropertiesForBlock(id string) []schema.PropertyDefinition {
	b, ok := m.blocks[id]
	if !ok || m.props == nil {
		return []schema.PropertyDefinition{}
	}
	defs := m.props.Properties(b.ResourceType)
	if defs == nil {
		return []schema.PropertyDefinition{}
	}
	return defs
}

// AddConnection connects source's output to target's input. Self-loops and
// unknown endpoints are rejected. Adding an existing pair returns the stored
// connection and false.
func (m *Model) AddConnection(sourceID, targetID string) (Connection, bool) {
	if !m.validEdge(sourceID, targetID) {
		return Connection{}, false
	}
	if id, dup := m.connIndex[edgeKey{sourceID, targetID}]; dup {
		c, _ := m.Connection(id)
		return c, false
	}
	c := Connection{
		ID:            idgen.Must(idgen.ConnectionPrefix),
		SourceBlockID: sourceID,
		TargetBlockID: targetID,
	}
	m.insertConnection(c)
	m.emitConnections(OpAdded, c.ID)
	return c, true
}

func (m *Model) validEdge(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}
	_, okS := m.blocks[sourceID]
	_, okT := m.blocks[targetID]
	return okS && okT
}

func (m *Model) insertConnection(c Connection) {
	m.conns = append(m.conns, c)
	m.connIndex[edgeKey{c.SourceBlockID, c.TargetBlockID}] = c.ID
}

// Connection returns the connection with the given id.
func (m *Model) Connection(id string) (Connection, bool) {
	for _, c := range m.conns {
		if c.ID == id {
			return c, true
		}
	}
	return Connection{}, false
}

// RemoveConnection deletes a connection by id; unknown ids are a no-op.
func (m *Model) RemoveConnection(id string) bool {
	for i, c := range m.conns {
		if c.ID != id {
			continue
		}
		m.conns = append(m.conns[:i], m.conns[i+1:]...)
		delete(m.connIndex, edgeKey{c.SourceBlockID, c.TargetBlockID})
		m.emitConnections(OpRemoved, id)
		return true
	}
	return false
}

// Connections returns a copy of all connections in insertion order.
func (m *Model) Connections() []Connection {
	out := make([]Connection, len(m.conns))
	copy(out, m.conns)
	return out
}

// ConnectionsOf returns the connections touching blockID.
func (m *Model) ConnectionsOf(blockID string) []Connection {
	var out []Connection
	for _, c := range m.conns {
		if c.SourceBlockID == blockID || c.TargetBlockID == blockID {
			out = append(out, c)
		}
	}
	return out
}

// Clear removes everything.
func (m *Model) Clear() {
	m.reset()
	m.emitBlocks(OpReset)
	m.emitConnections(OpReset)
}

// Replace swaps the whole graph for blocks and conns in one step, emitting a
// single reset per kind. Invalid blocks and connections are skipped, as are
// connections duplicating an earlier pair. Connections without an id get one.
func (m *Model) Replace(blocks []*Block, conns []Connection) {
	m.reset()
	for _, b := range blocks {
		if m.canInsert(b) {
			m.insertBlock(b)
		}
	}
	for _, c := range conns {
		if !m.validEdge(c.SourceBlockID, c.TargetBlockID) {
			continue
		}
		if _, dup := m.connIndex[edgeKey{c.SourceBlockID, c.TargetBlockID}]; dup {
			continue
		}
		if c.ID == "" {
			c.ID = idgen.Must(idgen.ConnectionPrefix)
		}
		m.insertConnection(c)
	}
	m.emitBlocks(OpReset)
	m.emitConnections(OpReset)
}
