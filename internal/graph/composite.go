package graph

import "github.com/tfcanvas/canvas/internal/idgen"

// Composite groups blocks that move together. Its children are arena blocks
// it owns exclusively: removing the composite removes them.
type Composite struct {
	ID         string
	Name       string
	Properties map[string]string

	position Point
	children []string
}

// Position is the composite's anchor.
func (c *Composite) Position() Point { return c.position }

// Children returns the ids of the owned blocks in insertion order.
func (c *Composite) Children() []string {
	out := make([]string, len(c.children))
	copy(out, c.children)
	return out
}

func (c *Composite) removeChild(id string) {
	for i, cid := range c.children {
		if cid == id {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// AddComposite creates an empty composite at pos.
func (m *Model) AddComposite(name string, pos Point) *Composite {
	c := &Composite{
		ID:         idgen.Must(idgen.CompositePrefix),
		Name:       name,
		Properties: make(map[string]string),
		position:   pos,
	}
	m.insertComposite(c)
	m.emitBlocks(OpAdded, c.ID)
	return c
}

// AddCompositeWithID inserts a composite with a known id, as when restoring a
// diagram. It reports false if the id is empty or taken.
func (m *Model) AddCompositeWithID(id, name string, pos Point) (*Composite, bool) {
	if id == "" {
		return nil, false
	}
	if _, exists := m.composites[id]; exists {
		return nil, false
	}
	c := &Composite{ID: id, Name: name, Properties: make(map[string]string), position: pos}
	m.insertComposite(c)
	m.emitBlocks(OpAdded, c.ID)
	return c, true
}

func (m *Model) insertComposite(c *Composite) {
	m.composites[c.ID] = c
	m.compositeOrder = append(m.compositeOrder, c.ID)
}

// Composite returns the composite with the given id.
func (m *Model) Composite(id string) (*Composite, bool) {
	c, ok := m.composites[id]
	return c, ok
}

// Composites returns all composites in insertion order.
func (m *Model) Composites() []*Composite {
	out := make([]*Composite, 0, len(m.compositeOrder))
	for _, id := range m.compositeOrder {
		out = append(out, m.composites[id])
	}
	return out
}

// CompositeOf returns the id of the composite owning blockID.
func (m *Model) CompositeOf(blockID string) (string, bool) {
	id, ok := m.owner[blockID]
	return id, ok
}

// AddChild gives b to the composite. b is inserted into the graph if it is
// not there yet; a block already owned by a composite cannot be added.
func (m *Model) AddChild(compositeID string, b *Block) bool {
	c, ok := m.composites[compositeID]
	if !ok || b == nil || b.ID == "" {
		return false
	}
	if _, owned := m.owner[b.ID]; owned {
		return false
	}
	existing, inGraph := m.blocks[b.ID]
	if inGraph && existing != b {
		return false
	}
	if !inGraph {
		m.insertBlock(b)
	}
	c.children = append(c.children, b.ID)
	m.owner[b.ID] = compositeID
	if inGraph {
		m.emitBlocks(OpUpdated, compositeID, b.ID)
	} else {
		m.emitBlocks(OpAdded, b.ID)
	}
	return true
}

// RemoveChild destroys a child block of the composite, with its connections.
func (m *Model) RemoveChild(compositeID, blockID string) bool {
	if m.owner[blockID] != compositeID || compositeID == "" {
		return false
	}
	m.removeBlock(blockID)
	return true
}

// SetCompositePosition moves the composite to p and every child by the same
// delta, so children keep their offsets from the composite.
func (m *Model) SetCompositePosition(id string, p Point) bool {
	c, ok := m.composites[id]
	if !ok {
		return false
	}
	delta := p.Sub(c.position)
	for _, cid := range c.children {
		b := m.blocks[cid]
		b.setPosition(b.position.Add(delta))
	}
	c.position = p

	ids := append([]string{id}, c.children...)
	m.emitBlocks(OpUpdated, ids...)
	return true
}

// MoveComposite translates the composite and its children by delta.
func (m *Model) MoveComposite(id string, delta Point) bool {
	c, ok := m.composites[id]
	if !ok {
		return false
	}
	return m.SetCompositePosition(id, c.position.Add(delta))
}

// RemoveComposite deletes the composite and all of its children.
func (m *Model) RemoveComposite(id string) bool {
	c, ok := m.composites[id]
	if !ok {
		return false
	}
	for _, cid := range c.Children() {
		m.removeBlock(cid)
	}
	delete(m.composites, id)
	for i, gid := range m.compositeOrder {
		if gid == id {
			m.compositeOrder = append(m.compositeOrder[:i], m.compositeOrder[i+1:]...)
			break
		}
	}
	m.emitBlocks(OpRemoved, id)
	return true
}
