package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/schema"
)

type staticProps map[registry.ResourceType][]schema.PropertyDefinition

func (s staticProps) Properties(rt registry.ResourceType) []schema.PropertyDefinition {
	return s[rt]
}

type recorder struct {
	blocks []Change
	conns  []Change
}

func (r *recorder) OnBlocksChanged(c Change)      { r.blocks = append(r.blocks, c) }
func (r *recorder) OnConnectionsChanged(c Change) { r.conns = append(r.conns, c) }

func newBlockAt(id string, x, y float64) *Block {
	return NewBlock(id, registry.LambdaFunction, Point{X: x, Y: y}, DefaultBlockSize)
}

func assertPoints(t *testing.T, b *Block) {
	t.Helper()
	pos, size := b.Position(), b.Size()
	assert.Equal(t, Point{X: pos.X, Y: pos.Y + size.Height/2}, b.InputPoint())
	assert.Equal(t, Point{X: pos.X + size.Width, Y: pos.Y + size.Height/2}, b.OutputPoint())
}

func TestConnectionPointsFollowGeometry(t *testing.T) {
	m := New(nil)
	b := m.PlaceBlock(registry.S3Bucket, Point{X: 10, Y: 20})
	assertPoints(t, b)

	moves := []Point{{X: 0, Y: 0}, {X: -50, Y: 300.5}, {X: 1e6, Y: 3}}
	for _, p := range moves {
		require.True(t, m.UpdateBlockPosition(b.ID, p))
		assertPoints(t, b)
	}

	sizes := []Size{{Width: 0, Height: 0}, {Width: 10, Height: 33}, {Width: 250, Height: 120}}
	for _, s := range sizes {
		require.True(t, m.UpdateBlockSize(b.ID, s))
		assert.Equal(t, s, b.Size())
		assertPoints(t, b)
	}

	require.True(t, m.UpdateBlockSize(b.ID, Size{Width: -5, Height: -1}))
	assert.Equal(t, Size{}, b.Size())
	assertPoints(t, b)

	assert.False(t, m.UpdateBlockPosition("missing", Point{}))
	assert.False(t, m.UpdateBlockSize("missing", Size{}))
}

func TestPlaceBlockDefaults(t *testing.T) {
	props := staticProps{
		registry.LambdaFunction: {
			{Name: "function_name", Kind: schema.KindString, Required: true},
			{Name: "runtime", Kind: schema.KindEnum, Default: "python3.12"},
		},
	}
	m := New(props)
	b := m.PlaceBlock(registry.LambdaFunction, Point{})

	assert.Regexp(t, `^blk-`, b.ID)
	assert.Equal(t, registry.CategoryCompute, b.Category)
	assert.Equal(t, "aws_lambda_function", b.TypeName)
	assert.Equal(t, "Lambda Function", b.Label)
	assert.Equal(t, map[string]string{"function_name": "", "runtime": "python3.12"}, b.Properties)
	assert.Len(t, m.PropertiesForBlock(b.ID), 2)

	other := m.PlaceBlock(registry.SQSQueue, Point{})
	assert.NotNil(t, m.PropertiesForBlock(other.ID))
	assert.Empty(t, m.PropertiesForBlock(other.ID))
	assert.NotNil(t, m.PropertiesForBlock("missing"))
	assert.NotNil(t, New(nil).PropertiesForBlock("x"))
}

func TestAddBlockRejectsDuplicates(t *testing.T) {
	m := New(nil)
	require.True(t, m.AddBlock(newBlockAt("a", 0, 0)))
	assert.False(t, m.AddBlock(newBlockAt("a", 5, 5)))
	assert.False(t, m.AddBlock(nil))
	assert.False(t, m.AddBlock(&Block{}))
	assert.Equal(t, 1, m.Len())

	b, ok := m.Block("a")
	require.True(t, ok)
	assert.Equal(t, Point{}, b.Position())
}

func TestAddConnectionIdempotent(t *testing.T) {
	m := New(nil)
	m.AddBlock(newBlockAt("a", 0, 0))
	m.AddBlock(newBlockAt("b", 300, 0))

	first, ok := m.AddConnection("a", "b")
	require.True(t, ok)
	again, ok := m.AddConnection("a", "b")
	assert.False(t, ok)
	assert.Equal(t, first, again)
	assert.Len(t, m.Connections(), 1)

	_, ok = m.AddConnection("b", "a")
	assert.True(t, ok, "reverse direction is a different pair")
	assert.Len(t, m.Connections(), 2)
}

func TestAddConnectionRejects(t *testing.T) {
	m := New(nil)
	m.AddBlock(newBlockAt("a", 0, 0))

	_, ok := m.AddConnection("a", "a")
	assert.False(t, ok)
	_, ok = m.AddConnection("a", "missing")
	assert.False(t, ok)
	_, ok = m.AddConnection("missing", "a")
	assert.False(t, ok)
	assert.Empty(t, m.Connections())
}

func TestRemoveBlockCascades(t *testing.T) {
	m := New(nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		m.AddBlock(newBlockAt(id, 0, 0))
	}
	m.AddConnection("a", "b")
	m.AddConnection("b", "c")
	m.AddConnection("c", "b")
	keep, _ := m.AddConnection("c", "d")

	rec := &recorder{}
	m.Subscribe(rec)

	require.True(t, m.RemoveBlock("b"))
	for _, c := range m.Connections() {
		assert.NotEqual(t, "b", c.SourceBlockID)
		assert.NotEqual(t, "b", c.TargetBlockID)
	}
	assert.Equal(t, []Connection{keep}, m.Connections())
	_, ok := m.Block("b")
	assert.False(t, ok)

	require.Len(t, rec.conns, 1)
	assert.Equal(t, OpRemoved, rec.conns[0].Op)
	assert.Len(t, rec.conns[0].IDs, 3)
	assert.Equal(t, []Change{{Op: OpRemoved, IDs: []string{"b"}}}, rec.blocks)

	assert.False(t, m.RemoveBlock("b"))
	assert.Len(t, rec.blocks, 1)
}

func TestRemoveConnection(t *testing.T) {
	m := New(nil)
	m.AddBlock(newBlockAt("a", 0, 0))
	m.AddBlock(newBlockAt("b", 0, 0))
	c, _ := m.AddConnection("a", "b")

	assert.True(t, m.RemoveConnection(c.ID))
	assert.False(t, m.RemoveConnection(c.ID))
	assert.Empty(t, m.Connections())

	_, ok := m.AddConnection("a", "b")
	assert.True(t, ok, "pair is free again after removal")
}

func TestUpdateBlockProperty(t *testing.T) {
	m := New(nil)
	m.AddBlock(newBlockAt("a", 0, 0))

	assert.True(t, m.UpdateBlockProperty("a", "memory_size", "256"))
	assert.False(t, m.UpdateBlockProperty("a", "", "x"))
	assert.False(t, m.UpdateBlockProperty("missing", "memory_size", "1"))
	assert.True(t, m.UpdateBlockLabel("a", "api"))

	b, _ := m.Block("a")
	assert.Equal(t, "256", b.Properties["memory_size"])
	assert.Equal(t, "api", b.Label)
}

func TestListenerNotifications(t *testing.T) {
	rec := &recorder{}
	m := New(nil, WithListener(rec))

	m.AddBlock(newBlockAt("a", 0, 0))
	m.AddBlock(newBlockAt("b", 0, 0))
	c, _ := m.AddConnection("a", "b")
	m.AddConnection("a", "b")
	m.UpdateBlockPosition("a", Point{X: 1})

	assert.Equal(t, []Change{
		{Op: OpAdded, IDs: []string{"a"}},
		{Op: OpAdded, IDs: []string{"b"}},
		{Op: OpUpdated, IDs: []string{"a"}},
	}, rec.blocks)
	assert.Equal(t, []Change{{Op: OpAdded, IDs: []string{c.ID}}}, rec.conns)

	var funcs []Change
	unsubscribe := m.Subscribe(ListenerFuncs{Blocks: func(c Change) { funcs = append(funcs, c) }})
	m.Clear()
	unsubscribe()
	m.AddBlock(newBlockAt("c", 0, 0))

	assert.Equal(t, []Change{{Op: OpReset}}, funcs)
	assert.Equal(t, Change{Op: OpReset}, rec.conns[len(rec.conns)-1])
}

func TestReplace(t *testing.T) {
	m := New(nil)
	m.AddBlock(newBlockAt("old", 0, 0))

	rec := &recorder{}
	m.Subscribe(rec)

	m.Replace(
		[]*Block{newBlockAt("a", 0, 0), newBlockAt("b", 0, 0), newBlockAt("a", 9, 9), nil},
		[]Connection{
			{SourceBlockID: "a", TargetBlockID: "b"},
			{ID: "con-dup", SourceBlockID: "a", TargetBlockID: "b"},
			{ID: "con-self", SourceBlockID: "a", TargetBlockID: "a"},
			{ID: "con-dangling", SourceBlockID: "a", TargetBlockID: "old"},
		},
	)

	assert.Equal(t, 2, m.Len())
	_, ok := m.Block("old")
	assert.False(t, ok)
	conns := m.Connections()
	require.Len(t, conns, 1)
	assert.Regexp(t, `^con-`, conns[0].ID)

	assert.Equal(t, []Change{{Op: OpReset}}, rec.blocks)
	assert.Equal(t, []Change{{Op: OpReset}}, rec.conns)
}
