package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/diagram"
)

func nodes(ids ...string) []diagram.Node {
	out := make([]diagram.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, diagram.Node{ID: id, Type: "aws_vpc"})
	}
	return out
}

func TestResolve(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: nodes("fn", "role", "vpc", "subnet", "logs"),
		Edges: []diagram.Edge{
			{Source: "vpc", Target: "subnet"},
			{Source: "subnet", Target: "fn"},
			{Source: "role", Target: "fn"},
			{Source: "role", Target: "fn"},
			{Source: "logs", Target: "logs"},
			{Source: "ghost", Target: "fn"},
		},
	}
	ordered, tiers, err := Resolve(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"role", "vpc", "logs", "subnet", "fn"}, ordered)
	assert.Equal(t, [][]string{{"role", "vpc", "logs"}, {"subnet"}, {"fn"}}, tiers)
}

func TestResolveCycle(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: nodes("a", "b", "c"),
		Edges: []diagram.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "b"},
		},
	}
	_, _, err := Resolve(d)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestResolveEmpty(t *testing.T) {
	ordered, tiers, err := Resolve(&diagram.Diagram{})
	require.NoError(t, err)
	assert.Empty(t, ordered)
	assert.Empty(t, tiers)

	_, _, err = Resolve(nil)
	assert.NoError(t, err)
}
