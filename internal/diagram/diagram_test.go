package diagram

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/registry"
)

func sampleModel(t *testing.T) *graph.Model {
	t.Helper()
	m := graph.New(nil)
	role := graph.NewBlock("blk-role", registry.IAMRole, graph.Point{X: 10, Y: 10}, graph.DefaultBlockSize)
	role.Label = "exec"
	fn := graph.NewBlock("blk-fn", registry.LambdaFunction, graph.Point{X: 300, Y: 10}, graph.Size{Width: 200, Height: 100})
	fn.Label = "api"
	fn.Properties["memory_size"] = "256"
	odd := graph.NewBlock("blk-odd", registry.Unknown, graph.Point{}, graph.DefaultBlockSize)
	odd.TypeName = "vendor_widget"
	odd.Label = "w"

	require.True(t, m.AddBlock(role))
	require.True(t, m.AddBlock(fn))
	require.True(t, m.AddBlock(odd))
	_, ok := m.AddConnection("blk-role", "blk-fn")
	require.True(t, ok)

	g, ok := m.AddCompositeWithID("grp-app", "app", graph.Point{X: 5, Y: 5})
	require.True(t, ok)
	g.Properties["team"] = "core"
	require.True(t, m.AddChild(g.ID, fn))
	return m
}

func TestFromModelApplyRoundTrip(t *testing.T) {
	m := sampleModel(t)
	d := FromModel(m, Metadata{Name: "stack"})

	assert.Equal(t, FormatVersion, d.Metadata.Version)
	require.Len(t, d.Nodes, 3)
	assert.Equal(t, "aws_lambda_function", d.Nodes[1].Type)
	assert.Equal(t, "vendor_widget", d.Nodes[2].Type)
	require.Len(t, d.Edges, 1)
	assert.Equal(t, EdgeDependsOn, d.Edges[0].Type)
	require.Len(t, d.Groups, 1)
	assert.Equal(t, []string{"blk-fn"}, d.Groups[0].Children)
	assert.False(t, HasErrors(Validate(d)))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var decoded Diagram
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(d, &decoded); diff != "" {
		t.Fatalf("json round trip (-want +got):\n%s", diff)
	}

	restored := graph.New(nil)
	decoded.Apply(restored)
	again := FromModel(restored, Metadata{Name: "stack"})
	if diff := cmp.Diff(d, again); diff != "" {
		t.Fatalf("model round trip (-want +got):\n%s", diff)
	}

	fn, ok := restored.Block("blk-fn")
	require.True(t, ok)
	assert.Equal(t, registry.LambdaFunction, fn.ResourceType)
	assert.Equal(t, graph.Size{Width: 200, Height: 100}, fn.Size())
	assert.Equal(t, graph.Point{X: 500, Y: 60}, fn.OutputPoint())
	owner, ok := restored.CompositeOf("blk-fn")
	require.True(t, ok)
	assert.Equal(t, "grp-app", owner)
}

func TestValidate(t *testing.T) {
	d := &Diagram{
		Nodes: []Node{
			{ID: "a", Type: "aws_vpc"},
			{ID: "a", Type: "aws_subnet"},
			{ID: "", Type: "aws_subnet"},
			{ID: "b", Type: ""},
			{ID: "c", Type: "vendor_widget"},
		},
		Edges: []Edge{
			{Source: "a", Target: "c"},
			{Source: "a", Target: "c"},
			{Source: "a", Target: "a"},
			{Source: "a", Target: "missing"},
			{Source: "", Target: "a"},
		},
		Groups: []Group{
			{ID: "g1", Children: []string{"a", "nope"}},
			{ID: "g2", Children: []string{"a"}},
		},
	}
	errs := Validate(d)
	require.True(t, HasErrors(errs))

	var messages []string
	var warnings int
	for _, e := range errs {
		messages = append(messages, e.Message)
		if !e.IsError() {
			warnings++
		}
	}
	assert.Contains(t, messages, "metadata.version is required")
	assert.Contains(t, messages, "duplicate node id: a")
	assert.Contains(t, messages, "node at index 2 has empty id")
	assert.Contains(t, messages, "node.type is required")
	assert.Contains(t, messages, "unsupported resource type: vendor_widget")
	assert.Contains(t, messages, "duplicate edge a -> c")
	assert.Contains(t, messages, "edge connects node to itself: a")
	assert.Contains(t, messages, "edge target node not found: missing")
	assert.Contains(t, messages, "edge at index 4 must have source and target")
	assert.Contains(t, messages, "group g1 references unknown node nope")
	assert.Contains(t, messages, "node a belongs to groups g1 and g2")
	assert.Equal(t, 2, warnings)

	assert.Equal(t, EdgeDependsOn, d.Edges[0].Type, "edge type defaults")
	assert.NotNil(t, d.Nodes[0].Properties)

	assert.True(t, HasErrors(Validate(nil)))
}

func TestValidateWarningsOnly(t *testing.T) {
	d := &Diagram{
		Metadata: Metadata{Version: "1.0"},
		Nodes:    []Node{{ID: "w", Type: "vendor_widget"}},
	}
	errs := Validate(d)
	require.Len(t, errs, 1)
	assert.False(t, HasErrors(errs))
}

func TestFromParse(t *testing.T) {
	src := `
variable "name" {}

resource "aws_sqs_queue" "jobs" {
  name = var.name
}

resource "aws_sns_topic" "alerts" {
  name = "alerts"
}

resource "aws_lambda_function" "worker" {
  function_name = "worker"
  dead_letter_config {
    target_arn = aws_sqs_queue.jobs.arn
  }
}
`
	p := parser.New(nil, parser.DefaultOptions())
	res := p.Parse("main.tf", []byte(src))
	d := FromParse(p, res, Metadata{Name: "jobs"})

	assert.Equal(t, FormatVersion, d.Metadata.Version)
	assert.Equal(t, "jobs", d.Metadata.Name)
	require.Len(t, d.Nodes, 3)
	assert.Equal(t, []string{"aws_sqs_queue", "aws_sns_topic", "aws_lambda_function"},
		[]string{d.Nodes[0].Type, d.Nodes[1].Type, d.Nodes[2].Type})
	assert.Equal(t, "jobs", d.Nodes[0].Label)
	assert.Equal(t, graph.Point{X: 40, Y: 40}, d.Nodes[0].Position)
	require.Len(t, d.Edges, 1)
	assert.Equal(t, Edge{ID: d.Edges[0].ID, Source: d.Nodes[0].ID, Target: d.Nodes[2].ID, Type: EdgeDependsOn}, d.Edges[0])
	require.Len(t, d.Variables, 1)
	assert.Equal(t, "name", d.Variables[0].Name)
	assert.False(t, HasErrors(Validate(d)))
}
