package terraform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/schema"
)

func TestExportEdgeImpliedReferences(t *testing.T) {
	d := &diagram.Diagram{
		Metadata: diagram.Metadata{Version: diagram.FormatVersion},
		Nodes: []diagram.Node{
			{ID: "n1", Type: "aws_vpc", Label: "main", Properties: map[string]string{"cidr_block": "10.0.0.0/16"}},
			{ID: "n2", Type: "aws_subnet", Label: "public", Properties: map[string]string{"cidr_block": "10.0.1.0/24"}},
			{ID: "n3", Type: "aws_security_group", Label: "web"},
			{ID: "n4", Type: "aws_security_group", Label: "ssh"},
			{ID: "n5", Type: "aws_instance", Label: "box"},
			{ID: "n6", Type: "aws_iam_role", Label: "exec"},
			{ID: "n7", Type: "aws_lambda_function", Label: "fn", Properties: map[string]string{"function_name": "fn"}},
			{ID: "n8", Type: "aws_subnet", Label: "pinned", Properties: map[string]string{"vpc_id": "vpc-123"}},
		},
		Edges: []diagram.Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n3", Target: "n5"},
			{ID: "e3", Source: "n4", Target: "n5"},
			{ID: "e4", Source: "n2", Target: "n5"},
			{ID: "e5", Source: "n6", Target: "n7"},
			{ID: "e6", Source: "n1", Target: "n8"},
			{ID: "e7", Source: "n1", Target: "n3"},
		},
	}
	catalog := schema.NewCatalog(nil)
	opts := DefaultOptions()
	opts.Props = catalog
	res := NewExporter(opts).Export(d)
	require.True(t, res.Success, "%v", res.Errors)

	main := string(res.Files["main.tf"])
	assert.Contains(t, main, "vpc_id     = aws_vpc.main.id")
	assert.Contains(t, main, "subnet_id              = aws_subnet.public.id")
	assert.Contains(t, main, "vpc_security_group_ids = [aws_security_group.web.id, aws_security_group.ssh.id]")
	assert.Contains(t, main, "role          = aws_iam_role.exec.arn")
	// an explicit value wins and the edge stays an ordering constraint
	assert.Contains(t, main, `vpc_id     = "vpc-123"`)
	assert.Contains(t, main, "depends_on = [aws_vpc.main]")

	for _, w := range res.Warnings {
		assert.NotEqual(t, "n7", w.NodeID, "role is filled by the edge: %s", w.Message)
	}
}
