package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/logger"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/schema"
)

const src = `
resource "aws_s3_bucket" "logs" {
  bucket = "logs"
}

resource "aws_cloudfront_distribution" "cdn" {
  enabled = true
  logging_config {
    bucket = aws_s3_bucket.logs.bucket_domain_name
  }
}
`

func newHandler() *handler {
	cat := schema.NewCatalog(nil)
	return &handler{catalog: cat, parser: parser.New(cat, parser.DefaultOptions()), log: logger.Discard()}
}

func invoke(t *testing.T, event LambdaEvent) (APIGatewayResponse, LambdaResponse) {
	t.Helper()
	resp, err := newHandler().handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	var out LambdaResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return resp, out
}

func TestHandle(t *testing.T) {
	resp, out := invoke(t, LambdaEvent{Body: src})
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, out.Success)
	require.NotNil(t, out.Diagram)
	require.Len(t, out.Diagram.Nodes, 2)
	assert.Equal(t, "main.tf", out.Diagram.Metadata.Name)
	require.Len(t, out.Diagram.Edges, 1)
	assert.Equal(t, out.Diagram.Nodes[0].ID, out.Diagram.Edges[0].Source)
}

func TestHandle_Base64(t *testing.T) {
	resp, out := invoke(t, LambdaEvent{Body: base64.StdEncoding.EncodeToString([]byte(src)), IsBase64: true, Name: "cdn.tf"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "cdn.tf", out.Diagram.Metadata.Name)

	resp, out = invoke(t, LambdaEvent{Body: "%%%", IsBase64: true})
	assert.Equal(t, 400, resp.StatusCode)
	assert.False(t, out.Success)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "invalid_input", out.Errors[0].Type)
}

func TestHandle_NothingFound(t *testing.T) {
	resp, out := invoke(t, LambdaEvent{Body: "locals {\n  x = 1\n}\n"})
	assert.Equal(t, 422, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Nil(t, out.Diagram)
	assert.Equal(t, "nothing_found", out.Errors[0].Type)
}
