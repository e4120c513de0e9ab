package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/importer"
	"github.com/tfcanvas/canvas/internal/logger"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/schema"
	"github.com/tfcanvas/canvas/internal/workspace"
)

const stackSrc = `
variable "queue_name" {
  default = "jobs"
}

resource "aws_sqs_queue" "jobs" {
  name = var.queue_name
}

resource "aws_lambda_function" "worker" {
  function_name = "worker"
  role          = "arn:aws:iam::123456789012:role/worker"
  handler       = "index.handler"
  runtime       = "nodejs20.x"
  environment {
    variables = {
      QUEUE_URL = aws_sqs_queue.jobs.url
    }
  }
}
`

type staticFetcher map[string][]parser.File

func (f staticFetcher) Fetch(_ context.Context, loc importer.Locator) ([]parser.File, error) {
	return f[loc.Repo], nil
}

func newTestAPI(t *testing.T, opts Options) http.Handler {
	t.Helper()
	ws := workspace.New(workspace.Config{
		Catalog: schema.NewCatalog(nil),
		Fetcher: staticFetcher{"infra": {{Name: "main.tf", Content: []byte(stackSrc)}}},
	})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = ws.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return New(ws, logger.Discard(), opts).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestAPI(t, Options{})
	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "ok", got.Status)
	assert.True(t, got.Schema.Fallback)
}

func TestParse(t *testing.T) {
	h := newTestAPI(t, Options{})
	rec := do(t, h, http.MethodPost, "/v1/parse?name=stack.tf", stackSrc)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ParseResponse](t, rec)
	assert.Equal(t, "stack.tf", got.Diagram.Metadata.Name)
	require.Len(t, got.Diagram.Nodes, 2)
	assert.Equal(t, "aws_sqs_queue", got.Diagram.Nodes[0].Type)
	assert.Equal(t, "${var.queue_name}", got.Diagram.Nodes[0].Properties["name"])
	require.Len(t, got.Diagram.Edges, 1)
	assert.Equal(t, got.Diagram.Nodes[0].ID, got.Diagram.Edges[0].Source)
	require.Len(t, got.Diagram.Variables, 1)
	assert.Empty(t, got.Warnings)
}

func TestParse_BrokenInputStillAnswers(t *testing.T) {
	h := newTestAPI(t, Options{})
	rec := do(t, h, http.MethodPost, "/v1/parse", `resource "aws_s3_bucket" {`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ParseResponse](t, rec)
	assert.Empty(t, got.Diagram.Nodes)
	assert.NotEmpty(t, got.Warnings)
}

func TestParse_BodyTooLarge(t *testing.T) {
	h := newTestAPI(t, Options{MaxBody: 16})
	rec := do(t, h, http.MethodPost, "/v1/parse", stackSrc)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestExport(t *testing.T) {
	h := newTestAPI(t, Options{})
	parsed := decodeBody[ParseResponse](t, do(t, h, http.MethodPost, "/v1/parse", stackSrc))
	body, err := json.Marshal(parsed.Diagram)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/v1/export", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[ExportResponse](t, rec)
	assert.True(t, got.Success)
	require.Contains(t, got.Files, "main.tf")
	assert.Contains(t, got.Files["main.tf"], `resource "aws_sqs_queue" "jobs"`)
	assert.Contains(t, got.Files["main.tf"], "aws_sqs_queue.jobs.url")
	assert.Contains(t, got.Files["variables.tf"], `variable "queue_name"`)
}

func TestExport_Errors(t *testing.T) {
	h := newTestAPI(t, Options{})

	rec := do(t, h, http.MethodPost, "/v1/export", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorResponse](t, rec).Error, "invalid request payload")

	rec = do(t, h, http.MethodPost, "/v1/export", `{"metadata":{},"nodes":[],"edges":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decodeBody[ExportResponse](t, rec)
	assert.False(t, got.Success)
	assert.NotEmpty(t, got.Errors)
	assert.Empty(t, got.Files)
}

func TestSchema(t *testing.T) {
	h := newTestAPI(t, Options{})

	rec := do(t, h, http.MethodGet, "/v1/schema/versions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	versions := decodeBody[SchemaVersionsResponse](t, rec)
	assert.Empty(t, versions.Versions)
	assert.True(t, versions.Active.Fallback)

	rec = do(t, h, http.MethodGet, "/v1/schema/resources/aws_lambda_function", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[ResourceResponse](t, rec)
	assert.Equal(t, "Lambda Function", res.DisplayName)
	assert.EqualValues(t, "compute", res.Category)
	assert.NotEmpty(t, res.Properties)

	rec = do(t, h, http.MethodGet, "/v1/schema/resources/aws_made_up", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/schema/reload", `{"version":"5.0.0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[schema.Status](t, rec)
	assert.True(t, st.Fallback)
	assert.Equal(t, "5.0.0", st.Version)
}

func TestWorkspaceImport(t *testing.T) {
	h := newTestAPI(t, Options{})

	for _, tc := range []struct {
		locator string
		code    int
		status  workspace.Status
	}{
		{"definitely not a repo", http.StatusBadRequest, workspace.InvalidLocator},
		{"acme/empty", http.StatusNotFound, workspace.NothingFound},
		{"https://github.com/acme/infra", http.StatusOK, workspace.Imported},
	} {
		t.Run(tc.locator, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/workspace/import", `{"locator":"`+tc.locator+`"}`)
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
			assert.Equal(t, tc.status, decodeBody[workspace.Outcome](t, rec).Status)
		})
	}

	rec := do(t, h, http.MethodGet, "/v1/workspace", "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeBody[diagram.Diagram](t, rec)
	assert.Len(t, d.Nodes, 2)
	assert.Len(t, d.Edges, 1)

	rec = do(t, h, http.MethodGet, "/v1/workspace/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decodeBody[ExportResponse](t, rec).Files["main.tf"], `resource "aws_lambda_function" "worker"`)
}

func TestWorkspacePut(t *testing.T) {
	h := newTestAPI(t, Options{})
	parsed := decodeBody[ParseResponse](t, do(t, h, http.MethodPost, "/v1/parse", stackSrc))
	body, err := json.Marshal(parsed.Diagram)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPut, "/v1/workspace", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	d := decodeBody[diagram.Diagram](t, rec)
	assert.Equal(t, parsed.Diagram.Nodes, d.Nodes)

	bad := `{"metadata":{"version":"1.0"},"nodes":[{"id":"a","type":"aws_sqs_queue"}],"edges":[{"id":"e","source":"a","target":"a"}]}`
	rec = do(t, h, http.MethodPut, "/v1/workspace", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
