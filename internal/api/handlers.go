package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/registry"
	"github.com/tfcanvas/canvas/internal/result"
	"github.com/tfcanvas/canvas/internal/schema"
	"github.com/tfcanvas/canvas/internal/terraform"
	"github.com/tfcanvas/canvas/internal/workspace"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string        `json:"status"`
	Schema schema.Status `json:"schema"`
}

// Health handles GET /health
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Schema: a.catalog.Status()})
}

// ParseResponse is returned by POST /v1/parse.
type ParseResponse struct {
	Diagram  *diagram.Diagram `json:"diagram"`
	Warnings []result.Warning `json:"warnings,omitempty"`
}

// Parse handles POST /v1/parse. The body is configuration text; the optional
// name query parameter is used as the file name in warnings.
func (a *API) Parse(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = result.FileMain
	}
	res := a.parser.Parse(name, body)
	d := diagram.FromParse(a.parser, res, diagram.Metadata{Name: name, SchemaVersion: a.catalog.Status().Version})
	writeJSON(w, r, http.StatusOK, ParseResponse{Diagram: d, Warnings: res.Warnings})
}

// ExportResponse carries generated files as text.
type ExportResponse struct {
	Success  bool              `json:"success"`
	Errors   []result.Error    `json:"errors,omitempty"`
	Warnings []result.Warning  `json:"warnings,omitempty"`
	Files    map[string]string `json:"files,omitempty"`
}

func exportResponse(res *result.ExportResult) (int, ExportResponse) {
	out := ExportResponse{Success: res.Success, Errors: res.Errors, Warnings: res.Warnings}
	if !res.Success {
		return http.StatusUnprocessableEntity, out
	}
	out.Files = make(map[string]string, len(res.Files))
	for name, content := range res.Files {
		out.Files[name] = string(content)
	}
	return http.StatusOK, out
}

// Export handles POST /v1/export
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	var d diagram.Diagram
	if !a.decode(w, r, &d) {
		return
	}
	status, out := exportResponse(terraform.NewExporter(a.export).Export(&d))
	writeJSON(w, r, status, out)
}

// SchemaVersionsResponse is returned by GET /v1/schema/versions.
type SchemaVersionsResponse struct {
	Versions []string      `json:"versions"`
	Active   schema.Status `json:"active"`
}

// SchemaVersions handles GET /v1/schema/versions
func (a *API) SchemaVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := a.catalog.Versions(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "listing schema versions: "+err.Error())
		return
	}
	if versions == nil {
		versions = []string{}
	}
	writeJSON(w, r, http.StatusOK, SchemaVersionsResponse{Versions: versions, Active: a.catalog.Status()})
}

type reloadRequest struct {
	Version string `json:"version"`
}

// ReloadSchema handles POST /v1/schema/reload. An empty version means latest.
// A failed load answers 200 with a fallback status.
func (a *API) ReloadSchema(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if !a.decode(w, r, &req) {
		return
	}
	writeJSON(w, r, http.StatusOK, a.ws.ReloadSchema(r.Context(), req.Version))
}

// ResourceResponse describes one resource type.
type ResourceResponse struct {
	Type        string                      `json:"type"`
	DisplayName string                      `json:"display_name"`
	Category    registry.Category           `json:"category"`
	Properties  []schema.PropertyDefinition `json:"properties"`
}

// SchemaResource handles GET /v1/schema/resources/{type}
func (a *API) SchemaResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "type")
	rt := registry.ByCanonicalName(name)
	if !rt.IsKnown() {
		writeError(w, r, http.StatusNotFound, "unknown resource type "+name)
		return
	}
	writeJSON(w, r, http.StatusOK, ResourceResponse{
		Type:        rt.CanonicalName(),
		DisplayName: rt.DisplayName(),
		Category:    rt.Category(),
		Properties:  a.catalog.Properties(rt),
	})
}

// GetWorkspace handles GET /v1/workspace
func (a *API) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	d, err := a.ws.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

// PutWorkspace handles PUT /v1/workspace; the body replaces the graph.
func (a *API) PutWorkspace(w http.ResponseWriter, r *http.Request) {
	var d diagram.Diagram
	if !a.decode(w, r, &d) {
		return
	}
	if errs := diagram.Validate(&d); diagram.HasErrors(errs) {
		writeJSON(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	if err := a.ws.Load(r.Context(), &d); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	a.GetWorkspace(w, r)
}

type importRequest struct {
	Locator string `json:"locator"`
}

var importStatus = map[workspace.Status]int{
	workspace.Imported:       http.StatusOK,
	workspace.InvalidLocator: http.StatusBadRequest,
	workspace.FetchFailed:    http.StatusBadGateway,
	workspace.NothingFound:   http.StatusNotFound,
	workspace.Superseded:     http.StatusConflict,
}

// ImportWorkspace handles POST /v1/workspace/import
func (a *API) ImportWorkspace(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !a.decode(w, r, &req) {
		return
	}
	out, err := a.ws.Import(r.Context(), req.Locator)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, r, importStatus[out.Status], out)
}

// ExportWorkspace handles GET /v1/workspace/export
func (a *API) ExportWorkspace(w http.ResponseWriter, r *http.Request) {
	d, err := a.ws.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	status, out := exportResponse(terraform.NewExporter(a.export).Export(d))
	writeJSON(w, r, status, out)
}

func (a *API) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, r, http.StatusBadRequest, "reading body: "+err.Error())
		}
		return nil, false
	}
	return body, true
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := a.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}
