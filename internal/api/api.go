// Package api exposes the parser, the schema catalog, the exporter and the
// shared workspace over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/schema"
	"github.com/tfcanvas/canvas/internal/terraform"
	"github.com/tfcanvas/canvas/internal/workspace"
)

// DefaultMaxBody caps request bodies.
const DefaultMaxBody = 8 << 20

// Options configures the API.
type Options struct {
	Parser  parser.Options
	Export  terraform.Options
	MaxBody int64
	Timeout time.Duration
}

// API holds the handler dependencies.
type API struct {
	ws      *workspace.Workspace
	catalog *schema.Catalog
	parser  *parser.ConfigParser
	export  terraform.Options
	maxBody int64
	timeout time.Duration
	log     *slog.Logger
}

// New returns handlers over ws. The workspace's catalog backs parsing,
// schema lookups and export typing.
func New(ws *workspace.Workspace, log *slog.Logger, opts Options) *API {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	cat := ws.Catalog()
	opts.Export.Props = cat
	return &API{
		ws:      ws,
		catalog: cat,
		parser:  parser.New(cat, opts.Parser),
		export:  opts.Export,
		maxBody: opts.MaxBody,
		timeout: opts.Timeout,
		log:     log,
	}
}

// Router returns the HTTP routes.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.timeout))

	r.Get("/health", a.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", a.Parse)
		r.Post("/export", a.Export)
		r.Route("/schema", func(r chi.Router) {
			r.Get("/versions", a.SchemaVersions)
			r.Post("/reload", a.ReloadSchema)
			r.Get("/resources/{type}", a.SchemaResource)
		})
		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", a.GetWorkspace)
			r.Put("/", a.PutWorkspace)
			r.Post("/import", a.ImportWorkspace)
			r.Get("/export", a.ExportWorkspace)
		})
	})
	return r
}

// requestLogger puts a request-scoped logger into the context and logs each
// request once it completes.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := a.log.With("request_id", middleware.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctxlog.WithLogger(r.Context(), l)))
		l.Info("Request handled.", "status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.FromContext(r.Context()).Error("Failed to encode response.", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
