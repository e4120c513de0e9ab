// Package workspace owns the graph model and serializes every mutation onto
// one goroutine. Network and parsing work runs on the caller's goroutine and
// is published back to the loop as a single batch.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/importer"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/schema"
)

// ErrStopped is returned once Run has returned.
var ErrStopped = errors.New("workspace stopped")

// Config wires a Workspace. Catalog is required; Fetcher is only needed for
// Import.
type Config struct {
	Catalog   *schema.Catalog
	Fetcher   importer.Fetcher
	Parser    parser.Options
	Listeners []graph.Listener
	Metadata  diagram.Metadata
}

// Workspace is the single mutation timeline around a graph.Model.
type Workspace struct {
	catalog *schema.Catalog
	fetcher importer.Fetcher
	parser  *parser.ConfigParser

	ops  chan func()
	done chan struct{}

	// owned by the loop
	model      *graph.Model
	generation uint64
	resources  []parser.Resource
	variables  []parser.Variable
	meta       diagram.Metadata
}

// New returns a workspace. Call Run before using it.
func New(cfg Config) *Workspace {
	if cfg.Catalog == nil {
		cfg.Catalog = schema.NewCatalog(nil)
	}
	if cfg.Parser == (parser.Options{}) {
		cfg.Parser = parser.DefaultOptions()
	}
	var opts []graph.Option
	for _, l := range cfg.Listeners {
		opts = append(opts, graph.WithListener(l))
	}
	return &Workspace{
		catalog: cfg.Catalog,
		fetcher: cfg.Fetcher,
		parser:  parser.New(cfg.Catalog, cfg.Parser),
		ops:     make(chan func()),
		done:    make(chan struct{}),
		model:   graph.New(cfg.Catalog, opts...),
		meta:    cfg.Metadata,
	}
}

// Run processes mutations until ctx is done. It must be called exactly once.
func (w *Workspace) Run(ctx context.Context) error {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-w.ops:
			op()
		}
	}
}

// call runs fn on the loop and waits for it.
func (w *Workspace) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	op := func() {
		defer close(finished)
		fn()
	}
	select {
	case w.ops <- op:
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Do runs fn against the model on the mutation loop. fn must not retain m.
func (w *Workspace) Do(ctx context.Context, fn func(m *graph.Model)) error {
	return w.call(ctx, func() { fn(w.model) })
}

// Snapshot returns a detached copy of the current graph and variables.
func (w *Workspace) Snapshot(ctx context.Context) (*diagram.Diagram, error) {
	var d *diagram.Diagram
	err := w.call(ctx, func() {
		meta := w.meta
		meta.SchemaVersion = w.catalog.Status().Version
		d = diagram.FromModel(w.model, meta)
		d.Variables = append([]parser.Variable(nil), w.variables...)
	})
	return d, err
}

// Resources returns the records of the last published import.
func (w *Workspace) Resources(ctx context.Context) ([]parser.Resource, error) {
	var out []parser.Resource
	err := w.call(ctx, func() {
		out = append([]parser.Resource(nil), w.resources...)
	})
	return out, err
}

// Load replaces the graph with d, as when opening a saved diagram. Any import
// still in flight is superseded.
func (w *Workspace) Load(ctx context.Context, d *diagram.Diagram) error {
	return w.call(ctx, func() {
		w.generation++
		w.resources = nil
		w.variables = append([]parser.Variable(nil), d.Variables...)
		w.meta = d.Metadata
		d.Apply(w.model)
	})
}

// ReloadSchema installs the schema document for version ("" means latest).
// Loading happens on the caller's goroutine; the catalog is safe for
// concurrent use so the loop keeps running meanwhile.
func (w *Workspace) ReloadSchema(ctx context.Context, version string) schema.Status {
	return w.catalog.Reload(ctx, version)
}

// Catalog returns the property catalog shared with the model.
func (w *Workspace) Catalog() *schema.Catalog { return w.catalog }

// begin supersedes any in-flight import and clears the graph.
func (w *Workspace) begin(ctx context.Context, name string) (uint64, error) {
	var gen uint64
	err := w.call(ctx, func() {
		w.generation++
		gen = w.generation
		w.resources = nil
		w.variables = nil
		w.meta.Name = name
		w.model.Clear()
	})
	return gen, err
}

// publish installs a parsed import if gen is still the current generation.
func (w *Workspace) publish(ctx context.Context, gen uint64, res *parser.Result) (bool, error) {
	blocks, conns := w.parser.Convert(res.Resources)
	current := false
	err := w.call(ctx, func() {
		if gen != w.generation {
			return
		}
		current = true
		w.resources = res.Resources
		w.variables = res.Variables
		w.model.Replace(blocks, conns)
	})
	return current, err
}

// stillCurrent reports whether gen has not been superseded.
func (w *Workspace) stillCurrent(ctx context.Context, gen uint64) (bool, error) {
	current := false
	err := w.call(ctx, func() { current = gen == w.generation })
	return current, err
}

// Import fetches the configuration under locatorText and replaces the graph
// with it. The graph is cleared as soon as the locator is accepted. If a newer
// import or load starts before this one finishes, its result is discarded and
// the outcome is Superseded. The error is non-nil only when the loop could not
// be reached.
func (w *Workspace) Import(ctx context.Context, locatorText string) (Outcome, error) {
	loc, ok := importer.ParseLocator(locatorText)
	if !ok {
		return Outcome{Status: InvalidLocator, Message: MsgInvalidLocator}, nil
	}
	if w.fetcher == nil {
		return Outcome{}, errors.New("workspace has no fetcher")
	}
	log := ctxlog.FromContext(ctx).With("locator", loc.String())

	gen, err := w.begin(ctx, loc.String())
	if err != nil {
		return Outcome{}, err
	}

	files, fetchErr := w.fetcher.Fetch(ctx, loc)
	if fetchErr != nil {
		current, err := w.stillCurrent(ctx, gen)
		if err != nil {
			return Outcome{}, err
		}
		if !current {
			return superseded(loc.String()), nil
		}
		log.Warn("Import fetch failed.", "error", fetchErr)
		return Outcome{
			Status:  FetchFailed,
			Locator: loc.String(),
			Message: fmt.Sprintf("failed to fetch %s: %v", loc, fetchErr),
		}, nil
	}

	out, err := w.complete(ctx, gen, loc.String(), files)
	if err == nil {
		log.Info("Import finished.", "status", out.Status, "files", len(files), "resources", out.Resources, "variables", out.Variables)
	}
	return out, err
}

// ImportText replaces the graph with the configuration in files, following
// the same supersession rules as Import.
func (w *Workspace) ImportText(ctx context.Context, name string, files []parser.File) (Outcome, error) {
	gen, err := w.begin(ctx, name)
	if err != nil {
		return Outcome{}, err
	}
	return w.complete(ctx, gen, name, files)
}

func (w *Workspace) complete(ctx context.Context, gen uint64, name string, files []parser.File) (Outcome, error) {
	res := w.parser.ParseFiles(files)
	if res.Empty() {
		current, err := w.stillCurrent(ctx, gen)
		if err != nil {
			return Outcome{}, err
		}
		if !current {
			return superseded(name), nil
		}
		return Outcome{Status: NothingFound, Locator: name, Message: MsgNothingFound, Warnings: res.Warnings}, nil
	}

	current, err := w.publish(ctx, gen, res)
	if err != nil {
		return Outcome{}, err
	}
	if !current {
		return superseded(name), nil
	}
	return Outcome{
		Status:    Imported,
		Locator:   name,
		Message:   fmt.Sprintf("imported %d resources and %d variables", len(res.Resources), len(res.Variables)),
		Resources: len(res.Resources),
		Variables: len(res.Variables),
		Warnings:  res.Warnings,
	}, nil
}
