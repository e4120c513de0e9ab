// Package schema turns versioned provider schema documents into typed
// property definitions per resource type.
package schema

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/registry"
)

// Entries maps a resource type to its ordered property definitions.
type Entries map[registry.ResourceType][]PropertyDefinition

// Status describes what a Reload installed.
type Status struct {
	Version  string `json:"version,omitempty"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Catalog holds the property definitions of the active schema version. It
// starts out with the built-in fallback table; Reload swaps in a document.
// It is safe for concurrent use since reloads run off the mutation loop.
type Catalog struct {
	src Source

	mu      sync.RWMutex
	status  Status
	entries Entries
	index   map[registry.ResourceType]map[string]int
}

// NewCatalog returns a catalog over src (which may be nil) holding the fallback table.
func NewCatalog(src Source) *Catalog {
	c := &Catalog{src: src}
	c.install(fallbackTable(), Status{Fallback: true, Reason: "not loaded"})
	return c
}

// Load reads and converts the document for version without installing it.
func (c *Catalog) Load(ctx context.Context, version string) (Entries, error) {
	if c.src == nil {
		return nil, &NotFoundError{Version: version}
	}
	rc, err := c.src.Open(ctx, version)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			available, listErr := c.src.Versions(ctx)
			if listErr != nil {
				ctxlog.FromContext(ctx).Debug("Listing schema versions failed.", "version", version, "error", listErr)
			}
			SortVersions(available)
			return nil, &NotFoundError{Version: version, Available: available, ListErr: listErr}
		}
		return nil, &DocumentError{Version: version, Err: err}
	}
	defer rc.Close()

	doc, err := DecodeDocument(rc)
	if err != nil {
		return nil, &DocumentError{Version: version, Err: err}
	}
	return BuildEntries(doc), nil
}

// BuildEntries converts a decoded document. Resource types outside the
// registry are skipped.
func BuildEntries(doc *Document) Entries {
	out := make(Entries)
	for name, rs := range doc.resourceSchemas() {
		rt := registry.ByCanonicalName(name)
		if rt == registry.Unknown || rs == nil || rs.Block == nil {
			continue
		}
		defs := make([]PropertyDefinition, 0, len(rs.Block.Attributes))
		for attrName, attr := range rs.Block.Attributes {
			if attr == nil {
				continue
			}
			defs = append(defs, definitionFromAttribute(attrName, attr))
		}
		sortDefinitions(defs)
		out[rt] = defs
	}
	return out
}

// LatestVersion returns the greatest available version.
func (c *Catalog) LatestVersion(ctx context.Context) (string, bool) {
	if c.src == nil {
		return "", false
	}
	versions, err := c.src.Versions(ctx)
	if err != nil || len(versions) == 0 {
		return "", false
	}
	SortVersions(versions)
	return versions[len(versions)-1], true
}

// Versions lists available versions ascending.
func (c *Catalog) Versions(ctx context.Context) ([]string, error) {
	if c.src == nil {
		return nil, nil
	}
	versions, err := c.src.Versions(ctx)
	if err != nil {
		return nil, err
	}
	SortVersions(versions)
	return versions, nil
}

// Reload installs the document for version ("" means latest). Any failure
// installs the fallback table instead; the catalog is always usable.
func (c *Catalog) Reload(ctx context.Context, version string) Status {
	logger := ctxlog.FromContext(ctx)

	if version == "" {
		latest, ok := c.LatestVersion(ctx)
		if !ok {
			st := Status{Fallback: true, Reason: "no schema versions available"}
			logger.Warn("Using built-in property table.", "reason", st.Reason)
			c.install(fallbackTable(), st)
			return st
		}
		version = latest
	}

	entries, err := c.Load(ctx, version)
	if err != nil {
		st := Status{Version: version, Fallback: true, Reason: err.Error()}
		logger.Warn("Schema load failed, using built-in property table.", "version", version, "error", err)
		c.install(fallbackTable(), st)
		return st
	}
	if len(entries) == 0 {
		st := Status{Version: version, Fallback: true, Reason: "document declares no supported resource types"}
		logger.Warn("Schema has no supported resource types, using built-in property table.", "version", version)
		c.install(fallbackTable(), st)
		return st
	}

	st := Status{Version: version}
	c.install(entries, st)
	logger.Info("Schema catalog loaded.", "version", version, "resource_types", len(entries))
	return st
}

func (c *Catalog) install(entries Entries, st Status) {
	index := make(map[registry.ResourceType]map[string]int, len(entries))
	for rt, defs := range entries {
		m := make(map[string]int, len(defs))
		for i, d := range defs {
			m[d.Name] = i
		}
		index[rt] = m
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.index = index
	c.status = st
}

// Status returns what is currently installed.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Properties returns the ordered definitions for t; never nil.
func (c *Catalog) Properties(t registry.ResourceType) []PropertyDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	defs := c.entries[t]
	out := make([]PropertyDefinition, len(defs))
	copy(out, defs)
	return out
}

// Lookup returns the definition of property name on t.
func (c *Catalog) Lookup(t registry.ResourceType, name string) (PropertyDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[t][name]
	if !ok {
		return PropertyDefinition{}, false
	}
	return c.entries[t][i], true
}
