package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Document is a provider schema dump as produced by `terraform providers schema -json`.
// Only the parts the catalog needs are decoded.
type Document struct {
	FormatVersion   string                     `json:"format_version"`
	ProviderSchemas map[string]*ProviderSchema `json:"provider_schemas"`
}

// ProviderSchema is the schema of one provider, keyed in the document by
// "<registry>/<vendor>/<provider>".
type ProviderSchema struct {
	ResourceSchemas map[string]*ResourceSchema `json:"resource_schemas"`
}

// ResourceSchema describes one resource type.
type ResourceSchema struct {
	Version int    `json:"version"`
	Block   *Block `json:"block"`
}

// Block holds the attributes of a resource type.
type Block struct {
	Attributes map[string]*Attribute `json:"attributes"`
}

// Attribute is one attribute of a resource block. Type is either a primitive
// name ("string", "number", "bool") or a JSON array for complex types.
type Attribute struct {
	Type        json.RawMessage `json:"type"`
	Required    bool            `json:"required"`
	Deprecated  bool            `json:"deprecated"`
	Description string          `json:"description"`
}

// PrimitiveType returns the attribute's primitive type name, or "" when the
// type is complex or missing.
func (a *Attribute) PrimitiveType() string {
	if a == nil || len(a.Type) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(a.Type, &s); err != nil {
		return ""
	}
	return s
}

// DecodeDocument reads a provider schema document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode provider schema: %w", err)
	}
	if doc.ProviderSchemas == nil {
		return nil, fmt.Errorf("decode provider schema: missing provider_schemas")
	}
	return &doc, nil
}

// resourceSchemas merges the resource schemas of every provider in the
// document. Providers are visited in key order so a later provider wins ties
// deterministically.
func (d *Document) resourceSchemas() map[string]*ResourceSchema {
	keys := make([]string, 0, len(d.ProviderSchemas))
	for k := range d.ProviderSchemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]*ResourceSchema)
	for _, k := range keys {
		p := d.ProviderSchemas[k]
		if p == nil {
			continue
		}
		for name, rs := range p.ResourceSchemas {
			out[name] = rs
		}
	}
	return out
}
