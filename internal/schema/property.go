package schema

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Kind is the editing kind of a property value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindEnum
	KindJSON
)

var kindNames = [...]string{"string", "number", "boolean", "enum", "json"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindString]
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name; unknown names become KindString.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = KindString
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
		}
	}
	return nil
}

// PropertyDefinition describes one editable property of a resource type.
type PropertyDefinition struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Default     string   `json:"default,omitempty"`
	Required    bool     `json:"required"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Description string   `json:"description,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// HasInterpolation reports whether a raw value carries a ${...} reference.
func HasInterpolation(raw string) bool {
	return strings.Contains(raw, "${")
}

// Coerce normalises raw to the definition's kind. Values that do not parse
// as the kind, and values holding references, are returned unchanged.
func (d PropertyDefinition) Coerce(raw string) string {
	if raw == "" || HasInterpolation(raw) {
		return raw
	}
	switch d.Kind {
	case KindNumber:
		v, err := convert.Convert(cty.StringVal(strings.TrimSpace(raw)), cty.Number)
		if err != nil || v.IsNull() {
			return raw
		}
		return v.AsBigFloat().Text('f', -1)
	case KindBoolean:
		v, err := convert.Convert(cty.StringVal(strings.TrimSpace(raw)), cty.Bool)
		if err != nil || v.IsNull() {
			return raw
		}
		if v.True() {
			return "true"
		}
		return "false"
	case KindJSON:
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(raw)); err != nil {
			return raw
		}
		return buf.String()
	}
	return raw
}

// jsonNames are attribute names that always carry an embedded document.
var jsonNames = map[string]bool{
	"policy":                true,
	"assume_role_policy":    true,
	"definition":            true,
	"container_definitions": true,
	"event_pattern":         true,
	"redrive_policy":        true,
	"access_policies":       true,
}

func inferKind(name string, a *Attribute) Kind {
	prim := a.PrimitiveType()
	if prim == "string" || prim == "" {
		if looksLikeDocument(name, a.Description) {
			return KindJSON
		}
	}
	switch prim {
	case "number":
		return KindNumber
	case "bool":
		return KindBoolean
	default:
		return KindString
	}
}

func looksLikeDocument(name, description string) bool {
	if jsonNames[name] {
		return true
	}
	if strings.HasSuffix(name, "_policy") || strings.HasSuffix(name, "_json") || strings.HasSuffix(name, "policy_document") {
		return true
	}
	return strings.Contains(description, "JSON")
}

func definitionFromAttribute(name string, a *Attribute) PropertyDefinition {
	return PropertyDefinition{
		Name:        name,
		Kind:        inferKind(name, a),
		Required:    a.Required,
		Deprecated:  a.Deprecated,
		Description: a.Description,
	}
}

// sortDefinitions orders required properties first, then by name.
func sortDefinitions(defs []PropertyDefinition) {
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Required != defs[j].Required {
			return defs[i].Required
		}
		return defs[i].Name < defs[j].Name
	})
}
