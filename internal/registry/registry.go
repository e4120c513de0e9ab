// Package registry is the closed vocabulary of resource types shared by the
// schema catalog, the configuration parser and the graph model.
package registry

import (
	"encoding/json"
	"fmt"
)

var (
	byCanonical = make(map[string]ResourceType, numResourceTypes)
	byDisplay   = make(map[string]ResourceType, numResourceTypes)
)

func init() {
	for t := Unknown + 1; t < numResourceTypes; t++ {
		info := typeTable[t]
		if info.canonical == "" || info.display == "" {
			panic(fmt.Sprintf("registry: resource type %d has no name", t))
		}
		if _, dup := byCanonical[info.canonical]; dup {
			panic("registry: duplicate canonical name " + info.canonical)
		}
		if _, dup := byDisplay[info.display]; dup {
			panic("registry: duplicate display name " + info.display)
		}
		byCanonical[info.canonical] = t
		byDisplay[info.display] = t
	}
}

// ByCanonicalName returns the type whose canonical (Terraform) name is exactly
// name, or Unknown.
func ByCanonicalName(name string) ResourceType {
	if t, ok := byCanonical[name]; ok {
		return t
	}
	return Unknown
}

// ByDisplayName returns the type whose display name is exactly name, or Unknown.
func ByDisplayName(name string) ResourceType {
	if t, ok := byDisplay[name]; ok {
		return t
	}
	return Unknown
}

// CanonicalName returns the canonical name of t. Unknown and out-of-range
// values yield UnknownName.
func CanonicalName(t ResourceType) string {
	return t.CanonicalName()
}

// All returns every known type (Unknown excluded) in palette order.
func All() []ResourceType {
	out := make([]ResourceType, 0, numResourceTypes-1)
	for t := Unknown + 1; t < numResourceTypes; t++ {
		out = append(out, t)
	}
	return out
}

// ByCategory returns the known types in category c, in palette order.
func ByCategory(c Category) []ResourceType {
	var out []ResourceType
	for _, t := range All() {
		if typeTable[t].category == c {
			out = append(out, t)
		}
	}
	return out
}

func (t ResourceType) valid() bool {
	return t > Unknown && t < numResourceTypes
}

// CanonicalName is the vendor resource type string, e.g. "aws_lambda_function".
func (t ResourceType) CanonicalName() string {
	if !t.valid() {
		return UnknownName
	}
	return typeTable[t].canonical
}

// DisplayName is the human readable name shown on the palette.
func (t ResourceType) DisplayName() string {
	if !t.valid() {
		return typeTable[Unknown].display
	}
	return typeTable[t].display
}

// Category returns the palette category; CategoryOther for Unknown.
func (t ResourceType) Category() Category {
	if !t.valid() {
		return CategoryOther
	}
	return typeTable[t].category
}

// IsKnown reports whether t is a supported type.
func (t ResourceType) IsKnown() bool { return t.valid() }

func (t ResourceType) String() string { return t.CanonicalName() }

// MarshalJSON encodes the type by canonical name.
func (t ResourceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.CanonicalName())
}

// UnmarshalJSON decodes a canonical name; unrecognised names become Unknown.
func (t *ResourceType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("resource type: %w", err)
	}
	*t = ByCanonicalName(name)
	return nil
}
