// Package diagram is the serialized form of a canvas graph: nodes, edges,
// composite groups and the configuration's input variables.
package diagram

import (
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/parser"
)

// FormatVersion is written to Metadata.Version by FromModel.
const FormatVersion = "1.0"

// Diagram is the root structure of the diagram JSON.
type Diagram struct {
	Metadata  Metadata          `json:"metadata"`
	Nodes     []Node            `json:"nodes"`
	Edges     []Edge            `json:"edges"`
	Groups    []Group           `json:"groups,omitempty"`
	Variables []parser.Variable `json:"variables,omitempty"`
}

// Metadata holds diagram-level information.
type Metadata struct {
	Version       string `json:"version"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Environment   string `json:"environment"`
	SchemaVersion string `json:"schema_version,omitempty"`
}

// Node represents a single resource in the diagram. Type is the canonical
// resource type, or the verbatim type string for unknown resources.
type Node struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Label      string            `json:"label"`
	Position   graph.Point       `json:"position"`
	Size       *graph.Size       `json:"size,omitempty"`
	Properties map[string]string `json:"properties"`
}

// Edge represents a dependency: Target depends on Source.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // depends_on
}

// EdgeDependsOn is the only edge type the canvas produces.
const EdgeDependsOn = "depends_on"

// Group is a composite block and the ids of the nodes it owns.
type Group struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Position   graph.Point       `json:"position"`
	Children   []string          `json:"children"`
	Properties map[string]string `json:"properties,omitempty"`
}
