package diagram

import (
	"fmt"

	"github.com/tfcanvas/canvas/internal/registry"
)

// ValidationError represents a single validation failure (schema/structure level).
type ValidationError struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"` // error or warning
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// IsError reports whether the failure blocks export.
func (e ValidationError) IsError() bool { return e.Severity == "error" }

// Validate checks required fields and structure of the diagram. Unknown
// resource types are reported as warnings; everything else is an error.
func Validate(d *Diagram) []ValidationError {
	var errs []ValidationError

	if d == nil {
		return []ValidationError{{Type: "schema_error", Severity: "error", Message: "diagram is nil"}}
	}

	if d.Metadata.Version == "" {
		errs = append(errs, ValidationError{
			Type: "schema_error", Severity: "error",
			Message: "metadata.version is required", Suggestion: "Set metadata.version (e.g. \"1.0\")",
		})
	}

	seenNodeIDs := make(map[string]bool)
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", NodeID: n.ID,
				Message: fmt.Sprintf("node at index %d has empty id", i), Suggestion: "Set node.id",
			})
		} else if seenNodeIDs[n.ID] {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", NodeID: n.ID,
				Message: "duplicate node id: " + n.ID, Suggestion: "Use unique ids for each node",
			})
		} else {
			seenNodeIDs[n.ID] = true
		}
		if n.Type == "" {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", NodeID: n.ID,
				Message: "node.type is required", Suggestion: "Set node.type (e.g. aws_lambda_function)",
			})
		} else if !registry.ByCanonicalName(n.Type).IsKnown() {
			errs = append(errs, ValidationError{
				Type: "unknown_type", Severity: "warning", NodeID: n.ID,
				Message: "unsupported resource type: " + n.Type,
			})
		}
		if n.Properties == nil {
			n.Properties = make(map[string]string)
		}
	}

	seenEdges := make(map[[2]string]bool)
	for i := range d.Edges {
		e := &d.Edges[i]
		switch {
		case e.Source == "" || e.Target == "":
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error",
				Message:    fmt.Sprintf("edge at index %d must have source and target", i),
				Suggestion: "Set edge.source and edge.target to node ids",
			})
		case !seenNodeIDs[e.Source]:
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error",
				Message:    "edge source node not found: " + e.Source,
				Suggestion: "Reference an existing node id",
			})
		case !seenNodeIDs[e.Target]:
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error",
				Message:    "edge target node not found: " + e.Target,
				Suggestion: "Reference an existing node id",
			})
		case e.Source == e.Target:
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", NodeID: e.Source,
				Message:    "edge connects node to itself: " + e.Source,
				Suggestion: "Remove the edge",
			})
		case seenEdges[[2]string{e.Source, e.Target}]:
			errs = append(errs, ValidationError{
				Type: "duplicate_edge", Severity: "warning", NodeID: e.Target,
				Message: fmt.Sprintf("duplicate edge %s -> %s", e.Source, e.Target),
			})
		default:
			seenEdges[[2]string{e.Source, e.Target}] = true
		}
		if e.Type == "" {
			e.Type = EdgeDependsOn
		}
	}

	owner := make(map[string]string)
	for _, g := range d.Groups {
		for _, child := range g.Children {
			if !seenNodeIDs[child] {
				errs = append(errs, ValidationError{
					Type: "schema_error", Severity: "error", NodeID: child,
					Message:    fmt.Sprintf("group %s references unknown node %s", g.ID, child),
					Suggestion: "Reference an existing node id",
				})
				continue
			}
			if prev, taken := owner[child]; taken {
				errs = append(errs, ValidationError{
					Type: "schema_error", Severity: "error", NodeID: child,
					Message: fmt.Sprintf("node %s belongs to groups %s and %s", child, prev, g.ID),
				})
				continue
			}
			owner[child] = g.ID
		}
	}

	return errs
}

// HasErrors reports whether any failure has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.IsError() {
			return true
		}
	}
	return false
}

// NodeByID returns the node with the given id, or nil.
func (d *Diagram) NodeByID(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// EdgesWithTarget returns edges whose target is the given node id.
func (d *Diagram) EdgesWithTarget(targetID string) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.Target == targetID {
			out = append(out, e)
		}
	}
	return out
}

// EdgesWithSource returns edges whose source is the given node id.
func (d *Diagram) EdgesWithSource(sourceID string) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.Source == sourceID {
			out = append(out, e)
		}
	}
	return out
}
