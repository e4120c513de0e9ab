package result

// Severity levels used in Error and Warning records.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Error represents a validation or generation error.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a recoverable problem: a syntax error the parser skipped
// past, an unknown resource type, a missing required property.
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewWarning returns a warning record with the warning severity set.
func NewWarning(typ, nodeID, message string) Warning {
	return Warning{Type: typ, Severity: SeverityWarning, NodeID: nodeID, Message: message}
}

// ExportResult is the result of exporting a diagram to configuration files.
type ExportResult struct {
	Success  bool              `json:"success"`
	Files    map[string][]byte `json:"-"` // filename -> content
	Errors   []Error           `json:"errors,omitempty"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// Generated file names.
const (
	FileVersions  = "versions.tf"
	FileVariables = "variables.tf"
	FileMain      = "main.tf"
	FileOutputs   = "outputs.tf"
	FileTfvars    = "terraform.tfvars"
)

// FileNames returns the generated file names in a stable order.
func (r *ExportResult) FileNames() []string {
	names := make([]string, 0, len(r.Files))
	for _, n := range []string{FileVersions, FileVariables, FileMain, FileOutputs, FileTfvars} {
		if _, ok := r.Files[n]; ok {
			names = append(names, n)
		}
	}
	return names
}
