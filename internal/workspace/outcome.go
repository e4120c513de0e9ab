package workspace

import (
	"github.com/tfcanvas/canvas/internal/result"
)

// Status is the result class of an import.
type Status string

const (
	Imported       Status = "imported"
	InvalidLocator Status = "invalid_locator"
	FetchFailed    Status = "fetch_failed"
	NothingFound   Status = "nothing_found"
	Superseded     Status = "superseded"
)

// User-facing messages.
const (
	MsgInvalidLocator = "invalid repository format"
	MsgNothingFound   = "no resources or variables found"
	MsgSuperseded     = "import superseded by a newer one"
)

// Outcome reports how an import ended.
type Outcome struct {
	Status    Status           `json:"status"`
	Locator   string           `json:"locator,omitempty"`
	Message   string           `json:"message"`
	Resources int              `json:"resources"`
	Variables int              `json:"variables"`
	Warnings  []result.Warning `json:"warnings,omitempty"`
}

// OK reports whether the import was published.
func (o Outcome) OK() bool { return o.Status == Imported }

func superseded(name string) Outcome {
	return Outcome{Status: Superseded, Locator: name, Message: MsgSuperseded}
}
