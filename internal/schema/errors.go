package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaNotFound is matched by errors.Is for a missing schema version.
var ErrSchemaNotFound = errors.New("schema not found")

// NotFoundError reports a requested version with no document. ListErr is set
// when the available versions could not be listed.
type NotFoundError struct {
	Version   string
	Available []string
	ListErr   error
}

func (e *NotFoundError) Error() string {
	if e.ListErr != nil {
		return fmt.Sprintf("schema version %q not found (listing versions: %v)", e.Version, e.ListErr)
	}
	if len(e.Available) == 0 {
		return fmt.Sprintf("schema version %q not found (no versions available)", e.Version)
	}
	return fmt.Sprintf("schema version %q not found (available: %s)", e.Version, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrSchemaNotFound }

// DocumentError reports a document that exists but could not be decoded.
type DocumentError struct {
	Version string
	Err     error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("schema version %q: %v", e.Version, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
