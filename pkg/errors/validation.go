package errors

import (
	"regexp"
	"strings"
)

// graphIDRegex matches ids accepted by the graph store: letters, digits and
// the separators '-', '_' and '.'.
var graphIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGraphID validates a stored graph identifier. Ids double as file names
// in the file-backed store, so anything resembling a path is rejected.
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "graph id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "graph id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "graph id cannot contain path traversal sequences (..)")
	}
	if !graphIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid graph id: %q", id)
	}
	return nil
}
