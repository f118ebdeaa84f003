package document

import (
	"errors"
	"fmt"
	"strings"
)

// Validation issue codes.
const (
	CodeMissingField    = "missing_field"
	CodeTypeMismatch    = "type_mismatch"
	CodeInvalidEnum     = "invalid_enum"
	CodeExclusiveFields = "exclusive_fields"
	CodeOutOfRange      = "out_of_range"
	CodeUnknownRef      = "unknown_reference"
	CodeParseError      = "parse_error"
)

// Issue is a single validation failure with the path of the offending
// field.
type Issue struct {
	Path    string `json:"path"` // dot path into the document, e.g. "root.children.2.kind"
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
}

// Issues aggregates validation failures. Resolution never starts on a
// document whose validation produced a non-empty Issues.
type Issues []Issue

func (iss Issues) Error() string {
	switch len(iss) {
	case 0:
		return ""
	case 1:
		return iss[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(iss))
	for n, i := range iss {
		fmt.Fprintf(&b, "  %d. %s\n", n+1, i.String())
	}
	return b.String()
}

// AsIssues extracts the aggregated issues from an error, if present.
func AsIssues(err error) (Issues, bool) {
	var iss Issues
	if errors.As(err, &iss) {
		return iss, len(iss) > 0
	}
	return nil, false
}

// FieldError is raised by custom field unmarshalers; Decode attaches the
// field path and converts it into an Issue.
type FieldError struct {
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}
