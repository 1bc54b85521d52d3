package td

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired           = "required"
	CodeInvalidType        = "invalid_type"
	CodeParseError         = "parse_error"
	CodeEmptyName          = "empty_name"
	CodeDuplicateName      = "duplicate_name"
	CodeMalformedSchema    = "malformed_schema"
	CodeInvalidMinMax      = "invalid_min_max"
	CodeNaNMinMax          = "nan_min_max"
	CodeInvalidMultipleOf  = "invalid_multiple_of"
	CodeIllegalFormOp      = "illegal_form_op"
	CodeUnresolvedSecurity = "unresolved_security"
	CodeEmptySecurity      = "empty_security"
	CodeInvalidScheme      = "invalid_scheme"
	CodeMissingSchemeField = "missing_scheme_field"
	CodeInvalidURI         = "invalid_uri"
	CodeInvalidLanguageTag = "invalid_language_tag"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/temperature/forms/0).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: the offending name, operation, tag, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"name":"basic"}) for i18n
	// and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. illegal_form_op at /properties/temp/forms/0/op/0
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
