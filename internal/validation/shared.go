package validation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error collects per-field validation messages.
type Error struct {
	Fields map[string]string
}

// FieldError returns an Error for a single field.
func FieldError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

// Error lists the field messages sorted by field name.
func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// mergeFields copies field messages from err into dst when err is an *Error.
func mergeFields(dst map[string]string, err error) {
	if ve, ok := err.(*Error); ok {
		maps.Copy(dst, ve.Fields)
	}
}
