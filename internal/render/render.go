// Package render evaluates expanded sensor templates into numeric values.
//
// The dialect is the one produced by timeexpr.Expand: numeric literals,
// now(), .replace(field=n) chains on a moment, as_timestamp(...), the four
// arithmetic operators and parentheses. Bare identifiers resolve through an
// optional lookup and report a not-ready error while the backing value is
// still warming up.
package render

import "errors"

// Renderer renders an expanded template string into a numeric value,
// typically a Unix timestamp or a duration in seconds.
type Renderer interface {
	Render(template string) (float64, error)
}

// NotReadyPrefix is the leading text of every not-ready render error.
// Callers that only see the error message classify by this prefix.
const NotReadyPrefix = "value is not ready"

var (
	// ErrValueNotReady marks render failures caused by a referenced value
	// that is not available yet. Common right after startup.
	ErrValueNotReady = errors.New(NotReadyPrefix)

	// ErrNotNumeric marks renders that completed but did not yield a number.
	ErrNotNumeric = errors.New("result is not a number")
)
