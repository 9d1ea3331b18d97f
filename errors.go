package mdview

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a configuration or argument failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotUpdatable indicates an element kind has no in-place update path.
	// Callers re-render instead.
	ErrNotUpdatable = errors.New("element cannot be updated in place")

	// ErrUnknownKind indicates no capability is registered for a kind.
	ErrUnknownKind = errors.New("unknown element kind")

	// ErrKindMismatch indicates a capability received an element of a kind
	// it does not handle.
	ErrKindMismatch = errors.New("element kind mismatch")

	// ErrPanic marks an error recovered from a panic.
	ErrPanic = errors.New("panic")

	// ErrNotFound indicates an element is not tracked by a Document.
	ErrNotFound = errors.New("element not found")

	// ErrTooLarge indicates fetched content exceeded a size bound.
	ErrTooLarge = errors.New("content too large")
)

// ParseMappingError reports a failure to map a parsed block into elements.
type ParseMappingError struct {
	Block string
	Err   error
}

func (e *ParseMappingError) Error() string {
	return fmt.Sprintf("map block %q: %v", abbreviate(e.Block, 40), e.Err)
}

func (e *ParseMappingError) Unwrap() error { return e.Err }

// RenderError reports a capability failure for one element.
type RenderError struct {
	Kind Kind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ImageLoadError reports a failure to fetch, decode or cache an image.
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load image %s: %v", e.URL, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
