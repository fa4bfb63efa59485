package models

import "errors"

// ErrorKind categorizes manifest domain failures
type ErrorKind string

const (
	// KindNotFound covers missing manifests, entries, projects, versions and files
	KindNotFound ErrorKind = "not-found"
	// KindAlreadyExists covers duplicate manifest ids
	KindAlreadyExists ErrorKind = "already-exists"
	// KindUnsupported covers unknown schema versions and source types
	KindUnsupported ErrorKind = "unsupported"
	// KindIncompatible covers loader and Minecraft version mismatches
	KindIncompatible ErrorKind = "incompatible"
	// KindUpstreamFailure covers HTTP errors, network errors and malformed registry payloads
	KindUpstreamFailure ErrorKind = "upstream-failure"
	// KindInvalidInput covers caller mistakes such as manifest-only without a filename
	KindInvalidInput ErrorKind = "invalid-input"
)

// ManifestError is the single domain error surfaced by manifest and
// resolver operations. Transport-level failures are wrapped into it.
type ManifestError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewManifestError creates a manifest error without an underlying cause
func NewManifestError(kind ErrorKind, message string) *ManifestError {
	return &ManifestError{Kind: kind, Message: message}
}

// WrapManifestError creates a manifest error wrapping an underlying cause
func WrapManifestError(kind ErrorKind, message string, err error) *ManifestError {
	return &ManifestError{Kind: kind, Message: message, Err: err}
}

func (e *ManifestError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *ManifestError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is (or wraps) a ManifestError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var me *ManifestError
	if !errors.As(err, &me) {
		return false
	}
	return me.Kind == kind
}
