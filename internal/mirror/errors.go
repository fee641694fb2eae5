package mirror

import "errors"

var (
	// ErrMisconfigured is returned when a surface cannot be set up: no
	// renderer or no materials to receive the reflection.
	ErrMisconfigured = errors.New("mirror: misconfigured surface")

	// ErrInvalidSettings is returned by Settings.Validate.
	ErrInvalidSettings = errors.New("mirror: invalid settings")

	// ErrResourceFailure wraps render target or texture array allocation
	// failures. It disables the surface until it is reconfigured.
	ErrResourceFailure = errors.New("mirror: resource allocation failed")
)
