package domain

import "errors"

// Sentinel errors shared across the service. Components wrap them with
// fmt.Errorf and the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrUnauthorized reports a missing or blank caller credential.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetch reports that an image download failed or was not an image.
	ErrFetch = errors.New("fetch failed")
	// ErrResolution reports that a reference page yielded no usable image.
	ErrResolution = errors.New("reference resolution failed")
	ErrInvocation = errors.New("model invocation failed")
	// ErrNoArtifact reports a model response without any image part.
	ErrNoArtifact = errors.New("failed to generate image")
	ErrStorage    = errors.New("storage failure")
)
