package errors

import "errors"

var (
	// ErrUpstreamUnavailable signals that an external data source was
	// unreachable or returned a malformed payload. Callers must be able to
	// tell this apart from an empty-but-healthy response.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrGeneNotFound signals an enrichment request for a gene that was
	// never analyzed.
	ErrGeneNotFound = errors.New("gene not found")
	// ErrValidation signals invalid caller input rejected before any
	// external call is made.
	ErrValidation = errors.New("invalid argument")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
)
