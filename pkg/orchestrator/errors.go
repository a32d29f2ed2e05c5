package orchestrator

import "errors"

var (
	// ErrMultiOutputRequiresMap is returned when a ** output pattern is used
	// on a document whose root is not a mapping.
	ErrMultiOutputRequiresMap = errors.New("orchestrator: multi output requires a mapping document")
	// ErrNoResolver is returned when Process runs without a Resolver.
	ErrNoResolver = errors.New("orchestrator: generator resolver is required")
)
