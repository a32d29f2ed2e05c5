package render

import "errors"

var (
	// ErrNotCollection is returned by Each when its target is not a mapping or
	// a sequence.
	ErrNotCollection = errors.New("render: each requires a collection")
	// ErrGeneratorNotFound reports a generator name that no resolver knows.
	ErrGeneratorNotFound = errors.New("render: generator not found")
)
