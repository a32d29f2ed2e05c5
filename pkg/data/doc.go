// Package data holds the document tree used by generators: an ordered mapping
// type that keeps keys in document order, YAML decoding into that tree, and the
// select/merge helpers applied before rendering.
package data
