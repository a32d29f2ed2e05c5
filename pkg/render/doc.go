// Package render implements the generation context handed to generators.
//
// A render pass starts with Render, which creates a Sink (the text buffer plus
// the shared options record) and a root Context. Generators write through the
// context; Extend derives child contexts that see different data, keys and
// extras while appending to the same Sink. Each and Use compose generators.
package render
