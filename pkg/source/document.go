package source

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// Format identifies the encoding of a merge document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf infers a Format from a location's extension. Unknown extensions
// decode as YAML, which also accepts JSON.
func FormatOf(location string) Format {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		location = u.Path
	}
	switch strings.ToLower(path.Ext(strings.ReplaceAll(location, "\\", "/"))) {
	case ".json":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	default:
		return FormatYAML
	}
}

// Document wraps the raw payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs. An
// empty payload is valid and decodes to nil.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is required")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format reports the encoding inferred from the document location.
func (d Document) Format() Format {
	return FormatOf(d.Location())
}
