package source

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies where a merge document originates so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// fileSource identifies on-disk documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(p string) Source {
	return fileSource{path: filepath.Clean(p)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: path.Clean(filepath.ToSlash(name))}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := ParseURL(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseURL is the non panicking form of SourceFromURL.
func ParseURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("source: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("source: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// IsURL reports whether ref names an HTTP or HTTPS resource.
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
