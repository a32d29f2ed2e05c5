package source

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-ymlgen/internal/ctxlog"
	"github.com/goliatone/go-ymlgen/internal/hcl"
	"github.com/goliatone/go-ymlgen/pkg/data"
)

// ReaderOption customises a Reader.
type ReaderOption func(*Reader)

// WithFSSources resolves relative references as fs.FS entries instead of
// paths on disk. The loader must be configured with a FileSystem.
func WithFSSources() ReaderOption {
	return func(r *Reader) {
		r.useFS = true
	}
}

// Reader turns merge references into data trees. It satisfies the merge
// reader contract consumed by the directive parser.
type Reader struct {
	loader Loader
	useFS  bool
}

// NewReader wraps loader.
func NewReader(loader Loader, options ...ReaderOption) *Reader {
	r := &Reader{loader: loader}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve maps a reference found in a data file located in dir to a Source.
func (r *Reader) Resolve(dir, ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("source: empty merge reference")
	}
	if IsURL(ref) {
		return ParseURL(ref)
	}
	if r.useFS {
		return SourceFromFS(path.Join(filepath.ToSlash(dir), filepath.ToSlash(ref))), nil
	}
	if filepath.IsAbs(ref) {
		return SourceFromFile(ref), nil
	}
	return SourceFromFile(filepath.Join(dir, ref)), nil
}

// ReadMergeSource loads and decodes ref.
func (r *Reader) ReadMergeSource(ctx context.Context, dir, ref string) (any, error) {
	src, err := r.Resolve(dir, ref)
	if err != nil {
		return nil, err
	}
	doc, err := r.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("merge source loaded",
		"kind", src.Kind(), "location", src.Location(), "bytes", len(doc.raw))
	return Decode(doc)
}

// Decode converts a document payload according to its format.
func Decode(doc Document) (any, error) {
	switch doc.Format() {
	case FormatHCL:
		if len(strings.TrimSpace(string(doc.raw))) == 0 {
			return nil, nil
		}
		value, err := hcl.Decode(doc.raw, doc.Location())
		if err != nil {
			return nil, err
		}
		return value, nil
	default:
		value, err := data.Decode(doc.raw)
		if err != nil {
			return nil, fmt.Errorf("source: decode %s: %w", doc.Location(), err)
		}
		return value, nil
	}
}
