package ymlgen

import (
	internalLoader "github.com/goliatone/go-ymlgen/internal/source/loader"
	"github.com/goliatone/go-ymlgen/pkg/source"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...source.LoaderOption) source.Loader {
	cfg := source.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewMergeReader returns the default merge reader. Relative references
// resolve as fs.FS entries when a FileSystem option is supplied.
func NewMergeReader(options ...source.LoaderOption) *source.Reader {
	cfg := source.NewLoaderOptions(options...)
	var readerOpts []source.ReaderOption
	if cfg.FileSystem != nil {
		readerOpts = append(readerOpts, source.WithFSSources())
	}
	return source.NewReader(internalLoader.New(cfg), readerOpts...)
}
