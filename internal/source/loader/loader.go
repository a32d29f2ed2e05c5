package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-ymlgen/pkg/source"
)

// Loader implements source.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ source.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options source.LoaderOptions) source.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source.
func (l *Loader) Load(ctx context.Context, src source.Source) (source.Document, error) {
	if src == nil {
		return source.Document{}, errors.New("source loader: source is nil")
	}

	var (
		raw []byte
		err error
	)

	switch src.Kind() {
	case source.SourceKindFile:
		raw, err = loadFile(ctx, src.Location())
	case source.SourceKindFS:
		raw, err = loadFromFS(ctx, l.fs, src.Location())
	case source.SourceKindURL:
		if !l.allowHTTP {
			return source.Document{}, errors.New("source loader: http support disabled")
		}
		raw, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("source loader: unsupported source kind")
	}
	if err != nil {
		return source.Document{}, err
	}

	return source.NewDocument(src, raw)
}
