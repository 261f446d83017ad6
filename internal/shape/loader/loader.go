package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Loader implements shape.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level srcgen package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ shape.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options shape.LoaderOptions) shape.Loader {
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

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src shape.Source) (shape.Document, error) {
	if src == nil {
		return shape.Document{}, errors.New("shape loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case shape.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case shape.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case shape.SourceKindURL:
		if !l.allowHTTP {
			return shape.Document{}, errors.New("shape loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("shape loader: unsupported source kind")
	}
	if err != nil {
		return shape.Document{}, err
	}

	return shape.NewDocument(src, data)
}
