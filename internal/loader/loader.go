package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formschema/pkg/schema"
)

// Loader implements schema.Loader. Every source kind is opened as a stream
// and read through the same size limit, and the result is handed back as a
// JSON-normalised schema.Document.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
	limit   int64
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. URL sources stay
// disabled unless a client or the HTTP fallback was configured.
func New(options schema.LoaderOptions) *Loader {
	l := &Loader{
		files:   options.FileSystem,
		timeout: options.RequestTimeout,
		limit:   options.MaxDocumentSize,
	}
	if l.limit <= 0 {
		l.limit = schema.DefaultMaxDocumentSize
	}

	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.client = &clone
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load reads the source and returns its document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	body, err := l.open(ctx, src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: open %s %s: %w", src.Kind(), src.Location(), err)
	}
	data, err := readLimited(body, l.limit)
	if closeErr := body.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: read %s: %w", src.Location(), err)
	}
	return schema.NewDocument(src, data)
}

func (l *Loader) open(ctx context.Context, src schema.Source) (io.ReadCloser, error) {
	switch src.Kind() {
	case schema.SourceKindFile:
		return openFile(src.Location())
	case schema.SourceKindFS:
		return openFS(l.files, src.Location())
	case schema.SourceKindURL:
		if l.client == nil {
			return nil, errors.New("http support disabled")
		}
		return openURL(ctx, l.client, src.Location(), l.timeout)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}

// readLimited reads at most limit bytes and fails rather than truncating.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", schema.ErrDocumentTooLarge, limit)
	}
	return data, nil
}
