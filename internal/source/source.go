// Package source defines the fixed data source endpoints and the loader that
// retrieves a dataset from one of them.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rshade/dataviewer/internal/logging"
	"github.com/rshade/dataviewer/internal/record"
)

// ErrRetrievalFailed covers every way a load can fail: transport errors,
// unreadable bodies, and bodies that are not a JSON array of objects.
var ErrRetrievalFailed = errors.New("retrieval failed")

// ErrUnknownSource is returned when a lookup does not match a listed endpoint.
var ErrUnknownSource = errors.New("unknown data source")

// Endpoint is one selectable data source.
type Endpoint struct {
	Label string
	URL   string
}

// Endpoints returns the compiled-in data sources in display order.
func Endpoints() []Endpoint {
	return []Endpoint{
		{Label: "API 1", URL: "https://jsonplaceholder.typicode.com/posts"},
		{Label: "API 2", URL: "https://jsonplaceholder.typicode.com/users"},
	}
}

// Lookup resolves a label (case-insensitive), a 1-based position, or an exact
// URL to one of the listed endpoints. Anything else is ErrUnknownSource.
func Lookup(endpoints []Endpoint, ref string) (Endpoint, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(endpoints) {
			return endpoints[n-1], nil
		}
		return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownSource, ref)
	}
	for _, ep := range endpoints {
		if strings.EqualFold(ep.Label, ref) || ep.URL == ref {
			return ep, nil
		}
	}
	return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownSource, ref)
}

// Loader retrieves the dataset behind a URL.
type Loader interface {
	Load(ctx context.Context, url string) ([]record.Record, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, url string) ([]record.Record, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, url string) ([]record.Record, error) {
	return f(ctx, url)
}

// HTTPLoader performs a single GET per load. It never retries and sets no
// timeout of its own; the client's transport defaults apply. The status code
// is not inspected: a body that does not parse is the failure signal.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader using http.DefaultClient.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{Client: http.DefaultClient}
}

// Load fetches url and parses the body as a dataset.
func (l *HTTPLoader) Load(ctx context.Context, url string) ([]record.Record, error) {
	log := logging.FromContext(ctx)

	if url == "" {
		return nil, fmt.Errorf("%w: empty source URL", ErrRetrievalFailed)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrRetrievalFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrRetrievalFailed, err)
	}

	log.Debug().Ctx(ctx).
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("response received")

	records, err := record.ParseDataset(body)
	if err != nil {
		return nil, fmt.Errorf("%w: status %d: %w", ErrRetrievalFailed, resp.StatusCode, err)
	}
	return records, nil
}
