package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dataviewer/internal/record"
)

func TestEndpoints(t *testing.T) {
	eps := Endpoints()
	require.Len(t, eps, 2)
	assert.Equal(t, Endpoint{Label: "API 1", URL: "https://jsonplaceholder.typicode.com/posts"}, eps[0])
	assert.Equal(t, Endpoint{Label: "API 2", URL: "https://jsonplaceholder.typicode.com/users"}, eps[1])
}

func TestLookup(t *testing.T) {
	eps := Endpoints()

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "label", ref: "API 1", want: eps[0].URL},
		{name: "label case-insensitive", ref: "api 2", want: eps[1].URL},
		{name: "position", ref: "2", want: eps[1].URL},
		{name: "exact url", ref: eps[0].URL, want: eps[0].URL},
		{name: "position out of range", ref: "3", wantErr: true},
		{name: "zero", ref: "0", wantErr: true},
		{name: "free url rejected", ref: "https://example.com/data", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := Lookup(eps, tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ep.URL)
		})
	}
}

func TestHTTPLoader_Success(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"a"},{"id":2,"title":"b"}]`))
	}))
	defer srv.Close()

	loader := &HTTPLoader{Client: srv.Client()}
	records, err := loader.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "title"}, records[0].Keys())

	title, _ := records[1].Get("title")
	assert.Equal(t, "b", title.AsString())
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPLoader_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "html error page", status: http.StatusInternalServerError, body: "<h1>down</h1>", wantErr: record.ErrMalformed},
		{name: "json error object", status: http.StatusNotFound, body: `{"error":"missing"}`, wantErr: record.ErrNotArray},
		{name: "truncated body", status: http.StatusOK, body: `[{"id":1}`, wantErr: record.ErrMalformed},
		{name: "lenient syntax", status: http.StatusOK, body: `[{"id":01,"title":"a",}]`, wantErr: record.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			loader := &HTTPLoader{Client: srv.Client()}
			records, err := loader.Load(context.Background(), srv.URL)
			assert.Nil(t, records)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRetrievalFailed)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int32(1), hits.Load(), "no retry")
		})
	}
}

func TestHTTPLoader_NonOKWithArrayBodySucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`[{"ok":true}]`))
	}))
	defer srv.Close()

	records, err := (&HTTPLoader{Client: srv.Client()}).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHTTPLoader_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPLoader().Load(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrievalFailed)
}

func TestHTTPLoader_EmptyURL(t *testing.T) {
	_, err := NewHTTPLoader().Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrRetrievalFailed)
}

func TestProbe(t *testing.T) {
	eps := []Endpoint{
		{Label: "ok", URL: "u1"},
		{Label: "bad", URL: "u2"},
		{Label: "empty", URL: "u3"},
	}
	loader := LoaderFunc(func(_ context.Context, url string) ([]record.Record, error) {
		switch url {
		case "u1":
			return []record.Record{record.New(), record.New()}, nil
		case "u2":
			return nil, errors.New("boom")
		default:
			return []record.Record{}, nil
		}
	})

	results, err := Probe(context.Background(), loader, eps)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "ok", results[0].Endpoint.Label)
	assert.Equal(t, 2, results[0].Count)
	require.NoError(t, results[0].Err)

	assert.Equal(t, "bad", results[1].Endpoint.Label)
	require.Error(t, results[1].Err)

	assert.Equal(t, 0, results[2].Count)
	assert.NoError(t, results[2].Err)
}

func TestProbe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	loader := LoaderFunc(func(_ context.Context, _ string) ([]record.Record, error) {
		calls.Add(1)
		return nil, nil
	})

	results, err := Probe(ctx, loader, Endpoints())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
	assert.Zero(t, calls.Load())
}
