package basemap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackviz/internal/canvas"
)

const sampleResponse = `{
  "elements": [
    {"type": "way", "id": 1, "tags": {"highway": "primary"},
     "geometry": [{"lat": 47.30, "lon": 8.50}, {"lat": 47.31, "lon": 8.52}]},
    {"type": "way", "id": 2, "tags": {"highway": "residential"},
     "geometry": [{"lat": 47.32, "lon": 8.51}, {"lat": 47.33, "lon": 8.53}, {"lat": 47.34, "lon": 8.55}]},
    {"type": "way", "id": 3, "geometry": [{"lat": 47.32, "lon": 8.51}]},
    {"type": "node", "id": 4}
  ]
}`

type overpassServer struct {
	*httptest.Server
	hits  atomic.Int32
	query atomic.Value
}

func newOverpassServer(t *testing.T, status int, body string) *overpassServer {
	t.Helper()
	s := &overpassServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))
		s.query.Store(form.Get("data"))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestOverpass(endpoint string) *Overpass {
	o := NewOverpass(endpoint, 5*time.Second)
	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return o
}

func TestStreetsDrawsBasemapLayer(t *testing.T) {
	srv := newOverpassServer(t, http.StatusOK, sampleResponse)
	o := newTestOverpass(srv.URL)

	s := canvas.New()
	s.Add(canvas.Layer{Name: "points", Kind: canvas.KindPoints, Z: canvas.ZPositionfixes})
	require.NoError(t, o.Streets(context.Background(), 47.4, 47.3, 8.6, 8.5, s))

	assert.Equal(t, 0, s.Index(LayerName), "basemap is drawn below existing layers")
	l := s.Layers()[0]
	assert.Equal(t, canvas.KindBasemap, l.Kind)
	require.Len(t, l.Lines, 2)
	assert.Equal(t, orb.LineString{{8.50, 47.30}, {8.52, 47.31}}, l.Lines[0])
	assert.Equal(t, majorColor, l.ColorAt(0))
	assert.Equal(t, streetColor, l.ColorAt(1))

	q, _ := srv.query.Load().(string)
	assert.Equal(t, Query(47.4, 47.3, 8.6, 8.5, 5*time.Second), q)
	assert.Contains(t, q, "[timeout:5]")
	assert.Contains(t, q, "(47.300000,8.500000,47.400000,8.600000)")
}

func TestFetchUsesCache(t *testing.T) {
	srv := newOverpassServer(t, http.StatusOK, sampleResponse)
	o := newTestOverpass(srv.URL)
	o.Cache = NewMemoryCache()

	first, err := o.Fetch(context.Background(), 1, 0, 1, 0)
	require.NoError(t, err)
	second, err := o.Fetch(context.Background(), 1, 0, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), srv.hits.Load())

	_, err = o.Fetch(context.Background(), 2, 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestFetchStatusError(t *testing.T) {
	srv := newOverpassServer(t, http.StatusGatewayTimeout, "busy")
	o := newTestOverpass(srv.URL)
	o.Cache = NewMemoryCache()

	s := canvas.New()
	err := o.Streets(context.Background(), 1, 0, 1, 0, s)
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "504")
	assert.Zero(t, s.Len(), "no fallback layer")

	_, cerr := o.Cache.Get(context.Background(), "trackviz:osm:1.0000:0.0000:1.0000:0.0000")
	assert.ErrorIs(t, cerr, ErrCacheMiss, "failures are not cached")
}

func TestFetchBadJSON(t *testing.T) {
	srv := newOverpassServer(t, http.StatusOK, "<html>")
	_, err := newTestOverpass(srv.URL).Fetch(context.Background(), 1, 0, 1, 0)
	require.Error(t, err)
}

func TestFetchCancelled(t *testing.T) {
	srv := newOverpassServer(t, http.StatusOK, sampleResponse)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestOverpass(srv.URL).Fetch(ctx, 1, 0, 1, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, srv.hits.Load())
}

func TestFetchCancelledDuringRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(3 * time.Second):
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	o := newTestOverpass(srv.URL)
	o.Cache = NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	s := canvas.New()
	err := o.Streets(ctx, 1, 0, 1, 0, s)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, s.Len())

	_, cerr := o.Cache.Get(context.Background(), "trackviz:osm:1.0000:0.0000:1.0000:0.0000")
	assert.ErrorIs(t, cerr, ErrCacheMiss)
}

func TestQueryTimeout(t *testing.T) {
	assert.Contains(t, Query(1, 0, 1, 0, 0), "[timeout:60]")
	assert.Contains(t, Query(1, 0, 1, 0, 90*time.Second), "[timeout:90]")
	assert.Contains(t, Query(1, 0, 1, 0, 1500*time.Millisecond), "[timeout:2]")
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	b, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), b)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
