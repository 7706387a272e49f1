// Package basemap fetches OpenStreetMap street networks and draws them as the
// lowest layer of a canvas.Surface.
package basemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"net/url"
	"time"

	"github.com/paulmach/orb"
	"github.com/valyala/fasthttp"

	"trackviz/internal/canvas"
	"trackviz/internal/metrics"
)

// ErrFetch wraps transport and HTTP status failures.
var ErrFetch = errors.New("basemap fetch failed")

// LayerName is the name of the layer Streets adds.
const LayerName = "basemap"

const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// Provider draws a street network for the box onto s at the lowest z-order.
type Provider interface {
	Streets(ctx context.Context, north, south, east, west float64, s *canvas.Surface) error
}

var (
	streetColor = color.NRGBA{R: 0xb4, G: 0xb4, B: 0xb4, A: 0xff}
	majorColor  = color.NRGBA{R: 0x8c, G: 0x8c, B: 0x8c, A: 0xff}
)

var majorHighways = map[string]bool{
	"motorway": true, "trunk": true, "primary": true, "secondary": true,
	"motorway_link": true, "trunk_link": true, "primary_link": true,
}

var _ Provider = (*Overpass)(nil)

// Overpass queries an Overpass API endpoint for highway ways.
type Overpass struct {
	Endpoint string
	Timeout  time.Duration
	Client   *fasthttp.Client
	Cache    Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewOverpass returns a provider for endpoint with a default client.
func NewOverpass(endpoint string, timeout time.Duration) *Overpass {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Overpass{
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &fasthttp.Client{
			Name:                "trackviz",
			MaxResponseBodySize: 256 << 20,
		},
	}
}

// Street is one highway way.
type Street struct {
	Highway string
	Line    orb.LineString
}

type overpassResponse struct {
	Elements []struct {
		Type     string `json:"type"`
		ID       int64  `json:"id"`
		Geometry []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geometry"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// defaultQueryTimeout is the server-side limit when no client timeout is set.
const defaultQueryTimeout = 60 * time.Second

// Query returns the Overpass QL used for a box. The server-side timeout is
// timeout rounded up to whole seconds.
func Query(north, south, east, west float64, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	secs := int(math.Ceil(timeout.Seconds()))
	return fmt.Sprintf(`[out:json][timeout:%d];way["highway"](%f,%f,%f,%f);out geom;`,
		secs, south, west, north, east)
}

func (o *Overpass) Streets(ctx context.Context, north, south, east, west float64, s *canvas.Surface) error {
	streets, err := o.Fetch(ctx, north, south, east, west)
	if err != nil {
		return err
	}
	l := canvas.Layer{
		Name:  LayerName,
		Kind:  canvas.KindBasemap,
		Z:     canvas.ZBasemap,
		Color: streetColor,
		Size:  0.6,
	}
	for _, st := range streets {
		l.Lines = append(l.Lines, st.Line)
		c := streetColor
		if majorHighways[st.Highway] {
			c = majorColor
		}
		l.Colors = append(l.Colors, c)
	}
	s.Add(l)
	metrics.LayersDrawn.WithLabelValues(l.Kind.String()).Inc()
	o.logger().Debug("basemap drawn", "streets", len(streets))
	return nil
}

// Fetch downloads (or reads from cache) the highway ways inside the box.
func (o *Overpass) Fetch(ctx context.Context, north, south, east, west float64) ([]Street, error) {
	key := fmt.Sprintf("trackviz:osm:%.4f:%.4f:%.4f:%.4f", north, south, east, west)
	body, source, err := o.cached(ctx, key)
	if err != nil {
		return nil, err
	}
	if body == nil {
		start := time.Now()
		body, err = o.post(ctx, Query(north, south, east, west, o.Timeout))
		metrics.ObserveFetch("network", start)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source = "network"
		if o.Cache != nil {
			if err := o.Cache.Set(ctx, key, body, o.CacheTTL); err != nil {
				o.logger().Warn("basemap cache write failed", "error", err)
			}
		}
	}

	var resp overpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	var out []Street
	for _, el := range resp.Elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}
		ls := make(orb.LineString, 0, len(el.Geometry))
		for _, p := range el.Geometry {
			ls = append(ls, orb.Point{p.Lon, p.Lat})
		}
		out = append(out, Street{Highway: el.Tags["highway"], Line: ls})
	}
	o.logger().Debug("basemap fetched", "source", source, "ways", len(out))
	return out, nil
}

func (o *Overpass) cached(ctx context.Context, key string) ([]byte, string, error) {
	if o.Cache == nil {
		return nil, "", nil
	}
	start := time.Now()
	b, err := o.Cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.BasemapCache.WithLabelValues("hit").Inc()
		metrics.ObserveFetch("cache", start)
		return b, "cache", nil
	case errors.Is(err, ErrCacheMiss):
		metrics.BasemapCache.WithLabelValues("miss").Inc()
	default:
		metrics.BasemapCache.WithLabelValues("error").Inc()
		o.logger().Warn("basemap cache read failed", "error", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, "", ctxErr
	}
	return nil, "", nil
}

type postResult struct {
	body []byte
	code int
	err  error
}

// post sends the query. fasthttp does not take a context, so the request runs
// in its own goroutine and post returns ctx.Err() as soon as ctx is done; the
// abandoned request finishes in the background and is discarded.
func (o *Overpass) post(ctx context.Context, query string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := o.Client
	if client == nil {
		client = &fasthttp.Client{}
	}
	deadline, hasDeadline := ctx.Deadline()

	done := make(chan postResult, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(o.Endpoint)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString("data=" + url.QueryEscape(query))

		var err error
		switch {
		case hasDeadline:
			err = client.DoDeadline(req, resp, deadline)
		case o.Timeout > 0:
			err = client.DoTimeout(req, resp, o.Timeout)
		default:
			err = client.Do(req, resp)
		}
		r := postResult{err: err}
		if err == nil {
			r.code = resp.StatusCode()
			r.body = append([]byte(nil), resp.Body()...)
		}
		done <- r
	}()

	var r postResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, o.Endpoint, r.err)
	}
	if r.code != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, o.Endpoint, r.code)
	}
	return r.body, nil
}

func (o *Overpass) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
