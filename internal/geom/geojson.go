package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a FeatureCollection, a single Feature or a bare geometry.
// The legacy top-level "crs" member is honoured when opts.CRS is empty.
// A value property no feature carries is an error; features lacking it get 0.
func LoadGeoJSON(path string, opts LoadOptions) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, err
	}
	return ParseGeoJSON(data, opts)
}

// ParseGeoJSON is LoadGeoJSON on an in-memory document.
func ParseGeoJSON(data []byte, opts LoadOptions) (Collection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Collection{}, fmt.Errorf("geojson: %w", err)
	}

	var (
		features []*geojson.Feature
		extra    geojson.Properties
	)
	switch head.Type {
	case "":
		return Collection{}, errors.New("invalid geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Collection{}, fmt.Errorf("geojson: %w", err)
		}
		features, extra = fc.Features, fc.ExtraMembers
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Collection{}, fmt.Errorf("geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Collection{}, fmt.Errorf("geojson: %w", err)
		}
		features = []*geojson.Feature{geojson.NewFeature(g.Geometry())}
	}

	c := Collection{CRS: opts.CRS}
	if !c.CRS.IsSet() {
		c.CRS = crsMember(extra)
	}
	hasValue := false
	for _, f := range features {
		if f == nil || numPoints(f.Geometry) == 0 {
			continue
		}
		c.Geometries = append(c.Geometries, f.Geometry)
		if opts.ValueColumn != "" {
			if _, ok := f.Properties[opts.ValueColumn]; ok {
				hasValue = true
			}
			c.Values = append(c.Values, f.Properties.MustFloat64(opts.ValueColumn, 0))
		}
	}
	if c.Len() == 0 {
		return Collection{}, errors.New("no geometries found")
	}
	if opts.ValueColumn != "" && !hasValue {
		return Collection{}, fmt.Errorf("geojson: value property %q not found", opts.ValueColumn)
	}
	return c, nil
}

// crsMember reads {"crs": {"type": "name", "properties": {"name": "..."}}}.
func crsMember(extra geojson.Properties) CRS {
	m, ok := extra["crs"].(map[string]interface{})
	if !ok {
		return ""
	}
	props, ok := m["properties"].(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := props["name"].(string)
	return CRS(name)
}
