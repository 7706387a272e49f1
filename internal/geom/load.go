package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how trace files are read.
type LoadOptions struct {
	// CRS, when set, overrides whatever the file declares (GeoJSON crs
	// member, EWKT SRID prefix, the implicit WGS84 of KML).
	CRS CRS
	// ValueColumn names a numeric attribute copied into Collection.Values.
	ValueColumn string
}

// Load picks a reader by file extension.
func Load(path string, opts LoadOptions) (Collection, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path, opts)
	case ".csv":
		return LoadCSV(path, opts)
	case ".kml":
		c, err := LoadKML(path)
		if err == nil && opts.CRS.IsSet() {
			c.CRS = opts.CRS
		}
		return c, err
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return Collection{}, err
		}
		c, err := ParseWKTCollection(string(data), "")
		if err == nil && opts.CRS.IsSet() {
			c.CRS = opts.CRS
		}
		return c, err
	}
	return Collection{}, fmt.Errorf("unsupported file: %q", ext)
}
