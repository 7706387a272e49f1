package geom

import (
	"encoding/xml"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// LoadKML extracts Point and LineString placemarks. KML coordinates are
// "lon,lat[,alt]" in WGS84; altitude is ignored.
func LoadKML(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, err
	}

	type kmlCoords struct {
		Coordinates string `xml:"coordinates"`
	}
	type kmlPlacemark struct {
		Point      *kmlCoords `xml:"Point"`
		LineString *kmlCoords `xml:"LineString"`
	}
	type kmlDoc struct {
		Placemarks []kmlPlacemark `xml:"Document>Placemark"`
		Bare       []kmlPlacemark `xml:"Placemark"`
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Collection{}, err
	}
	c := Collection{CRS: WGS84}
	for _, pm := range append(doc.Placemarks, doc.Bare...) {
		switch {
		case pm.Point != nil:
			for _, p := range parseKMLCoords(pm.Point.Coordinates) {
				c.Geometries = append(c.Geometries, p)
			}
		case pm.LineString != nil:
			if ls := parseKMLCoords(pm.LineString.Coordinates); len(ls) > 0 {
				c.Geometries = append(c.Geometries, orb.LineString(ls))
			}
		}
	}
	if c.Len() == 0 {
		return Collection{}, errors.New("kml: no placemarks found")
	}
	return c, nil
}

// parseKMLCoords splits whitespace-separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) []orb.Point {
	var out []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out
}
