package geom

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// LoadCSV reads a CSV file. A wkt, ewkt or geometry column yields one
// collection member per row; otherwise latitude/longitude columns yield a
// multipoint. Column detection is case-insensitive: lat|latitude|y and
// lon|lng|long|longitude|x.
func LoadCSV(path string) (Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over a reader.
func ReadCSV(in io.Reader) (Geometry, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idxLat, idxLon, idxWKT := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "wkt", "ewkt", "geometry", "geom":
			if idxWKT == -1 {
				idxWKT = i
			}
		}
	}
	if idxWKT != -1 {
		return csvGeometries(recs[1:], idxWKT)
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	mp := &MultiPoint{}
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		mp.Points = append(mp.Points, NewPoint(lon, lat))
	}
	if len(mp.Points) == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return mp, nil
}

func csvGeometries(rows [][]string, col int) (Geometry, error) {
	gc := &GeometryCollection{}
	for i, row := range rows {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		g, err := ParseText(row[col])
		if err != nil {
			return nil, errors.Wrapf(err, "csv row %d", i+2)
		}
		if len(gc.Geometries) > 0 && g.Layout() != gc.layout {
			return nil, errors.Wrapf(ErrParse, "csv row %d: %s geometry after %s rows", i+2, g.Layout(), gc.layout)
		}
		gc.layout = g.Layout()
		gc.Geometries = append(gc.Geometries, g)
	}
	if len(gc.Geometries) == 0 {
		return nil, errors.New("csv: no valid geometries parsed")
	}
	return gc, nil
}
