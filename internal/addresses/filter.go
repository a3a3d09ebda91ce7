package addresses

import (
	"encoding/json"
	"fmt"

	"energy-tools/internal/models"
)

// BuildingsOnStreet returns the buildings with at least one address on the
// given street. Matching is exact after trimming and case folding. No match
// yields an empty slice.
func (idx *Index) BuildingsOnStreet(street string) []models.BuildingRecord {
	key := models.NormalizeStreet(street)
	if key == "" {
		return []models.BuildingRecord{}
	}
	positions := idx.byStreet[key]
	out := make([]models.BuildingRecord, 0, len(positions))
	for _, p := range positions {
		out = append(out, idx.records[p])
	}
	return out
}

// BuildingIDs returns the identifiers of the buildings on the street.
// Buildings without an identifier are left out.
func (idx *Index) BuildingIDs(street string) []string {
	recs := idx.BuildingsOnStreet(street)
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

type outFeature struct {
	Type       string                     `json:"type"`
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

type outCollection struct {
	Type     string       `json:"type"`
	Features []outFeature `json:"features"`
}

// FeatureCollection serialises records back to GeoJSON with their original
// properties.
func FeatureCollection(records []models.BuildingRecord) ([]byte, error) {
	fc := outCollection{Type: "FeatureCollection", Features: make([]outFeature, 0, len(records))}
	for _, r := range records {
		geom := r.Geometry
		if len(geom) == 0 {
			geom = json.RawMessage("null")
		}
		props := r.Properties
		if props == nil {
			props = map[string]json.RawMessage{}
		}
		fc.Features = append(fc.Features, outFeature{Type: "Feature", Geometry: geom, Properties: props})
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode feature collection: %w", err)
	}
	return data, nil
}

// ListStreets loads source and returns its sorted street names.
func ListStreets(source string) ([]string, error) {
	idx, err := Load(source)
	if err != nil {
		return nil, err
	}
	return idx.Streets(), nil
}

// BuildingsOnStreet loads source and returns the building identifiers on the
// street.
func BuildingsOnStreet(source, street string) ([]string, error) {
	idx, err := Load(source)
	if err != nil {
		return nil, err
	}
	return idx.BuildingIDs(street), nil
}
