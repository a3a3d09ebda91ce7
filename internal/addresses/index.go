// Package addresses loads building footprints with nested address records and
// answers street queries against them.
package addresses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"energy-tools/internal/models"
)

// ErrDataUnavailable is returned when the source file is absent.
var ErrDataUnavailable = errors.New("building data unavailable")

type rawFeature struct {
	Type       string                     `json:"type"`
	ID         json.RawMessage            `json:"id"`
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
	// Some exports carry the nested records on the feature itself.
	Adressen json.RawMessage `json:"adressen"`
	Gebaeude json.RawMessage `json:"gebaeude"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// Index is an immutable, parsed view of a building collection.
type Index struct {
	source    string
	records   []models.BuildingRecord
	byStreet  map[string][]int
	streets   []string
	malformed int
}

// Load reads and indexes the feature collection at path.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, path)
		}
		return nil, fmt.Errorf("open buildings file: %w", err)
	}
	defer f.Close()

	idx, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	idx.source = path
	return idx, nil
}

// Parse builds an Index from a GeoJSON feature collection.
func Parse(r io.Reader) (*Index, error) {
	var fc rawCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	idx := &Index{
		records:  make([]models.BuildingRecord, 0, len(fc.Features)),
		byStreet: make(map[string][]int),
	}
	names := map[string]struct{}{}

	for i, feat := range fc.Features {
		rec, ok := toRecord(i, feat)
		if !ok {
			idx.malformed++
		}
		pos := len(idx.records)
		idx.records = append(idx.records, rec)

		seen := map[string]bool{}
		for _, a := range rec.Addresses {
			name := strings.TrimSpace(a.Street)
			if name == "" {
				continue
			}
			names[name] = struct{}{}
			key := models.NormalizeStreet(name)
			if seen[key] {
				continue // one building, many matching entries
			}
			seen[key] = true
			idx.byStreet[key] = append(idx.byStreet[key], pos)
		}
	}

	idx.streets = make([]string, 0, len(names))
	for n := range names {
		idx.streets = append(idx.streets, n)
	}
	sort.Strings(idx.streets)

	return idx, nil
}

// toRecord converts a raw feature. ok is false when the nested address list
// could not be decoded; the record is still returned with no addresses.
func toRecord(i int, feat rawFeature) (models.BuildingRecord, bool) {
	props := feat.Properties
	if props == nil {
		props = map[string]json.RawMessage{}
	}
	if len(feat.Adressen) > 0 {
		if _, ok := props["adressen"]; !ok {
			props["adressen"] = feat.Adressen
		}
	}
	if len(feat.Gebaeude) > 0 {
		if _, ok := props["gebaeude"]; !ok {
			props["gebaeude"] = feat.Gebaeude
		}
	}

	rec := models.BuildingRecord{
		Index:      i,
		Geometry:   feat.Geometry,
		Properties: props,
	}

	var building struct {
		OI json.RawMessage `json:"oi"`
	}
	if raw, ok := props["gebaeude"]; ok && decodeNested(raw, &building) == nil {
		rec.ID = scalarString(building.OI)
	}
	if raw, ok := props["id"]; ok {
		rec.GenericID = scalarString(raw)
	} else {
		rec.GenericID = scalarString(feat.ID)
	}

	raw, ok := props["adressen"]
	if !ok || isNull(raw) {
		return rec, true
	}
	if err := decodeNested(raw, &rec.Addresses); err != nil {
		rec.Addresses = nil
		return rec, false
	}
	return rec, true
}

// decodeNested decodes a value that is either inline JSON or a JSON string
// holding encoded JSON.
func decodeNested(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), v)
	}
	return json.Unmarshal(raw, v)
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return strings.TrimSpace(s)
		}
		return ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Source is the path the index was loaded from, if any.
func (idx *Index) Source() string { return idx.source }

// Len is the number of buildings in the collection.
func (idx *Index) Len() int { return len(idx.records) }

// Malformed counts features whose address list could not be decoded.
func (idx *Index) Malformed() int { return idx.malformed }

// Records returns all buildings in source order.
func (idx *Index) Records() []models.BuildingRecord {
	out := make([]models.BuildingRecord, len(idx.records))
	copy(out, idx.records)
	return out
}

// Streets returns the unique trimmed street names, sorted.
func (idx *Index) Streets() []string {
	out := make([]string, len(idx.streets))
	copy(out, idx.streets)
	return out
}
