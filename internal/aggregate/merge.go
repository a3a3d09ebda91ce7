// Package aggregate joins collaborator metrics onto filtered buildings and
// reduces them to street-level statistics.
package aggregate

import (
	"strconv"

	"energy-tools/internal/models"
)

// Options controls key resolution in Merge.
type Options struct {
	// AllowPositional enables the last-resort lookup by position in the
	// filtered collection. Rows matched this way are tagged KeyPositional.
	AllowPositional bool
}

// Merge builds one MetricsRow per record. Each record is looked up in power
// and proximity by its domain identifier, then its generic id, then (only
// when enabled) its position. A record found nowhere keeps unknown metrics.
// Records are kept in input order; a repeated record is dropped.
func Merge(records []models.BuildingRecord, power map[string]models.PowerMetrics, proximity map[string]models.Proximity, opts Options) models.ResultSet {
	rs := models.ResultSet{Rows: make([]models.ResultRow, 0, len(records))}
	seen := make(map[string]bool, len(records))

	for pos, rec := range records {
		dk := dedupKey(rec)
		if seen[dk] {
			continue
		}
		seen[dk] = true

		row := models.MetricsRow{BuildingID: rec.ID, Key: models.KeyNone}
		if row.BuildingID == "" {
			row.BuildingID = rec.GenericID
		}

		key, src := resolveKey(rec, pos, power, proximity, opts)
		if src != models.KeyNone {
			row.Key = src
			if pm, ok := power[key]; ok {
				row.MaxTrafoLoading = pm.MaxLoading
				row.MinVoltagePU = pm.MinVoltage
			}
			if px, ok := proximity[key]; ok {
				row.DistToLine = px.DistToLine
				row.DistToSubstation = px.DistToSubstation
				row.DistToTransformer = px.DistToTransformer
			}
		}
		rs.Rows = append(rs.Rows, models.ResultRow{Building: rec, Metrics: row})
	}
	return rs
}

func resolveKey(rec models.BuildingRecord, pos int, power map[string]models.PowerMetrics, proximity map[string]models.Proximity, opts Options) (string, models.KeySource) {
	has := func(k string) bool {
		if k == "" {
			return false
		}
		_, a := power[k]
		_, b := proximity[k]
		return a || b
	}

	switch {
	case has(rec.ID):
		return rec.ID, models.KeyDomain
	case has(rec.GenericID):
		return rec.GenericID, models.KeyGeneric
	case opts.AllowPositional && has(strconv.Itoa(pos)):
		return strconv.Itoa(pos), models.KeyPositional
	}
	return "", models.KeyNone
}

func dedupKey(rec models.BuildingRecord) string {
	if rec.ID != "" {
		return "oi:" + rec.ID
	}
	return "pos:" + strconv.Itoa(rec.Index)
}
