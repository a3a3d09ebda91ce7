// Package kpi reads economic and environmental KPI reports and derives a
// technology recommendation from them.
package kpi

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"energy-tools/internal/models"
)

var (
	ErrNotFound    = errors.New("kpi report not found")
	ErrUnsupported = errors.New("unsupported kpi report format")
)

// Entry is one displayed key metric.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Report is a parsed KPI file. For CSV input Entries holds the numeric
// columns of the first row and Scenarios every row that names a scenario.
type Report struct {
	Path      string     `json:"path"`
	Entries   []Entry    `json:"entries"`
	Scenarios []Scenario `json:"scenarios,omitempty"`
}

// Scenario is one row of a multi-scenario KPI table.
type Scenario struct {
	Name     string        `json:"scenario"`
	LCOH     models.Metric `json:"lcoh_eur_per_mwh"`
	CO2      models.Metric `json:"co2_t_per_a"`
	Capex    models.Metric `json:"capex_eur"`
	Opex     models.Metric `json:"opex_eur"`
	Energy   models.Metric `json:"energy_costs_eur"`
	Comments string        `json:"comment,omitempty"`
}

// Load reads a .csv or .json KPI report.
func Load(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open kpi report: %w", err)
	}
	defer f.Close()

	var rep *Report
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rep, err = ParseCSV(f)
	case ".json":
		rep, err = ParseJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rep.Path = path
	return rep, nil
}

// ParseCSV reads a KPI table with a header row.
func ParseCSV(r io.Reader) (*Report, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	if len(records) == 0 {
		return rep, nil
	}
	header := records[0]
	rows := records[1:]

	if len(rows) > 0 {
		for i, col := range header {
			if i >= len(rows[0]) {
				break
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][i]), 64); err == nil {
				rep.Entries = append(rep.Entries, Entry{Name: col, Value: strings.TrimSpace(rows[0][i])})
			}
		}
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	si, ok := col["scenario"]
	if !ok {
		return rep, nil
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for _, row := range rows {
		if si >= len(row) || strings.TrimSpace(row[si]) == "" {
			continue
		}
		rep.Scenarios = append(rep.Scenarios, Scenario{
			Name:     strings.TrimSpace(row[si]),
			LCOH:     metric(get(row, "lcoh_eur_per_mwh")),
			CO2:      metric(get(row, "co2_t_per_a")),
			Capex:    metric(get(row, "capex_eur")),
			Opex:     metric(get(row, "opex_eur")),
			Energy:   metric(get(row, "energy_costs_eur")),
			Comments: get(row, "comment"),
		})
	}
	return rep, nil
}

// ParseJSON reads a flat JSON object. Keys are listed in sorted order.
func ParseJSON(r io.Reader) (*Report, error) {
	var obj map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep := &Report{Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		rep.Entries = append(rep.Entries, Entry{Name: k, Value: displayJSON(obj[k])})
	}
	return rep, nil
}

func displayJSON(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func metric(s string) models.Metric {
	if s == "" {
		return models.Unknown()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Unknown()
	}
	return models.Known(v)
}
