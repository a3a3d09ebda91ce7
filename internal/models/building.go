package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// AddressEntry is one record of a building's `adressen` list.
type AddressEntry struct {
	Street      string `json:"str"`
	HouseNumber string `json:"hnr,omitempty"`
}

// UnmarshalJSON accepts house numbers encoded as strings or numbers.
func (a *AddressEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Street      string          `json:"str"`
		HouseNumber json.RawMessage `json:"hnr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Street = raw.Street
	a.HouseNumber = ""

	hnr := bytes.TrimSpace(raw.HouseNumber)
	if len(hnr) == 0 || bytes.Equal(hnr, []byte("null")) {
		return nil
	}
	if hnr[0] == '"' {
		return json.Unmarshal(hnr, &a.HouseNumber)
	}
	var n json.Number
	if err := json.Unmarshal(hnr, &n); err != nil {
		return fmt.Errorf("hnr: %w", err)
	}
	a.HouseNumber = n.String()
	return nil
}

// BuildingRecord is a building footprint with its parsed address list.
// Geometry and Properties are kept verbatim so the record can be handed back
// to the simulation collaborator as a GeoJSON feature.
type BuildingRecord struct {
	ID         string                     `json:"id"`
	GenericID  string                     `json:"generic_id,omitempty"`
	Index      int                        `json:"index"` // position in the source collection
	Geometry   json.RawMessage            `json:"geometry"`
	Addresses  []AddressEntry             `json:"addresses"`
	Properties map[string]json.RawMessage `json:"-"`
}

// NormalizeStreet trims and case-folds a street name for matching. Full
// Unicode folding is used, so "Hauptstraße" and "HAUPTSTRASSE" share a key.
func NormalizeStreet(s string) string {
	// A Caser is stateful; build one per call.
	return cases.Fold().String(strings.TrimSpace(s))
}
