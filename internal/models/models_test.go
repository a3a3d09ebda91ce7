package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricZeroValueIsUnknown(t *testing.T) {
	var m Metric
	_, ok := m.Get()
	assert.False(t, ok)
	assert.False(t, Known(math.NaN()).IsKnown())
	assert.False(t, Known(math.Inf(1)).IsKnown())

	v, ok := Known(0).Get()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestMetricJSON(t *testing.T) {
	var p PowerMetrics
	require.NoError(t, json.Unmarshal([]byte(`{"max_loading": 81.5, "min_voltage": null}`), &p))

	v, ok := p.MaxLoading.Get()
	assert.True(t, ok)
	assert.Equal(t, 81.5, v)
	assert.False(t, p.MinVoltage.IsKnown())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"max_loading": 81.5, "min_voltage": null}`, string(out))
}

func TestAddressEntryHouseNumberForms(t *testing.T) {
	var entries []AddressEntry
	raw := `[{"str":"Hauptstraße","hnr":12},{"str":"Hauptstraße","hnr":"12a"},{"str":"Weg"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	require.Len(t, entries, 3)
	assert.Equal(t, "12", entries[0].HouseNumber)
	assert.Equal(t, "12a", entries[1].HouseNumber)
	assert.Equal(t, "", entries[2].HouseNumber)
}

func TestFarFlags(t *testing.T) {
	row := MetricsRow{DistToSubstation: Known(650), DistToTransformer: Known(120)}

	far, known := row.FarFromSubstation()
	assert.True(t, far)
	assert.True(t, known)

	far, known = row.FarFromTransformer()
	assert.False(t, far)
	assert.True(t, known)

	_, known = MetricsRow{}.FarFromSubstation()
	assert.False(t, known)
}

func TestNormalizeStreet(t *testing.T) {
	assert.Equal(t, NormalizeStreet("bahnhofstraße"), NormalizeStreet(" BAHNHOFSTRASSE "))
	assert.NotEqual(t, NormalizeStreet("Bahnhofstraße"), NormalizeStreet("Bahnhof"))
	assert.Equal(t, "", NormalizeStreet("   "))
}
