// Package report renders analysis results as HTML dashboards and plain-text
// summaries. Rendering is pure: the same input yields byte-identical output.
package report

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = map[string]any{
	"pct":   Percent,
	"pu":    PU,
	"m0":    Meters,
	"km":    Km,
	"bar":   Bar,
	"dec1":  oneDec,
	"int":   integer,
	"unit":  withUnit,
	"stamp": stamp,
	"join":  strings.Join,
	"cells": cells,
}

// cells packs a metric card's title, value and unit.
func cells(title, value, unit string) []string {
	return []string{title, value, unit}
}

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.txt.tmpl"))
)

func execHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func execText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// ScenarioOption is an entry of the dashboard's scenario selector.
type ScenarioOption struct {
	Name  string
	Label string
}

// Chart is an image embedded in a dashboard.
type Chart struct {
	Title string
	Path  string
}

// Readiness is one line of the implementation readiness assessment.
type Readiness struct {
	Label  string
	Status Status
	Detail string
}
