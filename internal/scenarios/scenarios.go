// Package scenarios holds the catalogue of load profile scenarios the heat
// pump analysis can run.
package scenarios

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is used when no scenario is requested.
const DefaultName = "winter_werktag_abendspitze"

var ErrUnknown = errors.New("unknown scenario")

type Scenario struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Catalogue is the parsed scenarios file.
type Catalogue struct {
	Default   string     `yaml:"default" json:"default"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Builtin is used when no scenarios file exists.
func Builtin() *Catalogue {
	return &Catalogue{
		Default: DefaultName,
		Scenarios: []Scenario{
			{Name: "winter_werktag_abendspitze", Label: "Winter Weekday Evening Peak", Description: "Weekday evening peak load in winter"},
			{Name: "summer_sonntag_abendphase", Label: "Summer Sunday Evening", Description: "Sunday evening load in summer"},
			{Name: "winter_werktag_mittag", Label: "Winter Weekday Noon", Description: "Weekday midday load in winter"},
			{Name: "summer_werktag_abendspitze", Label: "Summer Weekday Evening Peak", Description: "Weekday evening peak load in summer"},
		},
	}
}

// Load reads a catalogue from a YAML file, falling back to Builtin when the
// file does not exist.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Builtin(), nil
		}
		return nil, fmt.Errorf("reading scenarios file: %w", err)
	}

	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing scenarios YAML: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalogue) validate() error {
	if len(c.Scenarios) == 0 {
		return errors.New("no scenarios defined")
	}
	seen := map[string]bool{}
	for i, s := range c.Scenarios {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("scenario %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Default == "" {
		c.Default = c.Scenarios[0].Name
	}
	if !seen[c.Default] {
		return fmt.Errorf("default %q: %w", c.Default, ErrUnknown)
	}
	return nil
}

// Resolve maps a requested name to a catalogue entry. An empty name selects
// the default.
func (c *Catalogue) Resolve(name string) (Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.Default
	}
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Names lists the scenario names in catalogue order.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.Scenarios))
	for i, s := range c.Scenarios {
		out[i] = s.Name
	}
	return out
}
