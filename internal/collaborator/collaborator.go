// Package collaborator binds the external simulation package that performs
// proximity search, service-line routing, power flow and dual-pipe network
// design. The package itself is out of process; this side only marshals
// requests and reads back what it produces.
package collaborator

import (
	"context"
	"encoding/json"
	"errors"

	"energy-tools/internal/models"
)

// ErrUnavailable is returned by every call on an unavailable collaborator.
var ErrUnavailable = errors.New("simulation collaborator unavailable")

// Infrastructure is the power grid around the analysed buildings as GeoJSON
// feature collections.
type Infrastructure struct {
	Lines       json.RawMessage `json:"lines"`
	Substations json.RawMessage `json:"substations"`
	Plants      json.RawMessage `json:"plants"`
	Generators  json.RawMessage `json:"generators"`
}

// Analysis carries the street selection shared by the HP calls.
type Analysis struct {
	Buildings json.RawMessage `json:"buildings"` // GeoJSON feature collection
	Infra     *Infrastructure `json:"infrastructure"`
}

// PowerRequest runs the power flow for one load scenario.
type PowerRequest struct {
	Analysis
	Scenario         string `json:"scenario"`
	LoadProfilesFile string `json:"load_profiles_file,omitempty"`
	NetworkFile      string `json:"network_file,omitempty"`
}

// ServiceLineRequest routes service connections along the street graph.
type ServiceLineRequest struct {
	Analysis
	StreetsFile string `json:"streets_file"`
	OutputDir   string `json:"output_dir"`
}

// ServiceLines describes the routed connections.
type ServiceLines struct {
	Count int    `json:"count"`
	Path  string `json:"path,omitempty"`
}

// VisualizeRequest renders the interactive HP map.
type VisualizeRequest struct {
	Analysis
	OutputDir          string            `json:"output_dir"`
	StreetsFile        string            `json:"streets_file,omitempty"`
	ShowBuildingToLine bool              `json:"show_building_to_line"`
	DrawServiceLines   bool              `json:"draw_service_lines"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// NetworkRequest configures one dual-pipe network design run.
type NetworkRequest struct {
	Scenario            string `json:"scenario"`
	ResultsDir          string `json:"results_dir"`
	BuildingsFile       string `json:"buildings_file"`
	StreetsFile         string `json:"streets_file,omitempty"`
	LoadProfilesFile    string `json:"load_profiles_file,omitempty"`
	BuildingDemandsFile string `json:"building_demands_file,omitempty"`
	LoadProfileScenario string `json:"load_profile_scenario,omitempty"`
}

// Simulator is the call surface of the HP side of the collaborator.
type Simulator interface {
	LoadPowerInfrastructure(ctx context.Context) (*Infrastructure, error)
	// ComputeProximity returns distances keyed by building identifier.
	ComputeProximity(ctx context.Context, a Analysis) (map[string]models.Proximity, error)
	ComputeServiceLinesStreetFollowing(ctx context.Context, req ServiceLineRequest) (ServiceLines, error)
	// ComputePowerFeasibility returns loading and voltage keyed by building
	// identifier.
	ComputePowerFeasibility(ctx context.Context, req PowerRequest) (map[string]models.PowerMetrics, error)
	// Visualize writes the interactive map and returns its path.
	Visualize(ctx context.Context, req VisualizeRequest) (string, error)

	DualPipeNetwork(req NetworkRequest) DualPipeNetwork
}

// DualPipeNetwork designs and simulates a supply/return pipe network. Calls
// are made in order: LoadData, CreateCompleteDualPipeNetwork, then
// CreateDualPipeInteractiveMap.
type DualPipeNetwork interface {
	LoadData(ctx context.Context) error
	CreateCompleteDualPipeNetwork(ctx context.Context) error
	// CreateDualPipeInteractiveMap returns the path of the rendered map.
	CreateDualPipeInteractiveMap(ctx context.Context) (string, error)
}

// Unavailable stands in for a collaborator that failed its probe.
type Unavailable struct {
	Reason string
}

func (u Unavailable) err() error {
	if u.Reason == "" {
		return ErrUnavailable
	}
	return &unavailableError{reason: u.Reason}
}

type unavailableError struct{ reason string }

func (e *unavailableError) Error() string { return ErrUnavailable.Error() + ": " + e.reason }
func (e *unavailableError) Unwrap() error { return ErrUnavailable }

func (u Unavailable) LoadPowerInfrastructure(context.Context) (*Infrastructure, error) {
	return nil, u.err()
}

func (u Unavailable) ComputeProximity(context.Context, Analysis) (map[string]models.Proximity, error) {
	return nil, u.err()
}

func (u Unavailable) ComputeServiceLinesStreetFollowing(context.Context, ServiceLineRequest) (ServiceLines, error) {
	return ServiceLines{}, u.err()
}

func (u Unavailable) ComputePowerFeasibility(context.Context, PowerRequest) (map[string]models.PowerMetrics, error) {
	return nil, u.err()
}

func (u Unavailable) Visualize(context.Context, VisualizeRequest) (string, error) {
	return "", u.err()
}

func (u Unavailable) DualPipeNetwork(NetworkRequest) DualPipeNetwork { return unavailableNetwork{u} }

type unavailableNetwork struct{ u Unavailable }

func (n unavailableNetwork) LoadData(context.Context) error { return n.u.err() }

func (n unavailableNetwork) CreateCompleteDualPipeNetwork(context.Context) error { return n.u.err() }

func (n unavailableNetwork) CreateDualPipeInteractiveMap(context.Context) (string, error) {
	return "", n.u.err()
}

// Available reports whether s can be called.
func Available(s Simulator) bool {
	switch s.(type) {
	case nil, Unavailable, *Unavailable:
		return false
	}
	return true
}
