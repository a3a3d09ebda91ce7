package report

import (
	"time"

	"energy-tools/internal/models"
)

// DHInput is everything the district heating dashboard and summary show.
// Stats and Hydraulics are read from collaborator output; absent files leave
// every value unknown.
type DHInput struct {
	Street          string
	Scenario        string
	Buildings       int
	Stats           models.DualNetworkStats
	Hydraulics      models.HydraulicResults
	StatsFound      bool
	HydraulicsFound bool
	MapPath         string
	DashboardPath   string
	StatsPath       string
	SimulationPath  string
	GeneratedAt     time.Time
}

type dhView struct {
	DHInput
	Density   models.Metric
	Readiness []Readiness
}

// RenderDH renders the district heating network dashboard and summary.
func RenderDH(in DHInput) (dashboard, summary string, err error) {
	v := dhView{
		DHInput:   in,
		Density:   networkDensity(in),
		Readiness: dhReadiness(in),
	}
	if dashboard, err = execHTML("dh_dashboard.html.tmpl", v); err != nil {
		return "", "", err
	}
	if summary, err = execText("dh_summary.txt.tmpl", v); err != nil {
		return "", "", err
	}
	return dashboard, summary, nil
}

func networkDensity(in DHInput) models.Metric {
	if in.Stats.NetworkDensityKmPerBuilding.IsKnown() {
		return in.Stats.NetworkDensityKmPerBuilding
	}
	km, ok := in.Stats.TotalMainLengthKm.Get()
	if !ok || in.Buildings == 0 {
		return models.Unknown()
	}
	return models.Known(km / float64(in.Buildings))
}

func dhReadiness(in DHInput) []Readiness {
	network := Readiness{Label: "Complete Dual-Pipe System", Detail: "network statistics not found"}
	if in.StatsFound {
		supply := in.Stats.TotalSupplyLengthKm.IsKnown()
		ret := in.Stats.TotalReturnLengthKm.IsKnown()
		if supply && ret {
			network.Status, network.Detail = StatusOK, "Supply and return networks"
		} else {
			network.Status, network.Detail = StatusWarning, "Supply or return network missing"
		}
	}

	hydraulic := Readiness{
		Label:  "Hydraulic Simulation",
		Status: flagStatus(in.Hydraulics.HydraulicSuccess),
		Detail: "simulation results not found",
	}
	switch hydraulic.Status {
	case StatusOK:
		hydraulic.Detail = "Hydraulic analysis completed"
	case StatusWarning:
		hydraulic.Detail = "Hydraulic simulation did not converge"
	}

	routing := Readiness{
		Label:  "Street-Based Routing",
		Status: flagStatus(in.Stats.AllConnectionsFollowStreets),
		Detail: "routing not reported",
	}
	switch routing.Status {
	case StatusOK:
		routing.Detail = "All connections follow streets"
	case StatusWarning:
		routing.Detail = "Some connections leave the street network"
	}

	return []Readiness{network, hydraulic, routing}
}
