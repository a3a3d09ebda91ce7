package models

// DualNetworkStats mirrors dual_network_stats_<scenario>.json written by the
// dual-pipe network collaborator.
type DualNetworkStats struct {
	TotalSupplyLengthKm         Metric `json:"total_supply_length_km"`
	TotalReturnLengthKm         Metric `json:"total_return_length_km"`
	TotalMainLengthKm           Metric `json:"total_main_length_km"`
	TotalServiceLengthM         Metric `json:"total_service_length_m"`
	NumBuildings                Metric `json:"num_buildings"`
	ServiceConnections          Metric `json:"service_connections"`
	TotalHeatDemandMWh          Metric `json:"total_heat_demand_mwh"`
	NetworkDensityKmPerBuilding Metric `json:"network_density_km_per_building"`
	AllConnectionsFollowStreets *bool  `json:"all_connections_follow_streets,omitempty"`
}

// HydraulicResults mirrors pandapipes_simulation_results_<scenario>.json.
type HydraulicResults struct {
	PressureDropBar  Metric `json:"pressure_drop_bar"`
	MinPressureBar   Metric `json:"min_pressure_bar"`
	MaxPressureBar   Metric `json:"max_pressure_bar"`
	TotalFlowKgPerS  Metric `json:"total_flow_kg_per_s"`
	TemperatureDropC Metric `json:"temperature_drop_c"`
	HydraulicSuccess *bool  `json:"hydraulic_success,omitempty"`
}
