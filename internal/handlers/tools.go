package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"energy-tools/internal/tools"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ToolHandler exposes the toolkit over HTTP.
type ToolHandler struct {
	tk   *tools.Toolkit
	logr *zap.Logger
}

func NewToolHandler(tk *tools.Toolkit, logr *zap.Logger) *ToolHandler {
	return &ToolHandler{tk: tk, logr: logr}
}

type analysisReq struct {
	Street   string `json:"street"`
	Scenario string `json:"scenario,omitempty"`
}

type compareReq struct {
	Street     string `json:"street"`
	HPScenario string `json:"hp_scenario,omitempty"`
}

type kpiReq struct {
	Path string `json:"path"`
}

func (h *ToolHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logr.Warn("failed to decode request body", zap.Error(err))
		writeResult(w, tools.Err(tools.InvalidInput, "invalid request body"))
		return false
	}
	return true
}

// GET /streets
func (h *ToolHandler) ListStreets(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.tk.ListStreets(r.Context()))
}

// GET /streets/{street}/buildings
func (h *ToolHandler) BuildingIDs(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.tk.BuildingIDsForStreet(r.Context(), chi.URLParam(r, "street")))
}

// GET /scenarios
func (h *ToolHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tk.Catalogue())
}

// POST /analysis/hp
func (h *ToolHandler) RunHP(w http.ResponseWriter, r *http.Request) {
	var req analysisReq
	if !h.decode(w, r, &req) {
		return
	}
	writeResult(w, h.tk.RunHPAnalysis(r.Context(), req.Street, req.Scenario))
}

// POST /analysis/dh
func (h *ToolHandler) RunDH(w http.ResponseWriter, r *http.Request) {
	var req analysisReq
	if !h.decode(w, r, &req) {
		return
	}
	writeResult(w, h.tk.RunDHAnalysis(r.Context(), req.Street))
}

// POST /analysis/compare
func (h *ToolHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareReq
	if !h.decode(w, r, &req) {
		return
	}
	writeResult(w, h.tk.CompareScenarios(r.Context(), req.Street, req.HPScenario))
}

// POST /kpi/analyze
func (h *ToolHandler) AnalyzeKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiReq
	if !h.decode(w, r, &req) {
		return
	}
	writeResult(w, h.tk.AnalyzeKPIReport(r.Context(), strings.TrimSpace(req.Path)))
}

// GET /results
func (h *ToolHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.tk.ListResults(r.Context()))
}
