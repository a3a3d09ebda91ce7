package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"energy-tools/internal/models"
	"energy-tools/internal/services"
	"energy-tools/internal/utils"

	"go.uber.org/zap"
)

// RunHandler serves the analysis run history.
type RunHandler struct {
	runs services.RunRecorder
	logr *zap.Logger
}

func NewRunHandler(runs services.RunRecorder, logr *zap.Logger) *RunHandler {
	return &RunHandler{runs: runs, logr: logr}
}

type runsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Runs    []models.AnalysisRun `json:"runs"`
}

// GET /runs?street=a,b&limit=20
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := services.DefaultRecentLimit
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, runsResponse{Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	var (
		runs []models.AnalysisRun
		err  error
	)
	if streets := utils.ParseQueryList(q, "street"); len(streets) > 0 {
		runs, err = h.byStreets(r, streets)
		if len(runs) > limit {
			runs = runs[:limit]
		}
	} else {
		runs, err = h.runs.Recent(r.Context(), limit)
	}

	if errors.Is(err, services.ErrRunHistoryDisabled) {
		writeJSON(w, http.StatusNotImplemented, runsResponse{Message: "Run history is not configured"})
		return
	}
	if err != nil {
		h.logr.Error("failed to fetch runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, runsResponse{Message: "Failed to fetch runs"})
		return
	}
	if runs == nil {
		runs = []models.AnalysisRun{}
	}
	writeJSON(w, http.StatusOK, runsResponse{Success: true, Runs: runs})
}

func (h *RunHandler) byStreets(r *http.Request, streets []string) ([]models.AnalysisRun, error) {
	var all []models.AnalysisRun
	for _, s := range streets {
		if s == "" {
			continue
		}
		runs, err := h.runs.ListByStreet(r.Context(), s)
		if err != nil {
			return nil, err
		}
		all = append(all, runs...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}
