package handlers

import (
	"encoding/json"
	"net/http"

	"energy-tools/internal/tools"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

// toolResponse is a Result plus its agent-facing text.
type toolResponse struct {
	tools.Result
	Text string `json:"text"`
}

// statusFor maps a tool outcome to an HTTP status. An empty street is a
// normal answer.
func statusFor(r tools.Result) int {
	if r.Status != tools.StatusError {
		return http.StatusOK
	}
	switch r.Kind {
	case tools.InvalidInput:
		return http.StatusBadRequest
	case tools.DataUnavailable, tools.CollaboratorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, r tools.Result) {
	writeJSON(w, statusFor(r), toolResponse{Result: r, Text: r.Text()})
}
