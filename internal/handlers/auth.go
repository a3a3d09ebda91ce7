package handlers

import (
	"net/http"
	"time"

	mdlwr "energy-tools/internal/middleware"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type agentInfo struct {
	Agent     string    `json:"agent"`
	TokenID   string    `json:"token_id"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GET /auth/whoami
func (h *AuthHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	claims := mdlwr.ClaimsFrom(r.Context())
	if claims == nil {
		http.Error(w, "authentication is disabled", http.StatusNotFound)
		return
	}
	info := agentInfo{Agent: claims.Subject, TokenID: claims.ID, Scopes: claims.Scopes}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if info.Scopes == nil {
		info.Scopes = []string{}
	}
	writeJSON(w, http.StatusOK, info)
}
