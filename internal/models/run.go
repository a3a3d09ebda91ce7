package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AnalysisRun is one recorded tool invocation.
type AnalysisRun struct {
	bun.BaseModel `bun:"table:app.analysis_runs,alias:ar"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Street        string    `bun:"street,notnull" json:"street"`
	Kind          string    `bun:"kind,notnull" json:"kind"` // hp, dh, compare
	Scenario      string    `bun:"scenario" json:"scenario,omitempty"`
	Outcome       string    `bun:"outcome,notnull" json:"outcome"` // ok, empty, error
	BuildingCount int       `bun:"building_count" json:"building_count"`
	Summary       string    `bun:"summary" json:"summary"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
