package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESULT_DIRS", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("ALLOW_POSITIONAL_KEYS", "")

	cfg := Load()

	assert.Equal(t, "results_test", cfg.OutputDir)
	assert.Equal(t, []string{"results_test", "results", "simulation_outputs"}, cfg.ResultDirs)
	assert.False(t, cfg.AllowPositionalKeys)
	assert.Equal(t, "local", cfg.StorageType)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESULT_DIRS", " out ,, other ")
	t.Setenv("COLLABORATOR_TIMEOUT", "30s")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("TOKEN_TTL_HOURS", "2")

	cfg := Load()

	assert.Equal(t, []string{"out", "other"}, cfg.ResultDirs)
	assert.Equal(t, 30*time.Second, cfg.CollaboratorTimeout)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("BUNDEBUG", "maybe")
	t.Setenv("COLLABORATOR_TIMEOUT", "soon")

	cfg := Load()

	assert.False(t, cfg.BunDebug)
	assert.Equal(t, 10*time.Minute, cfg.CollaboratorTimeout)
}
