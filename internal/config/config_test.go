package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xplore/internal/policy"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/xplore")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, policy.Default(), cfg.Confidence)
	assert.Equal(t, ClassifierRoboflow, cfg.ClassifierKind)
	assert.Equal(t, StorageLocal, cfg.StorageProvider)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60*time.Second, cfg.Roboflow.Timeout)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.True(t, cfg.DBAutoMigrate)
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIDENCE_FLOOR", "0.4")
	t.Setenv("CONFIDENCE_ACCEPT", "0.8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ROBOFLOW_TIMEOUT", "5s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, policy.Confidence{Floor: 0.4, Accept: 0.8}, cfg.Confidence)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.Roboflow.Timeout)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIDENCE_FLOOR", "0.95")
	t.Setenv("STORAGE_PROVIDER", "gcs")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floor <= accept")
	assert.Contains(t, err.Error(), "GCS_BUCKET")
}
