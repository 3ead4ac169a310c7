package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: t.Parallel() is intentionally omitted in this package.
// These tests share process-global environment variables; t.Setenv would
// race with any concurrent reader.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, "irisboot", cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)

	assert.Equal(t, "IRIS", cfg.Instance.Name)
	assert.Equal(t, "iris", cfg.Instance.Bin)
	assert.Equal(t, "/iris-main", cfg.Instance.MainProcess)
	assert.Equal(t, "/opt/irisapp/iris.script", cfg.Instance.ScriptPath)
	assert.Equal(t, "/opt/irisapp/logs/import.log", cfg.Instance.Transcript)

	require.Len(t, cfg.Instance.Ports, 2)
	assert.Equal(t, PortConfig{Name: "superserver", Port: 1972}, cfg.Instance.Ports[0])
	assert.Equal(t, PortConfig{Name: "webserver", Port: 52773}, cfg.Instance.Ports[1])

	assert.False(t, cfg.Sequence.AbortOnInitFailure)
	assert.Zero(t, cfg.Sequence.InitTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("IRISBOOT_INSTANCE_NAME", "IRISHEALTH")
	t.Setenv("IRISBOOT_SEQUENCE_ABORT_ON_INIT_FAILURE", "true")
	t.Setenv("IRISBOOT_SEQUENCE_INIT_TIMEOUT", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "IRISHEALTH", cfg.Instance.Name)
	assert.True(t, cfg.Sequence.AbortOnInitFailure)
	assert.Equal(t, 5*time.Minute, cfg.Sequence.InitTimeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irisboot.yaml")
	yaml := `
instance:
  name: DEV
  ports:
    - name: superserver
      port: 1972
    - name: api
      port: 8000
    - name: dashboard
      port: 8501
sequence:
  abort_on_init_failure: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEV", cfg.Instance.Name)
	assert.True(t, cfg.Sequence.AbortOnInitFailure)
	require.Len(t, cfg.Instance.Ports, 3)
	assert.Equal(t, PortConfig{Name: "dashboard", Port: 8501}, cfg.Instance.Ports[2])

	// Untouched keys keep their defaults.
	assert.Equal(t, "/iris-main", cfg.Instance.MainProcess)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
