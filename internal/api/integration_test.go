package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsenadev/sanitary-surveillance/internal/runstore"
	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
	"github.com/vsenadev/sanitary-surveillance/internal/transcript"
)

// TestServeFlow_AfterSequenceRun wires the real run store and transcript into
// the full router, simulating the diagnostic API inspecting a container where
// a boot sequence already ran.
func TestServeFlow_AfterSequenceRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store := runstore.New(filepath.Join(dir, "last-run.json"))
	require.NoError(t, store.Save(&sequencer.SequenceResult{
		Status: sequencer.StatusHandedOff,
		Steps: []sequencer.StepResult{
			{Name: sequencer.StepStart, Status: sequencer.StatusOK},
			{Name: sequencer.StepInit, Status: sequencer.StatusOK},
			{Name: sequencer.StepStop, Status: sequencer.StatusOK},
			{Name: sequencer.StepHandoff, Status: sequencer.StatusOK},
		},
	}))

	logPath := filepath.Join(dir, "import.log")
	require.NoError(t, os.WriteFile(logPath, []byte("importing records\ndone\n"), 0o644))

	probers := []sequencer.Prober{
		&fakeProber{name: "superserver", result: sequencer.ProbeResult{Name: "superserver", OK: true}},
	}

	router := NewRouter(probers, store, transcript.New(logPath))
	srv := httptest.NewServer(router.Handler())
	defer srv.Close()

	// liveness
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// last run
	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res sequencer.SequenceResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, sequencer.StatusHandedOff, res.Status)
	assert.Len(t, res.Steps, 4)

	// transcript tail
	resp, err = http.Get(srv.URL + "/transcript?lines=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tail struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tail))
	assert.Equal(t, []string{"done"}, tail.Lines)
}

// TestServeFlow_FreshContainer verifies the API before any sequence has run:
// 404 on /status and an empty transcript.
func TestServeFlow_FreshContainer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	router := NewRouter(nil,
		runstore.New(filepath.Join(dir, "last-run.json")),
		transcript.New(filepath.Join(dir, "import.log")),
	)
	srv := httptest.NewServer(router.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/transcript")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
