package sequencer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProber struct {
	name   string
	result ProbeResult
}

func (s *staticProber) Name() string                        { return s.name }
func (s *staticProber) Probe(_ context.Context) ProbeResult { return s.result }

func TestRunDeepHealth(t *testing.T) {
	t.Parallel()

	probers := []Prober{
		&staticProber{name: "superserver", result: ProbeResult{Name: "superserver", OK: true, LatencyMs: 1}},
		&staticProber{name: "webserver", result: ProbeResult{Name: "webserver", OK: false, Error: "connection refused"}},
	}

	results := RunDeepHealth(context.Background(), probers)

	require.Len(t, results, 2)
	assert.True(t, results["superserver"].OK)
	assert.False(t, results["webserver"].OK)
	assert.Equal(t, "connection refused", results["webserver"].Error)
}

func TestRunDeepHealth_NoProbers(t *testing.T) {
	t.Parallel()

	results := RunDeepHealth(context.Background(), nil)
	assert.Empty(t, results)
}
