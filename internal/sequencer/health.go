package sequencer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Prober checks a single exposed endpoint of the managed instance.
// It is satisfied by *iris.PortProber.
type Prober interface {
	Name() string
	Probe(ctx context.Context) ProbeResult
}

// RunDeepHealth probes all targets concurrently and returns a map of probe
// name to ProbeResult. A failing probe does not cancel its siblings.
func RunDeepHealth(ctx context.Context, probers []Prober) map[string]ProbeResult {
	results := make(map[string]ProbeResult, len(probers))
	var mu sync.Mutex
	var g errgroup.Group

	for _, p := range probers {
		p := p
		g.Go(func() error {
			probe := p.Probe(ctx)
			mu.Lock()
			results[p.Name()] = probe
			mu.Unlock()
			return nil
		})
	}

	// Wait never returns an error because all goroutines return nil.
	_ = g.Wait()
	return results
}
