package iris

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vsenadev/sanitary-surveillance/internal/config"
	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
)

// PortProber TCP-dials one exposed port of the instance, wrapped in a circuit
// breaker so a wedged instance stops consuming probe timeouts after three
// consecutive failures.
type PortProber struct {
	name    string
	addr    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewPortProber constructs a prober for one named port.
func NewPortProber(name, host string, port int, timeout time.Duration, cb *gobreaker.CircuitBreaker) *PortProber {
	d := &net.Dialer{}
	return &PortProber{
		name:    name,
		addr:    fmt.Sprintf("%s:%d", host, port),
		timeout: timeout,
		cb:      cb,
		dial:    d.DialContext,
	}
}

// NewProbers builds one PortProber per configured port, each with its own
// breaker so a single dead port trips independently.
func NewProbers(cfg config.InstanceConfig) []sequencer.Prober {
	probers := make([]sequencer.Prober, 0, len(cfg.Ports))
	for _, p := range cfg.Ports {
		probers = append(probers, NewPortProber(p.Name, cfg.ProbeHost, p.Port, cfg.ProbeTimeout, NewCircuitBreaker(p.Name)))
	}
	return probers
}

// Name returns the probe target's name.
func (p *PortProber) Name() string { return p.name }

// Probe attempts a TCP connection to the port. The dial is wrapped in the
// circuit breaker; while the breaker is open, probes return immediately with
// "circuit open".
func (p *PortProber) Probe(ctx context.Context) sequencer.ProbeResult {
	start := time.Now()

	_, err := p.cb.Execute(func() (any, error) {
		dialCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}

		conn, err := p.dial(dialCtx, "tcp", p.addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", p.addr, err)
		}
		conn.Close() //nolint:errcheck
		return nil, nil
	})

	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		if errors.Is(err, gobreaker.ErrOpenState) {
			errMsg = "circuit open"
		}
		return sequencer.ProbeResult{
			Name:      p.name,
			OK:        false,
			LatencyMs: latency,
			Error:     errMsg,
		}
	}

	return sequencer.ProbeResult{
		Name:      p.name,
		OK:        true,
		LatencyMs: latency,
	}
}
