package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vsenadev/sanitary-surveillance/internal/api"
	"github.com/vsenadev/sanitary-surveillance/internal/config"
	"github.com/vsenadev/sanitary-surveillance/internal/iris"
	"github.com/vsenadev/sanitary-surveillance/internal/runstore"
	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
	"github.com/vsenadev/sanitary-surveillance/internal/telemetry"
	"github.com/vsenadev/sanitary-surveillance/internal/transcript"
)

// AppContext holds all constructed application dependencies shared across
// subcommands. It is built once in PersistentPreRunE and referenced by
// run.go and serve.go.
type AppContext struct {
	cfg          *config.Config
	otelProvider *telemetry.Provider
	sequencer    *sequencer.Sequencer
	router       *api.Router
}

// buildAppContext constructs all application dependencies from cfg:
//  1. Initialises the OTEL provider (best-effort, non-fatal)
//  2. Re-installs the logger with the boot log tee when configured
//  3. Wires the IRIS adapters, transcript, run store and sequencer
//  4. Creates the diagnostic HTTP router
func buildAppContext(cfg *config.Config) (*AppContext, error) {
	if cfg.Instance.Name == "" {
		return nil, fmt.Errorf("instance.name must not be empty")
	}

	app := &AppContext{cfg: cfg}

	// OTEL is best-effort: a missing collector must never block the boot
	// path. When OTLPEndpoint is empty, telemetry is disabled entirely — the
	// default, since most deployments have no collector reachable from
	// inside the database container.
	if cfg.Telemetry.OTLPEndpoint == "" {
		slog.Debug("OTEL telemetry disabled (no endpoint configured)")
	} else {
		tp, err := telemetry.InitProvider(
			context.Background(),
			cfg.Telemetry.OTLPEndpoint,
			cfg.Telemetry.ServiceName,
			cfg.Telemetry.OTLPInsecure,
		)
		if err != nil {
			slog.Warn("OTEL provider init failed, telemetry disabled", "err", err)
		} else {
			app.otelProvider = tp
		}
	}

	// The boot log keeps a copy of the entrypoint's own output on the data
	// volume, where it outlives the exec handoff.
	var extra []slog.Handler
	if cfg.Telemetry.BootLog != "" {
		w, err := transcript.New(cfg.Telemetry.BootLog).Open()
		if err != nil {
			slog.Warn("boot log unavailable, logging to stdout only", "err", err)
		} else {
			extra = append(extra, slog.NewJSONHandler(w, nil))
		}
	}
	initLogger(logLevel, extra)

	tr := transcript.New(cfg.Instance.Transcript)
	store := runstore.New(cfg.Sequence.ResultPath)

	exec := iris.Handoff(cfg.Instance.MainProcess)
	if app.otelProvider != nil {
		// Flush telemetry before the process image is replaced: nothing in
		// this process survives a successful exec, deferred shutdowns
		// included.
		provider := app.otelProvider
		inner := exec
		exec = func(args []string) error {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutCtx); err != nil {
				slog.Warn("OTEL shutdown error", "err", err)
			}
			return inner(args)
		}
	}

	app.sequencer = sequencer.New(
		iris.NewController(cfg.Instance),
		iris.NewSession(cfg.Instance, tr),
		exec,
		store,
		sequencer.Policy{
			AbortOnInitFailure: cfg.Sequence.AbortOnInitFailure,
			StartTimeout:       cfg.Sequence.StartTimeout,
			InitTimeout:        cfg.Sequence.InitTimeout,
			StopTimeout:        cfg.Sequence.StopTimeout,
		},
	)

	app.router = api.NewRouter(iris.NewProbers(cfg.Instance), store, tr)

	return app, nil
}
