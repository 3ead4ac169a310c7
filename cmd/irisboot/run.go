package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [-- ARGS...]",
	Short: "Run the boot sequence and exec the main process",
	Long: `Run executes the four-step boot sequence: start the IRIS instance,
feed the import script to an interactive session, stop the instance, and exec
the main process with ARGS forwarded unchanged.

On success this command does not return — the main process takes over the
container's PID. A start failure exits non-zero without touching the
instance further; whether an import failure also aborts is controlled by
sequence.abort_on_init_failure.`,
	RunE: runSequence,
}

func runSequence(cmd *cobra.Command, args []string) error {
	// Flush telemetry on the abort path. The handoff path flushes on its own
	// before exec; Provider.Shutdown is idempotent so both may fire.
	if app.otelProvider != nil {
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.otelProvider.Shutdown(shutCtx); err != nil {
				slog.Warn("OTEL shutdown error", "err", err)
			}
		}()
	}

	slog.Info("irisboot starting",
		"instance", cfg.Instance.Name,
		"script", cfg.Instance.ScriptPath,
		"main_process", cfg.Instance.MainProcess,
	)

	if err := app.sequencer.Run(cmd.Context(), args); err != nil {
		return fmt.Errorf("boot sequence: %w", err)
	}
	return nil
}
